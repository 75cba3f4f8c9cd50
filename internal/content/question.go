// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"gameoftrivia/internal/models"
	"gameoftrivia/internal/storage"
	"gameoftrivia/internal/store"
)

const minQuestionLen = 3

// QuestionInput is a question as submitted by the admin form.
type QuestionInput struct {
	QuestionText string
	Answer       string
	CategoryID   int64
	// SubcategoryID of zero means no subcategory.
	SubcategoryID int64
	Difficulty    string
	DidYouKnow    string
	ImageIsHint   bool

	// Upload holds raw image bytes from the file input, if any.
	Upload *Upload
	// SearchedImagePath is a path already persisted by the image search.
	SearchedImagePath string
	// RemoveImage clears the current image when no new one is supplied.
	RemoveImage bool
}

// CreateQuestion validates in, stores its image (upload or searched) and
// inserts the question.
func (s *Service) CreateQuestion(ctx context.Context, in QuestionInput) (*models.Question, error) {
	q, err := s.buildQuestion(ctx, in)
	if err != nil {
		return nil, err
	}

	change, err := s.resolveImage(ctx, in, nil)
	if err != nil {
		return nil, err
	}
	q.ImagePath = change.path

	if err := s.questions.Create(ctx, q); err != nil {
		s.discard(ctx, change)
		return nil, s.questionWriteError(err)
	}

	s.changed(ctx, "question", "create")
	return q, nil
}

// UpdateQuestion validates in and replaces the question's fields. The image
// follows the precedence upload, searched path, removal, unchanged; the
// previous file is deleted once the row no longer references it.
func (s *Service) UpdateQuestion(ctx context.Context, id int64, in QuestionInput) (*models.Question, error) {
	existing, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFoundError("Question not found.")
	}

	q, err := s.buildQuestion(ctx, in)
	if err != nil {
		return nil, err
	}
	q.ID = id
	q.CreatedAt = existing.CreatedAt

	change, err := s.resolveImage(ctx, in, existing.ImagePath)
	if err != nil {
		return nil, err
	}
	q.ImagePath = change.path

	if err := s.questions.Update(ctx, q); err != nil {
		s.discard(ctx, change)
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError("Question not found.")
		}
		return nil, s.questionWriteError(err)
	}

	if change.replaced != nil {
		s.removeImage(ctx, *change.replaced)
	}

	s.changed(ctx, "question", "update")
	return q, nil
}

// DeleteQuestion removes a question and then its image file.
func (s *Service) DeleteQuestion(ctx context.Context, id int64) error {
	existing, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return notFoundError("Question not found.")
	}

	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundError("Question not found.")
		}
		return err
	}
	if existing.HasImage() {
		s.removeImage(ctx, *existing.ImagePath)
	}

	s.changed(ctx, "question", "delete")
	return nil
}

// GeneratedInput is an AI-generated candidate the admin chose to keep.
type GeneratedInput struct {
	QuestionText  string
	Answer        string
	CategoryID    int64
	SubcategoryID int64
	Difficulty    string
	DidYouKnow    string
}

// CreateGeneratedQuestion saves a generated candidate without an image,
// applying the same validation as the question form.
func (s *Service) CreateGeneratedQuestion(ctx context.Context, in GeneratedInput) (*models.Question, error) {
	return s.CreateQuestion(ctx, QuestionInput{
		QuestionText:  in.QuestionText,
		Answer:        in.Answer,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		Difficulty:    in.Difficulty,
		DidYouKnow:    in.DidYouKnow,
	})
}

// buildQuestion validates the text fields and references of in.
func (s *Service) buildQuestion(ctx context.Context, in QuestionInput) (*models.Question, error) {
	text := strings.TrimSpace(in.QuestionText)
	answer := strings.TrimSpace(in.Answer)
	difficulty := models.Difficulty(strings.TrimSpace(in.Difficulty))

	switch {
	case utf8.RuneCountInString(text) < minQuestionLen:
		return nil, validationError("Question must be at least 3 characters")
	case answer == "":
		return nil, validationError("Answer is required")
	case in.CategoryID <= 0:
		return nil, validationError("Category is required")
	case !difficulty.Valid():
		return nil, validationError("Difficulty must be easy, intermediate or difficult")
	case in.SubcategoryID < 0:
		return nil, validationError("Invalid subcategory")
	}

	category, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, notFoundError("Category not found.")
	}

	q := &models.Question{
		QuestionText: text,
		Answer:       answer,
		CategoryID:   in.CategoryID,
		Difficulty:   difficulty,
		ImageIsHint:  in.ImageIsHint,
	}
	if dyk := strings.TrimSpace(in.DidYouKnow); dyk != "" {
		q.DidYouKnow = &dyk
	}

	if in.SubcategoryID > 0 {
		sc, err := s.subcategories.FindByID(ctx, in.SubcategoryID)
		if err != nil {
			return nil, err
		}
		if sc == nil {
			return nil, validationError("Subcategory not found.")
		}
		if sc.CategoryID != in.CategoryID {
			return nil, validationError("Subcategory does not belong to the selected category.")
		}
		id := sc.ID
		q.SubcategoryID = &id
	}
	return q, nil
}

// imageChange is the outcome of the image policy for one mutation.
type imageChange struct {
	// path is the value to store on the question.
	path *string
	// saved is a file written during this mutation, removed again if the
	// row write fails.
	saved string
	// replaced is the previous file to delete after a successful write.
	replaced *string
}

// resolveImage applies the image precedence: upload, then searched path,
// then removal, else keep current.
func (s *Service) resolveImage(ctx context.Context, in QuestionInput, current *string) (imageChange, error) {
	hasCurrent := current != nil && *current != ""
	previous := func() *string {
		if hasCurrent {
			return current
		}
		return nil
	}

	switch {
	case in.Upload != nil && len(in.Upload.Data) > 0:
		img, err := ValidateImage(in.Upload.Data)
		if err != nil {
			return imageChange{}, err
		}
		if s.files == nil {
			return imageChange{}, storageError("Image storage is not configured.", errors.New("no storage backend"))
		}
		stored, err := s.files.Save(ctx, storage.NewFilename(img.Ext), img.ContentType, in.Upload.Data)
		if err != nil {
			return imageChange{}, storageError("Failed to save image.", err)
		}
		return imageChange{path: &stored, saved: stored, replaced: previous()}, nil

	case strings.TrimSpace(in.SearchedImagePath) != "":
		p := strings.TrimSpace(in.SearchedImagePath)
		if err := validateStoredPath(p); err != nil {
			return imageChange{}, err
		}
		change := imageChange{path: &p}
		if hasCurrent && *current != p {
			change.replaced = current
		}
		return change, nil

	case in.RemoveImage:
		return imageChange{replaced: previous()}, nil
	}

	return imageChange{path: previous()}, nil
}

// discard removes a file saved by a mutation whose row write failed.
func (s *Service) discard(ctx context.Context, change imageChange) {
	if change.saved != "" {
		s.removeImage(ctx, change.saved)
	}
}

func (s *Service) questionWriteError(err error) error {
	if errors.Is(err, store.ErrForeignKey) {
		slog.Warn("question references a missing row", "error", err)
		return notFoundError("Category or subcategory not found.")
	}
	return err
}

// validateStoredPath accepts only references into the managed upload
// directory.
func validateStoredPath(p string) error {
	if !strings.HasPrefix(p, storage.PathPrefix) {
		return validationError("Invalid image path.")
	}
	name := strings.TrimPrefix(p, storage.PathPrefix)
	if err := storage.ValidateName(name); err != nil {
		return validationError("Invalid image path.")
	}
	return nil
}
