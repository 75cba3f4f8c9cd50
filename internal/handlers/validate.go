// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"gameoftrivia/internal/content"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/models"
)

// Request limits.
const (
	maxJSONBody   = 1 << 20
	maxFormMemory = content.MaxImageSize + 1<<20
	maxTopicLen   = 200
	maxQueryLen   = 200
	maxSaveBatch  = 50
)

var errImageTooLarge = errors.New("image too large")

// questionForm mirrors the question editor fields so a rejected submission
// can be re-rendered with what the admin typed.
type questionForm struct {
	ID            int64
	QuestionText  string
	Answer        string
	CategoryID    int64
	SubcategoryID int64
	Difficulty    string
	DidYouKnow    string
	ImagePath     string
	ImageIsHint   bool

	SearchedImagePath string
	RemoveImage       bool
}

// questionFormFrom reads the question editor fields of a parsed form.
func questionFormFrom(r *http.Request) questionForm {
	return questionForm{
		QuestionText:      r.FormValue("question_text"),
		Answer:            r.FormValue("answer"),
		CategoryID:        formInt64(r, "category_id"),
		SubcategoryID:     formInt64(r, "subcategory_id"),
		Difficulty:        r.FormValue("difficulty"),
		DidYouKnow:        r.FormValue("did_you_know"),
		ImageIsHint:       r.FormValue("image_is_hint") != "",
		SearchedImagePath: strings.TrimSpace(r.FormValue("searched_image_path")),
		RemoveImage:       r.FormValue("remove_image") != "",
	}
}

// formFromQuestion fills the editor from a stored question.
func formFromQuestion(q *models.Question) questionForm {
	f := questionForm{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		Answer:       q.Answer,
		CategoryID:   q.CategoryID,
		Difficulty:   string(q.Difficulty),
		ImageIsHint:  q.ImageIsHint,
	}
	if q.SubcategoryID != nil {
		f.SubcategoryID = *q.SubcategoryID
	}
	if q.DidYouKnow != nil {
		f.DidYouKnow = *q.DidYouKnow
	}
	if q.ImagePath != nil {
		f.ImagePath = *q.ImagePath
	}
	return f
}

// input converts the form into a content service request.
func (f questionForm) input(upload *content.Upload) content.QuestionInput {
	return content.QuestionInput{
		QuestionText:      f.QuestionText,
		Answer:            f.Answer,
		CategoryID:        f.CategoryID,
		SubcategoryID:     f.SubcategoryID,
		Difficulty:        f.Difficulty,
		DidYouKnow:        f.DidYouKnow,
		ImageIsHint:       f.ImageIsHint,
		Upload:            upload,
		SearchedImagePath: f.SearchedImagePath,
		RemoveImage:       f.RemoveImage,
	}
}

// parseQuestionForm parses a multipart question submission and reads the
// optional image file. The returned upload is nil when no file was chosen.
func parseQuestionForm(w http.ResponseWriter, r *http.Request) (questionForm, *content.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormMemory+1<<20)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return questionForm{}, nil, errImageTooLarge
		}
		return questionForm{}, nil, fmt.Errorf("parse form: %w", err)
	}
	form := questionFormFrom(r)

	upload, err := readUpload(r, "image")
	return form, upload, err
}

// readUpload returns the bytes of the named file field, or nil if the
// field is empty.
func readUpload(r *http.Request, field string) (*content.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()

	if header.Size == 0 {
		return nil, nil
	}
	if header.Size > content.MaxImageSize {
		return nil, errImageTooLarge
	}
	data, err := readLimited(file, content.MaxImageSize)
	if err != nil {
		return nil, err
	}
	return &content.Upload{Filename: header.Filename, Data: data}, nil
}

func readLimited(file multipart.File, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, errImageTooLarge
	}
	return data, nil
}

// formInt64 parses a numeric form field. Empty or malformed values are 0.
func formInt64(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(name)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeJSON reads a size-limited JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// targetLang resolves the language of a translation request. An empty
// value selects the first language content can be translated into.
func targetLang(raw string) i18n.Lang {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		if langs := i18n.Translations(); len(langs) > 0 {
			return langs[0]
		}
	}
	return i18n.Lang(raw)
}

// validateTopic checks the optional free-text generation topic.
func validateTopic(topic string) string {
	if utf8.RuneCountInString(topic) > maxTopicLen {
		return fmt.Sprintf("Topic is too long (max %d characters).", maxTopicLen)
	}
	return ""
}

// validateQuery checks an image search query.
func validateQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "Search query is required"
	}
	if utf8.RuneCountInString(query) > maxQueryLen {
		return fmt.Sprintf("Search query is too long (max %d characters).", maxQueryLen)
	}
	return ""
}
