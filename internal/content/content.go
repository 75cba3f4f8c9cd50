// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content applies admin mutations to the trivia catalogue. It
// validates input, keeps image files in step with the rows that reference
// them, invalidates the public page cache and runs the AI-assisted bulk
// operations (translation and subcategory classification).
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"gameoftrivia/internal/assist"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/metrics"
	"gameoftrivia/internal/models"
	"gameoftrivia/internal/slug"
	"gameoftrivia/internal/storage"
	"gameoftrivia/internal/store"
)

const (
	minNameLen = 2
	maxNameLen = 50
)

// Assistant is the AI gateway used by generation and bulk operations.
// *assist.Gateway implements it.
type Assistant interface {
	GenerateQuestions(ctx context.Context, req assist.GenerateRequest) ([]assist.GeneratedQuestion, error)
	ClassifySubcategories(ctx context.Context, questions []assist.ClassifyInput, categoryName string, subcategoryNames []string) ([]assist.Classification, error)
	TranslateQuestion(ctx context.Context, fields assist.QuestionFields, lang i18n.Lang) (*assist.QuestionFields, error)
	TranslateText(ctx context.Context, value string, lang i18n.Lang) (string, error)
}

// Locker grants exclusive named locks. *cache.Locker implements it.
type Locker interface {
	Acquire(ctx context.Context, name string) (release func(), ok bool, err error)
}

// PageInvalidator drops cached public pages. *cache.PageCache implements it.
type PageInvalidator interface {
	InvalidateAll(ctx context.Context)
}

// Deps are the collaborators of a Service. Assistant, Locker, Pages and
// Metrics may be nil.
type Deps struct {
	Categories    *store.CategoryStore
	Subcategories *store.SubcategoryStore
	Questions     *store.QuestionStore
	Translations  *store.TranslationStore
	Files         storage.Backend
	Assistant     Assistant
	Locker        Locker
	Pages         PageInvalidator
	Metrics       *metrics.Metrics
}

// Service applies validated mutations to the catalogue.
type Service struct {
	categories    *store.CategoryStore
	subcategories *store.SubcategoryStore
	questions     *store.QuestionStore
	translations  *store.TranslationStore
	files         storage.Backend
	assistant     Assistant
	locker        Locker
	pages         PageInvalidator
	metrics       *metrics.Metrics
}

// NewService creates a Service from its dependencies.
func NewService(d Deps) *Service {
	return &Service{
		categories:    d.Categories,
		subcategories: d.Subcategories,
		questions:     d.Questions,
		translations:  d.Translations,
		files:         d.Files,
		assistant:     d.Assistant,
		locker:        d.Locker,
		pages:         d.Pages,
		metrics:       d.Metrics,
	}
}

// --- Categories ---

// CreateCategory validates name and inserts a category with a derived slug.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name, sl, err := validateName(name)
	if err != nil {
		return nil, err
	}

	c, err := s.categories.Create(ctx, name, sl)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, conflictError("A category with this name already exists.", err)
	}
	if err != nil {
		return nil, err
	}

	s.changed(ctx, "category", "create")
	return c, nil
}

// UpdateCategory renames a category and recomputes its slug.
func (s *Service) UpdateCategory(ctx context.Context, id int64, name string) error {
	name, sl, err := validateName(name)
	if err != nil {
		return err
	}

	err = s.categories.Update(ctx, id, name, sl)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return conflictError("A category with this name already exists.", err)
	case errors.Is(err, store.ErrNotFound):
		return notFoundError("Category not found.")
	case err != nil:
		return err
	}

	s.changed(ctx, "category", "update")
	return nil
}

// DeleteCategory removes the image files of every question under the
// category, directly or through its subcategories, and then the category
// row. Subcategories, questions and translations go with it by cascade.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return notFoundError("Category not found.")
	}

	paths, err := s.categories.ImagePaths(ctx, id)
	if err != nil {
		return err
	}
	for _, p := range paths {
		s.removeImage(ctx, p)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundError("Category not found.")
		}
		return err
	}

	slog.Info("category deleted", "id", id, "name", c.Name, "images", len(paths))
	s.changed(ctx, "category", "delete")
	return nil
}

// --- Subcategories ---

// CreateSubcategory validates name and inserts a subcategory under
// categoryID. Names are unique within one category.
func (s *Service) CreateSubcategory(ctx context.Context, categoryID int64, name string) (*models.Subcategory, error) {
	name, sl, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if categoryID <= 0 {
		return nil, validationError("Category is required")
	}

	sc, err := s.subcategories.Create(ctx, categoryID, name, sl)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return nil, conflictError("A subcategory with this name already exists in this category.", err)
	case errors.Is(err, store.ErrForeignKey):
		return nil, notFoundError("Category not found.")
	case err != nil:
		return nil, err
	}

	s.changed(ctx, "subcategory", "create")
	return sc, nil
}

// UpdateSubcategory renames a subcategory and recomputes its slug.
func (s *Service) UpdateSubcategory(ctx context.Context, id int64, name string) error {
	name, sl, err := validateName(name)
	if err != nil {
		return err
	}

	err = s.subcategories.Update(ctx, id, name, sl)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return conflictError("A subcategory with this name already exists in this category.", err)
	case errors.Is(err, store.ErrNotFound):
		return notFoundError("Subcategory not found.")
	case err != nil:
		return err
	}

	s.changed(ctx, "subcategory", "update")
	return nil
}

// DeleteSubcategory removes a subcategory. Its questions stay, unassigned.
func (s *Service) DeleteSubcategory(ctx context.Context, id int64) error {
	err := s.subcategories.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return notFoundError("Subcategory not found.")
	}
	if err != nil {
		return err
	}

	s.changed(ctx, "subcategory", "delete")
	return nil
}

// --- Helpers ---

// validateName trims a category or subcategory name, checks its length in
// characters and derives the slug.
func validateName(raw string) (name, sl string, err error) {
	name = strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n < minNameLen {
		return "", "", validationError("Name must be at least 2 characters")
	}
	if n > maxNameLen {
		return "", "", validationError("Name must be at most 50 characters")
	}
	sl = slug.Generate(name)
	if sl == "" {
		return "", "", validationError("Name must contain at least one letter or digit")
	}
	return name, sl, nil
}

// removeImage deletes a stored image best-effort.
func (s *Service) removeImage(ctx context.Context, storedPath string) {
	if storedPath == "" || s.files == nil {
		return
	}
	if err := s.files.Delete(ctx, storedPath); err != nil {
		slog.Warn("failed to delete image", "path", storedPath, "error", err)
	}
}

// changed records a successful mutation and drops cached public pages.
func (s *Service) changed(ctx context.Context, entity, action string) {
	s.metrics.IncrementMutation(entity, action)
	if s.pages != nil {
		s.pages.InvalidateAll(ctx)
	}
}

func (s *Service) requireAssistant() error {
	if s.assistant == nil {
		return upstreamError("No AI provider is configured.", fmt.Errorf("assistant not configured"))
	}
	return nil
}
