// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"gameoftrivia/internal/models"
)

// TranslationStore manages the per-language overlay rows of categories,
// subcategories and questions. Each owner has at most one row per language;
// writes are upserts on (owner_id, language).
type TranslationStore struct {
	db *sql.DB
}

// NewTranslationStore returns a new TranslationStore.
func NewTranslationStore(db *sql.DB) *TranslationStore {
	return &TranslationStore{db: db}
}

// UpsertQuestion creates or overwrites the translation of a question.
func (s *TranslationStore) UpsertQuestion(ctx context.Context, t *models.QuestionTranslation) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO question_translations
		       (question_id, language, question_text, answer, did_you_know, is_auto_translated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (question_id, language) DO UPDATE
		SET question_text = EXCLUDED.question_text,
		    answer = EXCLUDED.answer,
		    did_you_know = EXCLUDED.did_you_know,
		    is_auto_translated = EXCLUDED.is_auto_translated,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, t.QuestionID, t.Language, t.QuestionText, t.Answer, t.DidYouKnow, t.IsAutoTranslated,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapError("upsert question translation", err)
	}
	return nil
}

// UpsertCategory creates or overwrites the translated name of a category.
func (s *TranslationStore) UpsertCategory(ctx context.Context, t *models.CategoryTranslation) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO category_translations (category_id, language, name, is_auto_translated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category_id, language) DO UPDATE
		SET name = EXCLUDED.name,
		    is_auto_translated = EXCLUDED.is_auto_translated,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, t.CategoryID, t.Language, t.Name, t.IsAutoTranslated,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapError("upsert category translation", err)
	}
	return nil
}

// UpsertSubcategory creates or overwrites the translated name of a subcategory.
func (s *TranslationStore) UpsertSubcategory(ctx context.Context, t *models.SubcategoryTranslation) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO subcategory_translations (subcategory_id, language, name, is_auto_translated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subcategory_id, language) DO UPDATE
		SET name = EXCLUDED.name,
		    is_auto_translated = EXCLUDED.is_auto_translated,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, t.SubcategoryID, t.Language, t.Name, t.IsAutoTranslated,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapError("upsert subcategory translation", err)
	}
	return nil
}

// FindQuestion returns the translation of one question, or nil if none exists.
func (s *TranslationStore) FindQuestion(ctx context.Context, questionID int64, lang string) (*models.QuestionTranslation, error) {
	var t models.QuestionTranslation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question_id, language, question_text, answer, did_you_know,
		       is_auto_translated, created_at, updated_at
		FROM question_translations
		WHERE question_id = $1 AND language = $2
	`, questionID, lang).Scan(
		&t.ID, &t.QuestionID, &t.Language, &t.QuestionText, &t.Answer, &t.DidYouKnow,
		&t.IsAutoTranslated, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question translation: %w", err)
	}
	return &t, nil
}

// Questions returns the translations in lang keyed by question ID. When ids
// is empty every translation in that language is returned.
func (s *TranslationStore) Questions(ctx context.Context, lang string, ids []int64) (map[int64]models.QuestionTranslation, error) {
	b := psql.Select(
		"id", "question_id", "language", "question_text", "answer", "did_you_know",
		"is_auto_translated", "created_at", "updated_at",
	).From("question_translations").Where(sq.Eq{"language": lang})
	if len(ids) > 0 {
		b = b.Where(sq.Eq{"question_id": ids})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build question translations: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list question translations: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]models.QuestionTranslation)
	for rows.Next() {
		var t models.QuestionTranslation
		if err := rows.Scan(
			&t.ID, &t.QuestionID, &t.Language, &t.QuestionText, &t.Answer, &t.DidYouKnow,
			&t.IsAutoTranslated, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan question translation: %w", err)
		}
		out[t.QuestionID] = t
	}
	return out, rows.Err()
}

// Categories returns every category translation in lang keyed by category ID.
func (s *TranslationStore) Categories(ctx context.Context, lang string) (map[int64]models.CategoryTranslation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, language, name, is_auto_translated, created_at, updated_at
		FROM category_translations WHERE language = $1
	`, lang)
	if err != nil {
		return nil, fmt.Errorf("list category translations: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]models.CategoryTranslation)
	for rows.Next() {
		var t models.CategoryTranslation
		if err := rows.Scan(
			&t.ID, &t.CategoryID, &t.Language, &t.Name, &t.IsAutoTranslated, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category translation: %w", err)
		}
		out[t.CategoryID] = t
	}
	return out, rows.Err()
}

// Subcategories returns every subcategory translation in lang keyed by
// subcategory ID.
func (s *TranslationStore) Subcategories(ctx context.Context, lang string) (map[int64]models.SubcategoryTranslation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subcategory_id, language, name, is_auto_translated, created_at, updated_at
		FROM subcategory_translations WHERE language = $1
	`, lang)
	if err != nil {
		return nil, fmt.Errorf("list subcategory translations: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]models.SubcategoryTranslation)
	for rows.Next() {
		var t models.SubcategoryTranslation
		if err := rows.Scan(
			&t.ID, &t.SubcategoryID, &t.Language, &t.Name, &t.IsAutoTranslated, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subcategory translation: %w", err)
		}
		out[t.SubcategoryID] = t
	}
	return out, rows.Err()
}

// Count returns how many question translations exist in lang.
func (s *TranslationStore) Count(ctx context.Context, lang string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM question_translations WHERE language = $1`, lang,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count question translations: %w", err)
	}
	return n, nil
}
