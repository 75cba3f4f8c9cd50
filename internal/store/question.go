// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"gameoftrivia/internal/models"
)

// QuestionStore manages trivia questions in the database.
type QuestionStore struct {
	db *sql.DB
}

// NewQuestionStore returns a new QuestionStore.
func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// QuestionFilter narrows a question listing. Zero values mean "any".
type QuestionFilter struct {
	CategoryID    int64
	SubcategoryID int64
	// Unassigned restricts the listing to questions without a subcategory.
	Unassigned bool
	Difficulty models.Difficulty
	// Search matches question text or answer, case-insensitively.
	Search string
	Limit  uint64
	Offset uint64
}

var questionSelectColumns = []string{
	"q.id", "q.question_text", "q.answer", "q.category_id", "q.subcategory_id",
	"q.difficulty", "q.did_you_know", "q.image_path", "q.image_is_hint",
	"q.created_at", "q.updated_at", "c.name", "sc.name",
}

func scanQuestion(scanner rowScanner) (*models.Question, error) {
	var q models.Question
	if err := scanner.Scan(
		&q.ID, &q.QuestionText, &q.Answer, &q.CategoryID, &q.SubcategoryID,
		&q.Difficulty, &q.DidYouKnow, &q.ImagePath, &q.ImageIsHint,
		&q.CreatedAt, &q.UpdatedAt, &q.CategoryName, &q.SubcategoryName,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

func baseQuestionQuery() sq.SelectBuilder {
	return psql.Select(questionSelectColumns...).
		From("questions q").
		Join("categories c ON c.id = q.category_id").
		LeftJoin("subcategories sc ON sc.id = q.subcategory_id")
}

func applyQuestionFilter(b sq.SelectBuilder, f QuestionFilter) sq.SelectBuilder {
	if f.CategoryID > 0 {
		b = b.Where(sq.Eq{"q.category_id": f.CategoryID})
	}
	if f.SubcategoryID > 0 {
		b = b.Where(sq.Eq{"q.subcategory_id": f.SubcategoryID})
	}
	if f.Unassigned {
		b = b.Where(sq.Eq{"q.subcategory_id": nil})
	}
	if f.Difficulty != "" {
		b = b.Where(sq.Eq{"q.difficulty": f.Difficulty})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + s + "%"
		b = b.Where(sq.Or{
			sq.ILike{"q.question_text": pattern},
			sq.ILike{"q.answer": pattern},
		})
	}
	return b
}

// List returns questions matching the filter ordered by ID, with the owning
// category and subcategory names joined in.
func (s *QuestionStore) List(ctx context.Context, f QuestionFilter) ([]models.Question, error) {
	b := applyQuestionFilter(baseQuestionQuery(), f).OrderBy("q.id")
	if f.Limit > 0 {
		b = b.Limit(f.Limit).Offset(f.Offset)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build question list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var items []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		items = append(items, *q)
	}
	return items, rows.Err()
}

// Count returns the number of questions matching the filter, ignoring
// Limit and Offset.
func (s *QuestionStore) Count(ctx context.Context, f QuestionFilter) (int, error) {
	b := applyQuestionFilter(psql.Select("COUNT(*)").From("questions q"), f)
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build question count: %w", err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// FindByID retrieves a question by ID. Returns nil if not found.
func (s *QuestionStore) FindByID(ctx context.Context, id int64) (*models.Question, error) {
	query, args, err := baseQuestionQuery().Where(sq.Eq{"q.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build question lookup: %w", err)
	}

	q, err := scanQuestion(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question by id: %w", err)
	}
	return q, nil
}

// Create inserts a question and fills in its ID and timestamps.
func (s *QuestionStore) Create(ctx context.Context, q *models.Question) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO questions (question_text, answer, category_id, subcategory_id,
		                       difficulty, did_you_know, image_path, image_is_hint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, q.QuestionText, q.Answer, q.CategoryID, q.SubcategoryID,
		q.Difficulty, q.DidYouKnow, q.ImagePath, q.ImageIsHint,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return mapError("create question", err)
	}
	return nil
}

// Update replaces every editable field of a question and bumps updated_at.
func (s *QuestionStore) Update(ctx context.Context, q *models.Question) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE questions
		SET question_text = $1, answer = $2, category_id = $3, subcategory_id = $4,
		    difficulty = $5, did_you_know = $6, image_path = $7, image_is_hint = $8,
		    updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`, q.QuestionText, q.Answer, q.CategoryID, q.SubcategoryID,
		q.Difficulty, q.DidYouKnow, q.ImagePath, q.ImageIsHint, q.ID,
	).Scan(&q.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update question: %w", ErrNotFound)
	}
	if err != nil {
		return mapError("update question", err)
	}
	return nil
}

// Delete removes a question. Its translation rows cascade.
func (s *QuestionStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return mapError("delete question", err)
	}
	n, _ := res.RowsAffected()
	return expectOne("delete question", n)
}

// AssignSubcategory sets the subcategory of a question only if it is still
// unassigned. It reports whether the row was updated.
func (s *QuestionStore) AssignSubcategory(ctx context.Context, questionID, subcategoryID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE questions SET subcategory_id = $1, updated_at = NOW()
		WHERE id = $2 AND subcategory_id IS NULL
	`, subcategoryID, questionID)
	if err != nil {
		return false, mapError("assign subcategory", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
