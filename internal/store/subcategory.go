// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gameoftrivia/internal/models"
)

// SubcategoryStore manages subcategories in the database.
type SubcategoryStore struct {
	db *sql.DB
}

// NewSubcategoryStore returns a new SubcategoryStore.
func NewSubcategoryStore(db *sql.DB) *SubcategoryStore {
	return &SubcategoryStore{db: db}
}

const subcategoryColumns = `id, name, slug, category_id, created_at`

func scanSubcategory(scanner rowScanner) (*models.Subcategory, error) {
	var sc models.Subcategory
	if err := scanner.Scan(&sc.ID, &sc.Name, &sc.Slug, &sc.CategoryID, &sc.CreatedAt); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *SubcategoryStore) list(ctx context.Context, where string, args ...any) ([]models.Subcategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sc.id, sc.name, sc.slug, sc.category_id, sc.created_at,
		       (SELECT COUNT(*) FROM questions q WHERE q.subcategory_id = sc.id)
		FROM subcategories sc
		`+where+`
		ORDER BY sc.category_id, sc.name
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var items []models.Subcategory
	for rows.Next() {
		var sc models.Subcategory
		if err := rows.Scan(
			&sc.ID, &sc.Name, &sc.Slug, &sc.CategoryID, &sc.CreatedAt, &sc.QuestionCount,
		); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}

// List returns every subcategory ordered by category then name.
func (s *SubcategoryStore) List(ctx context.Context) ([]models.Subcategory, error) {
	return s.list(ctx, "")
}

// ListByCategory returns the subcategories of one category ordered by name.
func (s *SubcategoryStore) ListByCategory(ctx context.Context, categoryID int64) ([]models.Subcategory, error) {
	return s.list(ctx, "WHERE sc.category_id = $1", categoryID)
}

// FindByID retrieves a subcategory by ID. Returns nil if not found.
func (s *SubcategoryStore) FindByID(ctx context.Context, id int64) (*models.Subcategory, error) {
	sc, err := scanSubcategory(s.db.QueryRowContext(ctx,
		`SELECT `+subcategoryColumns+` FROM subcategories WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by id: %w", err)
	}
	return sc, nil
}

// Create inserts a subcategory under a category. A name already used in the
// same category yields ErrDuplicate; a missing category yields ErrForeignKey.
func (s *SubcategoryStore) Create(ctx context.Context, categoryID int64, name, slug string) (*models.Subcategory, error) {
	sc, err := scanSubcategory(s.db.QueryRowContext(ctx, `
		INSERT INTO subcategories (name, slug, category_id) VALUES ($1, $2, $3)
		RETURNING `+subcategoryColumns, name, slug, categoryID))
	if err != nil {
		return nil, mapError("create subcategory", err)
	}
	return sc, nil
}

// Update renames a subcategory and replaces its slug.
func (s *SubcategoryStore) Update(ctx context.Context, id int64, name, slug string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE subcategories SET name = $1, slug = $2 WHERE id = $3`, name, slug, id)
	if err != nil {
		return mapError("update subcategory", err)
	}
	n, _ := res.RowsAffected()
	return expectOne("update subcategory", n)
}

// Delete removes a subcategory. Questions that referenced it keep existing
// with subcategory_id cleared by ON DELETE SET NULL.
func (s *SubcategoryStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return mapError("delete subcategory", err)
	}
	n, _ := res.RowsAffected()
	return expectOne("delete subcategory", n)
}
