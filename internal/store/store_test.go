// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gameoftrivia/internal/database"
	"gameoftrivia/internal/models"
	"gameoftrivia/internal/slug"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "trivia")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "trivia")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

var nameSeq atomic.Int64

// uniqueName returns a category name that will not collide with other
// test runs against the same database.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s %d-%d", prefix, time.Now().UnixNano(), nameSeq.Add(1))
}

// testCategory creates a category removed again when the test finishes.
// Cascades take its subcategories, questions and translations with it.
func testCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()
	name := uniqueName("Store Test")
	c, err := NewCategoryStore(db).Create(context.Background(), name, slug.Generate(name))
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// testQuestion inserts a question under the given category.
func testQuestion(t *testing.T, db *sql.DB, categoryID int64, subcategoryID *int64, image *string) *models.Question {
	t.Helper()
	q := &models.Question{
		QuestionText:  "What is the capital of France?",
		Answer:        "Paris",
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Difficulty:    models.DifficultyEasy,
		ImagePath:     image,
	}
	if err := NewQuestionStore(db).Create(context.Background(), q); err != nil {
		t.Fatalf("create test question: %v", err)
	}
	return q
}

func strPtr(s string) *string { return &s }
