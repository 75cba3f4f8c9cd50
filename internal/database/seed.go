// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin holds the credentials of the admin account created on first start.
type SeedAdmin struct {
	Email    string
	Password string
}

type seedQuestion struct {
	category   string
	text       string
	answer     string
	difficulty string
	didYouKnow string
}

var seedCategories = []struct{ name, slug string }{
	{"Geography", "geography"},
	{"History", "history"},
	{"Television", "television"},
	{"Science", "science"},
	{"Sports", "sports"},
}

var seedQuestions = []seedQuestion{
	{"geography", "What is the highest mountain in the world?", "Mount Everest", "easy",
		"Mount Everest stands at 8,848.86 meters above sea level and grows a few millimeters every year due to tectonic movement."},
	{"geography", "What is the longest river in the world?", "The Nile", "intermediate",
		"The Nile stretches approximately 6,650 km through 11 countries."},
	{"geography", "What is the smallest country in the world?", "Vatican City", "intermediate",
		"Vatican City covers just 0.44 square kilometers and has its own postal service."},
	{"history", "In which year did the Berlin Wall fall?", "1989", "easy",
		"The wall fell on 9 November 1989 after a miscommunicated press announcement."},
	{"history", "Who was the first emperor of Rome?", "Augustus", "intermediate",
		"Augustus was born Gaius Octavius and ruled for over 40 years."},
	{"television", "Which series features the fictional town of Hawkins, Indiana?", "Stranger Things", "easy",
		"Hawkins was inspired by Montauk, New York, the working title of the show."},
	{"science", "What is the chemical symbol for gold?", "Au", "easy",
		"The symbol comes from the Latin word aurum."},
	{"science", "Which planet is known as the Red Planet?", "Mars", "easy",
		"Mars gets its color from iron oxide dust on its surface."},
	{"sports", "How many players are on the field for one football team?", "11", "easy",
		"The rule of eleven players per side was fixed in the 19th century."},
}

// Seed populates the database with initial data. It creates the admin user
// if no users exist and a handful of sample categories and questions if the
// catalogue is empty. Both steps are no-ops on a populated database.
func Seed(db *sql.DB, admin SeedAdmin) error {
	if err := seedAdmin(db, admin); err != nil {
		return err
	}
	return seedTrivia(db)
}

func seedAdmin(db *sql.DB, admin SeedAdmin) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// 2FA is not enabled; the admin must set it up on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, admin.Email, string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with admin user", "email", admin.Email)
	return nil
}

func seedTrivia(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	ids := make(map[string]int64, len(seedCategories))
	for _, c := range seedCategories {
		var id int64
		if err := tx.QueryRow(
			`INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`, c.name, c.slug,
		).Scan(&id); err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
		ids[c.slug] = id
	}

	for _, q := range seedQuestions {
		if _, err := tx.Exec(`
			INSERT INTO questions (question_text, answer, category_id, difficulty, did_you_know)
			VALUES ($1, $2, $3, $4, $5)
		`, q.text, q.answer, ids[q.category], q.difficulty, q.didYouKnow); err != nil {
			return fmt.Errorf("seed insert question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with sample trivia",
		"categories", len(seedCategories),
		"questions", len(seedQuestions),
	)
	return nil
}
