// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Difficulty is the enumerated difficulty label of a question.
type Difficulty string

const (
	DifficultyEasy         Difficulty = "easy"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyDifficult    Difficulty = "difficult"
)

// Difficulties lists the valid difficulty labels in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyIntermediate, DifficultyDifficult}

// Valid reports whether d is one of the enumerated labels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyIntermediate, DifficultyDifficult:
		return true
	}
	return false
}

// Category is a top-level grouping of quiz questions. Name and slug are
// globally unique.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`

	// Virtual fields populated by store methods.
	QuestionCount    int `json:"question_count"`
	SubcategoryCount int `json:"subcategory_count"`
}

// Subcategory is an optional second-level grouping inside a category. Its
// name is unique within the owning category only.
type Subcategory struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CategoryID int64     `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Virtual field populated by store methods.
	QuestionCount int `json:"question_count"`
}

// Question is a single trivia question owned by exactly one category.
type Question struct {
	ID            int64      `json:"id"`
	QuestionText  string     `json:"question_text"`
	Answer        string     `json:"answer"`
	CategoryID    int64      `json:"category_id"`
	SubcategoryID *int64     `json:"subcategory_id,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	DidYouKnow    *string    `json:"did_you_know,omitempty"`
	ImagePath     *string    `json:"image_path,omitempty"`
	// ImageIsHint marks the image as a clue shown before the answer rather
	// than an illustration revealed with it.
	ImageIsHint bool      `json:"image_is_hint"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by joined listings.
	CategoryName    string  `json:"category_name,omitempty"`
	SubcategoryName *string `json:"subcategory_name,omitempty"`
}

// HasImage returns true if the question references a stored image file.
func (q *Question) HasImage() bool {
	return q.ImagePath != nil && *q.ImagePath != ""
}

// CategoryTranslation overlays a category's display name in one language.
type CategoryTranslation struct {
	ID               int64     `json:"id"`
	CategoryID       int64     `json:"category_id"`
	Language         string    `json:"language"`
	Name             *string   `json:"name,omitempty"`
	IsAutoTranslated bool      `json:"is_auto_translated"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SubcategoryTranslation overlays a subcategory's display name in one language.
type SubcategoryTranslation struct {
	ID               int64     `json:"id"`
	SubcategoryID    int64     `json:"subcategory_id"`
	Language         string    `json:"language"`
	Name             *string   `json:"name,omitempty"`
	IsAutoTranslated bool      `json:"is_auto_translated"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// QuestionTranslation overlays a question's text fields in one language.
// A nil field falls back to the base-language value.
type QuestionTranslation struct {
	ID               int64     `json:"id"`
	QuestionID       int64     `json:"question_id"`
	Language         string    `json:"language"`
	QuestionText     *string   `json:"question_text,omitempty"`
	Answer           *string   `json:"answer,omitempty"`
	DidYouKnow       *string   `json:"did_you_know,omitempty"`
	IsAutoTranslated bool      `json:"is_auto_translated"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
