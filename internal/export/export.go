// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export writes the question bank as a CSV spreadsheet.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"gameoftrivia/internal/models"
)

// ContentType is the media type of the export.
const ContentType = "text/csv; charset=utf-8"

// Header is the first row of every export.
var Header = []string{
	"ID", "Question", "Answer", "Category", "Subcategory", "Difficulty",
	"Did You Know", "Image Path", "Created At", "Updated At",
}

// Filename returns the attachment name for an export taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("gameoftrivia-questions-%s.csv", t.Format("2006-01-02"))
}

// WriteCSV writes the header and one row per question, in the order given.
// Fields containing a comma, quote or newline are quoted with embedded
// quotes doubled. Missing optional values are written as empty fields.
func WriteCSV(w io.Writer, questions []models.Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range questions {
		if err := cw.Write(record(&questions[i])); err != nil {
			return fmt.Errorf("write csv row %d: %w", questions[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(q *models.Question) []string {
	return []string{
		strconv.FormatInt(q.ID, 10),
		q.QuestionText,
		q.Answer,
		q.CategoryName,
		deref(q.SubcategoryName),
		string(q.Difficulty),
		deref(q.DidYouKnow),
		deref(q.ImagePath),
		timestamp(q.CreatedAt),
		timestamp(q.UpdatedAt),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
