// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package i18n

import "gameoftrivia/internal/models"

// The resolvers below never modify their inputs: they work on copies and
// fall back field by field, so a translation that only carries an answer
// still shows the base question text.

func pick(translated *string, base string) string {
	if translated != nil {
		return *translated
	}
	return base
}

func pickOptional(translated, base *string) *string {
	if translated != nil {
		return translated
	}
	return base
}

// ResolveCategory returns c as seen in lang.
func ResolveCategory(lang Lang, c models.Category, t *models.CategoryTranslation) models.Category {
	if lang.IsBase() || t == nil {
		return c
	}
	c.Name = pick(t.Name, c.Name)
	return c
}

// ResolveSubcategory returns sc as seen in lang.
func ResolveSubcategory(lang Lang, sc models.Subcategory, t *models.SubcategoryTranslation) models.Subcategory {
	if lang.IsBase() || t == nil {
		return sc
	}
	sc.Name = pick(t.Name, sc.Name)
	return sc
}

// ResolveQuestion returns q as seen in lang.
func ResolveQuestion(lang Lang, q models.Question, t *models.QuestionTranslation) models.Question {
	if lang.IsBase() || t == nil {
		return q
	}
	q.QuestionText = pick(t.QuestionText, q.QuestionText)
	q.Answer = pick(t.Answer, q.Answer)
	q.DidYouKnow = pickOptional(t.DidYouKnow, q.DidYouKnow)
	return q
}

// ResolveCategories resolves a listing against translations keyed by category ID.
func ResolveCategories(lang Lang, cats []models.Category, ts map[int64]models.CategoryTranslation) []models.Category {
	out := make([]models.Category, len(cats))
	for i, c := range cats {
		out[i] = ResolveCategory(lang, c, lookup(ts, c.ID))
	}
	return out
}

// ResolveSubcategories resolves a listing against translations keyed by subcategory ID.
func ResolveSubcategories(lang Lang, subs []models.Subcategory, ts map[int64]models.SubcategoryTranslation) []models.Subcategory {
	out := make([]models.Subcategory, len(subs))
	for i, sc := range subs {
		out[i] = ResolveSubcategory(lang, sc, lookup(ts, sc.ID))
	}
	return out
}

// ResolveQuestions resolves a listing against translations keyed by question
// ID. Joined subcategory names are replaced using names when present.
func ResolveQuestions(lang Lang, qs []models.Question, ts map[int64]models.QuestionTranslation, names map[int64]string) []models.Question {
	out := make([]models.Question, len(qs))
	for i, q := range qs {
		r := ResolveQuestion(lang, q, lookup(ts, q.ID))
		if r.SubcategoryID != nil {
			if name, ok := names[*r.SubcategoryID]; ok {
				r.SubcategoryName = &name
			}
		}
		out[i] = r
	}
	return out
}

// SubcategoryNames builds the subcategory ID → resolved name table used to
// label questions in a listing.
func SubcategoryNames(lang Lang, subs []models.Subcategory, ts map[int64]models.SubcategoryTranslation) map[int64]string {
	names := make(map[int64]string, len(subs))
	for _, sc := range subs {
		names[sc.ID] = ResolveSubcategory(lang, sc, lookup(ts, sc.ID)).Name
	}
	return names
}

func lookup[T any](m map[int64]T, id int64) *T {
	if v, ok := m[id]; ok {
		return &v
	}
	return nil
}
