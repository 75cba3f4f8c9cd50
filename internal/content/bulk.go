// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gameoftrivia/internal/assist"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/metrics"
	"gameoftrivia/internal/models"
	"gameoftrivia/internal/store"
)

// Bulk operation names, used for locks and metrics labels.
const (
	OpTranslateQuestions = "translate-all"
	OpTranslateTaxonomy  = "translate-categories"
	OpAutoSubcategories  = "auto-subcategories"
)

// TranslationSummary tallies a bulk translation run.
type TranslationSummary struct {
	Translated int `json:"translated"`
	Failed     int `json:"failed"`
	// Skipped counts rows that already had a translation.
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

// AssignSummary tallies an automatic subcategory run.
type AssignSummary struct {
	Updated int `json:"updated"`
	// Skipped counts questions whose category has no subcategories.
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

// --- Translation ---

// TranslateQuestion machine-translates one question into lang and stores
// the result, overwriting any existing translation.
func (s *Service) TranslateQuestion(ctx context.Context, id int64, lang i18n.Lang) (*models.QuestionTranslation, error) {
	if err := checkTargetLang(lang); err != nil {
		return nil, err
	}
	if err := s.requireAssistant(); err != nil {
		return nil, err
	}

	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, notFoundError("Question not found")
	}

	t, err := s.translateQuestion(ctx, q, lang)
	if err != nil {
		return nil, err
	}

	s.changed(ctx, "translation", "upsert")
	return t, nil
}

func (s *Service) translateQuestion(ctx context.Context, q *models.Question, lang i18n.Lang) (*models.QuestionTranslation, error) {
	out, err := s.assistant.TranslateQuestion(ctx, assist.QuestionFields{
		QuestionText: q.QuestionText,
		Answer:       q.Answer,
		DidYouKnow:   q.DidYouKnow,
	}, lang)
	if err != nil {
		return nil, upstreamError("Translation failed", err)
	}

	t := &models.QuestionTranslation{
		QuestionID:       q.ID,
		Language:         string(lang),
		QuestionText:     &out.QuestionText,
		Answer:           &out.Answer,
		DidYouKnow:       out.DidYouKnow,
		IsAutoTranslated: true,
	}
	if err := s.translations.UpsertQuestion(ctx, t); err != nil {
		return nil, fmt.Errorf("store question translation: %w", err)
	}
	return t, nil
}

// TranslateAllQuestions translates every question that has no translation
// in lang yet. Each question is committed on its own; failures are counted
// and the run continues.
func (s *Service) TranslateAllQuestions(ctx context.Context, lang i18n.Lang) (*TranslationSummary, error) {
	if err := checkTargetLang(lang); err != nil {
		return nil, err
	}
	if err := s.requireAssistant(); err != nil {
		return nil, err
	}

	release, err := s.exclusive(ctx, OpTranslateQuestions+":"+string(lang))
	if err != nil {
		return nil, err
	}
	defer release()

	all, err := s.questions.List(ctx, store.QuestionFilter{})
	if err != nil {
		return nil, err
	}
	existing, err := s.translations.Questions(ctx, string(lang), nil)
	if err != nil {
		return nil, err
	}

	sum := &TranslationSummary{}
	for i := range all {
		q := &all[i]
		if _, ok := existing[q.ID]; ok {
			sum.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := s.translateQuestion(ctx, q, lang); err != nil {
			slog.Warn("bulk translation failed", "question_id", q.ID, "lang", lang, "error", err)
			sum.Failed++
			continue
		}
		sum.Translated++
	}

	s.finishTranslation(ctx, OpTranslateQuestions, sum)
	sum.Message = fmt.Sprintf("Translated %d question(s). %s%d already had translations.",
		sum.Translated, failedPart(sum.Failed), sum.Skipped)
	return sum, nil
}

// TranslateTaxonomy translates every category and subcategory name that has
// no translation in lang yet.
func (s *Service) TranslateTaxonomy(ctx context.Context, lang i18n.Lang) (*TranslationSummary, error) {
	if err := checkTargetLang(lang); err != nil {
		return nil, err
	}
	if err := s.requireAssistant(); err != nil {
		return nil, err
	}

	release, err := s.exclusive(ctx, OpTranslateTaxonomy+":"+string(lang))
	if err != nil {
		return nil, err
	}
	defer release()

	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.subcategories.List(ctx)
	if err != nil {
		return nil, err
	}
	catDone, err := s.translations.Categories(ctx, string(lang))
	if err != nil {
		return nil, err
	}
	subDone, err := s.translations.Subcategories(ctx, string(lang))
	if err != nil {
		return nil, err
	}

	sum := &TranslationSummary{}
	for _, c := range cats {
		if _, ok := catDone[c.ID]; ok {
			sum.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, err := s.assistant.TranslateText(ctx, c.Name, lang)
		if err == nil {
			err = s.translations.UpsertCategory(ctx, &models.CategoryTranslation{
				CategoryID: c.ID, Language: string(lang), Name: &name, IsAutoTranslated: true,
			})
		}
		if err != nil {
			slog.Warn("category translation failed", "category_id", c.ID, "lang", lang, "error", err)
			sum.Failed++
			continue
		}
		sum.Translated++
	}

	for _, sc := range subs {
		if _, ok := subDone[sc.ID]; ok {
			sum.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, err := s.assistant.TranslateText(ctx, sc.Name, lang)
		if err == nil {
			err = s.translations.UpsertSubcategory(ctx, &models.SubcategoryTranslation{
				SubcategoryID: sc.ID, Language: string(lang), Name: &name, IsAutoTranslated: true,
			})
		}
		if err != nil {
			slog.Warn("subcategory translation failed", "subcategory_id", sc.ID, "lang", lang, "error", err)
			sum.Failed++
			continue
		}
		sum.Translated++
	}

	s.finishTranslation(ctx, OpTranslateTaxonomy, sum)
	sum.Message = fmt.Sprintf("Translated %d item(s). %s%d already had translations.",
		sum.Translated, failedPart(sum.Failed), sum.Skipped)
	return sum, nil
}

func (s *Service) finishTranslation(ctx context.Context, op string, sum *TranslationSummary) {
	s.metrics.AddBulkItems(op, metrics.OutcomeOK, sum.Translated)
	s.metrics.AddBulkItems(op, metrics.OutcomeFailed, sum.Failed)
	s.metrics.AddBulkItems(op, metrics.OutcomeSkipped, sum.Skipped)
	slog.Info("bulk translation finished", "operation", op,
		"translated", sum.Translated, "failed", sum.Failed, "skipped", sum.Skipped)
	if sum.Translated > 0 {
		s.changed(ctx, "translation", op)
	}
}

func failedPart(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d failed. ", n)
}

// --- Subcategory classification ---

// AutoAssignSubcategories asks the AI to place every unassigned question
// into one of its category's subcategories. Questions are sent in batches;
// a failed batch is logged and skipped. A label that matches no subcategory
// name (case-insensitively) leaves the question unassigned, and a question
// assigned by someone else in the meantime is not overwritten.
func (s *Service) AutoAssignSubcategories(ctx context.Context) (*AssignSummary, error) {
	if err := s.requireAssistant(); err != nil {
		return nil, err
	}

	release, err := s.exclusive(ctx, OpAutoSubcategories)
	if err != nil {
		return nil, err
	}
	defer release()

	unassigned, err := s.questions.List(ctx, store.QuestionFilter{Unassigned: true})
	if err != nil {
		return nil, err
	}
	if len(unassigned) == 0 {
		return &AssignSummary{Message: "All questions already have subcategories."}, nil
	}

	var order []int64
	byCategory := make(map[int64][]assist.ClassifyInput)
	names := make(map[int64]string)
	for _, q := range unassigned {
		if _, ok := byCategory[q.CategoryID]; !ok {
			order = append(order, q.CategoryID)
			names[q.CategoryID] = q.CategoryName
		}
		byCategory[q.CategoryID] = append(byCategory[q.CategoryID], assist.ClassifyInput{
			ID: q.ID, QuestionText: q.QuestionText, Answer: q.Answer,
		})
	}

	sum := &AssignSummary{}
	for _, categoryID := range order {
		group := byCategory[categoryID]

		subs, err := s.subcategories.ListByCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if len(subs) == 0 {
			sum.Skipped += len(group)
			continue
		}

		lookup := make(map[string]int64, len(subs))
		subNames := make([]string, len(subs))
		for i, sc := range subs {
			lookup[strings.ToLower(sc.Name)] = sc.ID
			subNames[i] = sc.Name
		}

		for start := 0; start < len(group); start += assist.ClassifyBatchSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			end := min(start+assist.ClassifyBatchSize, len(group))
			batch := group[start:end]

			results, err := s.assistant.ClassifySubcategories(ctx, batch, names[categoryID], subNames)
			if err != nil {
				slog.Error("failed to classify batch", "category", names[categoryID], "size", len(batch), "error", err)
				s.metrics.AddBulkItems(OpAutoSubcategories, metrics.OutcomeFailed, len(batch))
				continue
			}

			for _, res := range results {
				subID, ok := lookup[strings.ToLower(strings.TrimSpace(res.Subcategory))]
				if !ok {
					slog.Debug("unmatched subcategory label", "question_id", res.ID, "label", res.Subcategory)
					s.metrics.IncrementBulkItem(OpAutoSubcategories, metrics.OutcomeSkipped)
					continue
				}
				updated, err := s.questions.AssignSubcategory(ctx, res.ID, subID)
				if err != nil {
					slog.Warn("failed to assign subcategory", "question_id", res.ID, "error", err)
					s.metrics.IncrementBulkItem(OpAutoSubcategories, metrics.OutcomeFailed)
					continue
				}
				if updated {
					sum.Updated++
				}
			}
		}
	}

	s.metrics.AddBulkItems(OpAutoSubcategories, metrics.OutcomeOK, sum.Updated)
	if sum.Updated > 0 {
		s.changed(ctx, "question", OpAutoSubcategories)
	}

	sum.Message = fmt.Sprintf("Updated %d %s.", sum.Updated, plural(sum.Updated, "question", "questions"))
	if sum.Skipped > 0 {
		sum.Message += fmt.Sprintf(" %d skipped (no subcategories defined for their category).", sum.Skipped)
	}
	slog.Info("auto subcategories finished", "updated", sum.Updated, "skipped", sum.Skipped)
	return sum, nil
}

// --- Generation ---

// Candidate is a generated question with its subcategory label resolved.
// SubcategoryID is zero when the label matched no subcategory.
type Candidate struct {
	assist.GeneratedQuestion
	SubcategoryID int64 `json:"subcategoryId,omitempty"`
}

// GenerateQuestions asks the AI for up to count new questions in a
// category. Existing questions of the category are listed in the prompt to
// avoid duplicates. Nothing is saved.
func (s *Service) GenerateQuestions(ctx context.Context, categoryID int64, count int, topic string) (*models.Category, []Candidate, error) {
	if categoryID <= 0 {
		return nil, nil, validationError("Category is required")
	}
	if err := s.requireAssistant(); err != nil {
		return nil, nil, err
	}

	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	if category == nil {
		return nil, nil, notFoundError("Category not found")
	}

	existing, err := s.questions.List(ctx, store.QuestionFilter{CategoryID: categoryID})
	if err != nil {
		return nil, nil, err
	}
	subs, err := s.subcategories.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}

	req := assist.GenerateRequest{
		CategoryName: category.Name,
		Count:        count,
		Topic:        topic,
	}
	for _, q := range existing {
		req.Existing = append(req.Existing, assist.ExistingQuestion{QuestionText: q.QuestionText, Answer: q.Answer})
	}
	lookup := make(map[string]int64, len(subs))
	for _, sc := range subs {
		req.SubcategoryNames = append(req.SubcategoryNames, sc.Name)
		lookup[strings.ToLower(sc.Name)] = sc.ID
	}

	generated, err := s.assistant.GenerateQuestions(ctx, req)
	if err != nil {
		var flagged *assist.FlaggedError
		if errors.As(err, &flagged) {
			return nil, nil, validationError(fmt.Sprintf(
				"Your topic was flagged for: %s. Please reformulate your request and try again.",
				strings.Join(flagged.Categories, ", ")))
		}
		return nil, nil, upstreamError("Failed to generate questions. Check your AI provider configuration.", err)
	}

	out := make([]Candidate, len(generated))
	for i, g := range generated {
		out[i] = Candidate{GeneratedQuestion: g}
		if g.Subcategory == "" {
			continue
		}
		if id, ok := lookup[strings.ToLower(g.Subcategory)]; ok {
			out[i].SubcategoryID = id
		} else {
			slog.Debug("generated question has unknown subcategory", "label", g.Subcategory, "category", category.Name)
		}
	}
	return category, out, nil
}

// --- Helpers ---

// exclusive takes the named bulk-operation lock. When the lock service is
// unreachable the run proceeds unlocked; the (owner, language) uniqueness
// of translations still holds.
func (s *Service) exclusive(ctx context.Context, name string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, ok, err := s.locker.Acquire(ctx, name)
	if err != nil {
		slog.Warn("bulk lock unavailable, running unlocked", "lock", name, "error", err)
		return func() {}, nil
	}
	if !ok {
		return nil, conflictError("This operation is already running. Try again when it has finished.", nil)
	}
	return release, nil
}

func checkTargetLang(lang i18n.Lang) error {
	if !i18n.IsValid(string(lang)) || lang.IsBase() {
		return validationError(fmt.Sprintf("Unsupported translation language %q", lang))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
