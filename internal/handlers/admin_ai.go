// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gameoftrivia/internal/assist"
	"gameoftrivia/internal/cache"
	"gameoftrivia/internal/content"
	"gameoftrivia/internal/render"
)

// GeneratePage renders the AI question generator.
func (a *Admin) GeneratePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cats, err := a.categories.List(ctx)
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	subs, err := a.subcategories.List(ctx)
	if err != nil {
		slog.Error("list subcategories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.page(w, r, http.StatusOK, "generate", &render.PageData{
		Title:   "Generate questions",
		Section: "generate",
		Data: map[string]any{
			"Categories":     cats,
			"Subcategories":  subs,
			"Default":        assist.DefaultGenerate,
			"Max":            assist.MaxGenerate,
			"AIReady":        a.aiReady(),
			"ActiveProvider": a.activeProvider(),
		},
	})
}

// generateRequest is the body of a generation call.
type generateRequest struct {
	CategoryID int64  `json:"categoryId"`
	Count      int    `json:"count"`
	Topic      string `json:"topic"`
}

// AIGenerateQuestions asks the active provider for new question
// candidates in a category. Nothing is saved.
func (a *Admin) AIGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if msg := validateTopic(req.Topic); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	category, candidates, err := a.content.GenerateQuestions(r.Context(), req.CategoryID, assist.ClampCount(req.Count), req.Topic)
	if err != nil {
		writeContentError(w, err, "Failed to generate questions.")
		return
	}

	slog.Info("questions generated", "category", category.Name, "count", len(candidates), "provider", a.activeProvider())
	writeJSON(w, http.StatusOK, map[string]any{
		"category":  apiCategory{ID: category.ID, Name: category.Name},
		"questions": candidates,
	})
}

// savedCandidate is one generated question the admin chose to keep.
type savedCandidate struct {
	QuestionText  string `json:"questionText"`
	Answer        string `json:"answer"`
	Difficulty    string `json:"difficulty"`
	DidYouKnow    string `json:"didYouKnow"`
	SubcategoryID int64  `json:"subcategoryId"`
}

// saveGeneratedRequest is the body of a save-generated call.
type saveGeneratedRequest struct {
	CategoryID int64            `json:"categoryId"`
	Questions  []savedCandidate `json:"questions"`
}

// saveFailure reports one candidate that could not be saved.
type saveFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// AISaveGenerated stores the selected candidates. Each candidate is
// validated and saved on its own; failures are reported per index.
func (a *Admin) AISaveGenerated(w http.ResponseWriter, r *http.Request) {
	var req saveGeneratedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.CategoryID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Category is required"})
		return
	}
	if len(req.Questions) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No questions to save"})
		return
	}
	if len(req.Questions) > maxSaveBatch {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Too many questions (max %d)", maxSaveBatch)})
		return
	}

	saved := make([]int64, 0, len(req.Questions))
	failures := []saveFailure{}
	for i, c := range req.Questions {
		q, err := a.content.CreateGeneratedQuestion(r.Context(), content.GeneratedInput{
			QuestionText:  c.QuestionText,
			Answer:        c.Answer,
			CategoryID:    req.CategoryID,
			SubcategoryID: c.SubcategoryID,
			Difficulty:    c.Difficulty,
			DidYouKnow:    c.DidYouKnow,
		})
		if err != nil {
			if content.KindOf(err) == 0 {
				slog.Error("save generated question failed", "error", err)
			}
			failures = append(failures, saveFailure{Index: i, Error: content.Message(err, "Failed to save question")})
			continue
		}
		saved = append(saved, q.ID)
	}

	msg := fmt.Sprintf("Saved %d question(s).", len(saved))
	if len(failures) > 0 {
		msg += fmt.Sprintf(" %d could not be saved: %s", len(failures), failures[0].Error)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"saved":   len(saved),
		"ids":     saved,
		"failed":  len(failures),
		"errors":  failures,
		"message": msg,
	})
}

// translateRequest is the body of a single-question translation.
type translateRequest struct {
	QuestionID int64  `json:"questionId"`
	Language   string `json:"language"`
}

// AITranslate machine-translates one question, overwriting any existing
// translation in that language.
func (a *Admin) AITranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.QuestionID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "questionId is required"})
		return
	}

	t, err := a.content.TranslateQuestion(r.Context(), req.QuestionID, targetLang(req.Language))
	if err != nil {
		writeContentError(w, err, "Translation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "translated": t})
}

// bulkWriteTimeout replaces the server's WriteTimeout for bulk AI runs.
// It equals the Valkey lock TTL: a run still writing after that point may
// already overlap a second one.
const bulkWriteTimeout = cache.DefaultLockTTL

// extendWriteDeadline lets a bulk run answer after the server-wide write
// timeout has passed.
func extendWriteDeadline(w http.ResponseWriter) {
	err := http.NewResponseController(w).SetWriteDeadline(time.Now().Add(bulkWriteTimeout))
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.Warn("extend write deadline failed", "error", err)
	}
}

// bulkRequest is the body of a bulk translation call.
type bulkRequest struct {
	Language string `json:"language"`
}

// AITranslateAll translates every question that has no translation in the
// target language yet.
func (a *Admin) AITranslateAll(w http.ResponseWriter, r *http.Request) {
	extendWriteDeadline(w)

	var req bulkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	sum, err := a.content.TranslateAllQuestions(r.Context(), targetLang(req.Language))
	if err != nil {
		writeContentError(w, err, "Translation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"translated": sum.Translated,
		"failed":     sum.Failed,
		"skipped":    sum.Skipped,
		"message":    sum.Message,
	})
}

// AITranslateCategories translates category and subcategory names that
// have no translation in the target language yet.
func (a *Admin) AITranslateCategories(w http.ResponseWriter, r *http.Request) {
	extendWriteDeadline(w)

	var req bulkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	sum, err := a.content.TranslateTaxonomy(r.Context(), targetLang(req.Language))
	if err != nil {
		writeContentError(w, err, "Translation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"translated": sum.Translated,
		"failed":     sum.Failed,
		"skipped":    sum.Skipped,
		"message":    sum.Message,
	})
}

// AIAutoSubcategories classifies questions without a subcategory into
// the subcategories of their category.
func (a *Admin) AIAutoSubcategories(w http.ResponseWriter, r *http.Request) {
	extendWriteDeadline(w)

	sum, err := a.content.AutoAssignSubcategories(r.Context())
	if err != nil {
		writeContentError(w, err, "Classification failed")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// AISetProvider switches the active AI provider at runtime.
func (a *Admin) AISetProvider(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("provider"))
	if name == "" {
		a.flash(r, "error", "No provider specified.")
		http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
		return
	}

	if a.aiRegistry == nil {
		a.flash(r, "error", "AI is not configured.")
		http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
		return
	}

	if err := a.aiRegistry.SetActive(name); err != nil {
		slog.Warn("failed to switch AI provider", "provider", name, "error", err)
		a.flash(r, "error", fmt.Sprintf("Cannot switch to %q: provider not available (no API key configured).", name))
		http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
		return
	}

	a.refreshAIConfig(name)
	slog.Info("ai provider switched", "provider", name)

	a.flash(r, "success", fmt.Sprintf("AI provider switched to %s.", name))
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}

// refreshAIConfig updates the cached AIConfig after a provider switch.
func (a *Admin) refreshAIConfig(activeName string) {
	a.aiConfig.ActiveProvider = activeName
	for i := range a.aiConfig.Providers {
		a.aiConfig.Providers[i].Active = a.aiConfig.Providers[i].Name == activeName
	}
}

// aiReady reports whether any AI provider has an API key.
func (a *Admin) aiReady() bool {
	return a.aiRegistry != nil && len(a.aiRegistry.Available()) > 0
}

func (a *Admin) activeProvider() string {
	if a.aiRegistry == nil {
		return "none"
	}
	return a.aiRegistry.ActiveName()
}
