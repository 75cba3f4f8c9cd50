// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gameoftrivia/internal/content"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/models"
	"gameoftrivia/internal/render"
	"gameoftrivia/internal/store"
)

// questionsPageSize is the number of rows on one page of the question list.
const questionsPageSize = 50

// listFilter holds the question list filters as submitted.
type listFilter struct {
	CategoryID int64
	Difficulty string
	Search     string
	Unassigned bool
}

func listFilterFrom(q url.Values) listFilter {
	f := listFilter{
		Difficulty: q.Get("difficulty"),
		Search:     strings.TrimSpace(q.Get("q")),
		Unassigned: q.Get("unassigned") != "",
	}
	f.CategoryID, _ = strconv.ParseInt(q.Get("category"), 10, 64)
	if !models.Difficulty(f.Difficulty).Valid() {
		f.Difficulty = ""
	}
	return f
}

func (f listFilter) store() store.QuestionFilter {
	return store.QuestionFilter{
		CategoryID: f.CategoryID,
		Difficulty: models.Difficulty(f.Difficulty),
		Search:     f.Search,
		Unassigned: f.Unassigned,
	}
}

// pageURL returns the list URL for page n with the current filters.
func (f listFilter) pageURL(n int) string {
	v := url.Values{}
	if f.CategoryID > 0 {
		v.Set("category", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.Difficulty != "" {
		v.Set("difficulty", f.Difficulty)
	}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if f.Unassigned {
		v.Set("unassigned", "1")
	}
	v.Set("page", strconv.Itoa(n))
	return "/admin/questions?" + v.Encode()
}

// QuestionsList renders the filterable question table.
func (a *Admin) QuestionsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := listFilterFrom(r.URL.Query())

	total, err := a.questions.Count(ctx, filter.store())
	if err != nil {
		slog.Error("count questions failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	totalPages := max(1, (total+questionsPageSize-1)/questionsPageSize)
	pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageNum = min(max(pageNum, 1), totalPages)

	sf := filter.store()
	sf.Limit = questionsPageSize
	sf.Offset = uint64((pageNum - 1) * questionsPageSize)
	questions, err := a.questions.List(ctx, sf)
	if err != nil {
		slog.Error("list questions failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	cats, err := a.categories.List(ctx)
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Questions":  questions,
		"Categories": cats,
		"Filter":     filter,
		"Languages":  i18n.Translations(),
		"Total":      total,
		"Page":       pageNum,
		"TotalPages": totalPages,
	}
	if pageNum > 1 {
		data["PrevURL"] = filter.pageURL(pageNum - 1)
	}
	if pageNum < totalPages {
		data["NextURL"] = filter.pageURL(pageNum + 1)
	}

	a.page(w, r, http.StatusOK, "questions_list", &render.PageData{
		Title:   "Questions",
		Section: "questions",
		Data:    data,
	})
}

// QuestionNew renders the empty question editor.
func (a *Admin) QuestionNew(w http.ResponseWriter, r *http.Request) {
	form := questionForm{
		CategoryID: formInt64(r, "category"),
		Difficulty: string(models.DifficultyEasy),
	}
	a.renderQuestionForm(w, r, http.StatusOK, form, true, "")
}

// QuestionCreate handles the new question form, including an uploaded or
// searched image.
func (a *Admin) QuestionCreate(w http.ResponseWriter, r *http.Request) {
	form, upload, err := parseQuestionForm(w, r)
	if err != nil {
		a.renderQuestionForm(w, r, http.StatusBadRequest, form, true, uploadErrorMessage(err))
		return
	}

	q, err := a.content.CreateQuestion(r.Context(), form.input(upload))
	if err != nil {
		a.questionError(w, r, err, form, true)
		return
	}

	a.flash(r, "success", fmt.Sprintf("Question #%d created.", q.ID))
	http.Redirect(w, r, "/admin/questions", http.StatusSeeOther)
}

// QuestionEdit renders the editor for an existing question.
func (a *Admin) QuestionEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	q, err := a.questions.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find question failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if q == nil {
		http.NotFound(w, r)
		return
	}

	a.renderQuestionForm(w, r, http.StatusOK, formFromQuestion(q), false, "")
}

// QuestionUpdate handles the question editor submission.
func (a *Admin) QuestionUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	form, upload, err := parseQuestionForm(w, r)
	form.ID = id
	if err != nil {
		a.renderQuestionForm(w, r, http.StatusBadRequest, a.keepImage(r, form), false, uploadErrorMessage(err))
		return
	}

	if _, err := a.content.UpdateQuestion(r.Context(), id, form.input(upload)); err != nil {
		a.questionError(w, r, err, a.keepImage(r, form), false)
		return
	}

	a.flash(r, "success", fmt.Sprintf("Question #%d saved.", id))
	http.Redirect(w, r, "/admin/questions", http.StatusSeeOther)
}

// QuestionDelete removes a question and its image.
func (a *Admin) QuestionDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := a.content.DeleteQuestion(r.Context(), id); err != nil {
		if content.KindOf(err) == content.KindNotFound {
			http.NotFound(w, r)
			return
		}
		slog.Error("delete question failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.flash(r, "success", fmt.Sprintf("Question #%d deleted.", id))
	http.Redirect(w, r, "/admin/questions", http.StatusSeeOther)
}

// apiQuestion is one row of the question listing API.
type apiQuestion struct {
	ID           int64             `json:"id"`
	QuestionText string            `json:"questionText"`
	Answer       string            `json:"answer"`
	CategoryID   int64             `json:"categoryId"`
	CategoryName string            `json:"categoryName"`
	ImagePath    *string           `json:"imagePath"`
	Difficulty   models.Difficulty `json:"difficulty"`
}

// apiCategory is one category of the question listing API.
type apiCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// QuestionsJSON returns every question and category as JSON, ordered by ID
// and name respectively.
func (a *Admin) QuestionsJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	qs, err := a.questions.List(ctx, store.QuestionFilter{})
	if err != nil {
		writeContentError(w, err, "Failed to list questions")
		return
	}
	cats, err := a.categories.List(ctx)
	if err != nil {
		writeContentError(w, err, "Failed to list categories")
		return
	}

	out := struct {
		Questions  []apiQuestion `json:"questions"`
		Categories []apiCategory `json:"categories"`
	}{
		Questions:  make([]apiQuestion, len(qs)),
		Categories: make([]apiCategory, len(cats)),
	}
	for i, q := range qs {
		out.Questions[i] = apiQuestion{
			ID: q.ID, QuestionText: q.QuestionText, Answer: q.Answer,
			CategoryID: q.CategoryID, CategoryName: q.CategoryName,
			ImagePath: q.ImagePath, Difficulty: q.Difficulty,
		}
	}
	for i, c := range cats {
		out.Categories[i] = apiCategory{ID: c.ID, Name: c.Name}
	}
	writeJSON(w, http.StatusOK, out)
}

// questionError re-renders the editor with the failure message.
func (a *Admin) questionError(w http.ResponseWriter, r *http.Request, err error, form questionForm, isNew bool) {
	status := statusFor(err)
	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		slog.Error("question mutation failed", "error", err)
	}
	a.renderQuestionForm(w, r, status, form, isNew, content.Message(err, "Something went wrong. Please try again."))
}

// keepImage restores the stored image preview after a rejected edit.
func (a *Admin) keepImage(r *http.Request, form questionForm) questionForm {
	if q, err := a.questions.FindByID(r.Context(), form.ID); err == nil && q != nil && q.ImagePath != nil {
		form.ImagePath = *q.ImagePath
	}
	return form
}

func (a *Admin) renderQuestionForm(w http.ResponseWriter, r *http.Request, status int, form questionForm, isNew bool, errMsg string) {
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

	imageSearch := ""
	if a.images != nil {
		imageSearch = a.images.ProviderName()
	}

	title := "New question"
	if !isNew {
		title = fmt.Sprintf("Question #%d", form.ID)
	}

	a.page(w, r, status, "question_form", &render.PageData{
		Title:   title,
		Section: "questions",
		Data: map[string]any{
			"IsNew":         isNew,
			"Form":          form,
			"Categories":    cats,
			"Subcategories": subs,
			"ImageSearch":   imageSearch,
			"Languages":     i18n.Translations(),
			"Error":         errMsg,
		},
	})
}

func uploadErrorMessage(err error) string {
	if errors.Is(err, errImageTooLarge) {
		return fmt.Sprintf("Image is too large (max %d MB).", content.MaxImageSize>>20)
	}
	slog.Warn("question form parse failed", "error", err)
	return "The form could not be read. Please try again."
}
