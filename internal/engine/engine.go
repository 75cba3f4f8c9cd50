// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders the public quiz pages. It loads categories,
// subcategories and questions from the stores, overlays the translations
// of the requested language and executes the embedded page templates.
package engine

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/markdown"
	"gameoftrivia/internal/models"
	"gameoftrivia/internal/quiz"
	"gameoftrivia/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrNotFound is returned when the requested category or question does not
// exist.
var ErrNotFound = errors.New("engine: not found")

// Page holds the variables shared by every public template.
type Page struct {
	Lang      i18n.Lang
	Languages []i18n.Lang
	Dict      i18n.Dictionary
	Title     string
	// Path is the request path without the language prefix. The language
	// switcher links to the same Path in each language.
	Path string
	Year int
}

// T looks up a UI string in the page's language.
func (p Page) T(key string, pairs ...string) string {
	return p.Dict.T(key, pairs...)
}

// Link prefixes path with the page's language.
func (p Page) Link(path string) string {
	return "/" + string(p.Lang) + path
}

// CategoryCard is one entry of the home page grid.
type CategoryCard struct {
	Name          string
	Slug          string
	QuestionCount int
	// CountLabel is "question" or "questions" in the page language.
	CountLabel string
}

// HomeData holds the variables of the home page.
type HomeData struct {
	Page
	Categories     []CategoryCard
	TotalQuestions int
}

// QuizQuestion is a question as shown to a visitor, already resolved into
// the page language.
type QuizQuestion struct {
	ID            int64
	QuestionText  string
	Answer        string
	Difficulty    models.Difficulty
	ImagePath     string
	ImageIsHint   bool
	DidYouKnow    template.HTML
	SubcategoryID int64
	// Subcategory is the resolved subcategory name, empty when unassigned.
	Subcategory string
}

// SubcategoryTab is one filter button above a category's questions.
type SubcategoryTab struct {
	ID    int64
	Name  string
	Count int
}

// QuizData holds the variables of the category and quick quiz pages.
type QuizData struct {
	Page
	Heading       string
	Subtitle      string
	ShowBackLink  bool
	EmptyMessage  string
	Subcategories []SubcategoryTab
	Questions     []QuizQuestion
}

// Engine renders public pages from the content stores.
type Engine struct {
	categories    *store.CategoryStore
	subcategories *store.SubcategoryStore
	questions     *store.QuestionStore
	translations  *store.TranslationStore
	cache         *templateCache
}

// New creates a rendering engine over the given stores.
func New(categories *store.CategoryStore, subcategories *store.SubcategoryStore, questions *store.QuestionStore, translations *store.TranslationStore) *Engine {
	return &Engine{
		categories:    categories,
		subcategories: subcategories,
		questions:     questions,
		translations:  translations,
		cache:         newTemplateCache(),
	}
}

// RenderHome renders the category overview in lang.
func (e *Engine) RenderHome(ctx context.Context, lang i18n.Lang) ([]byte, error) {
	cats, err := e.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if !lang.IsBase() {
		ts, err := e.translations.Categories(ctx, string(lang))
		if err != nil {
			return nil, err
		}
		cats = i18n.ResolveCategories(lang, cats, ts)
	}

	total, err := e.questions.Count(ctx, store.QuestionFilter{})
	if err != nil {
		return nil, err
	}

	page := newPage(lang, "", "")
	page.Title = page.T("nav.brand")
	return e.render("home", HomeData{
		Page:           page,
		Categories:     categoryCards(page, cats),
		TotalQuestions: total,
	})
}

// RenderCategory renders the questions of the category with slug in lang.
// Returns ErrNotFound if no such category exists.
func (e *Engine) RenderCategory(ctx context.Context, lang i18n.Lang, slug string) ([]byte, error) {
	c, err := e.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	subs, err := e.subcategories.ListByCategory(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	qs, err := e.questions.List(ctx, store.QuestionFilter{CategoryID: c.ID})
	if err != nil {
		return nil, err
	}

	name := c.Name
	if !lang.IsBase() {
		catTs, err := e.translations.Categories(ctx, string(lang))
		if err != nil {
			return nil, err
		}
		name = i18n.ResolveCategory(lang, *c, lookup(catTs, c.ID)).Name

		subTs, err := e.translations.Subcategories(ctx, string(lang))
		if err != nil {
			return nil, err
		}
		names := i18n.SubcategoryNames(lang, subs, subTs)
		subs = i18n.ResolveSubcategories(lang, subs, subTs)

		if qs, err = e.resolveQuestions(ctx, lang, qs, names); err != nil {
			return nil, err
		}
	}

	page := newPage(lang, "/category/"+c.Slug, name)
	return e.render("category", QuizData{
		Page:          page,
		Heading:       name,
		ShowBackLink:  true,
		EmptyMessage:  page.T("category.noQuestions"),
		Subcategories: subcategoryTabs(subs, qs),
		Questions:     quizQuestions(qs),
	})
}

// RenderQuickQuiz renders every question in random order.
func (e *Engine) RenderQuickQuiz(ctx context.Context, lang i18n.Lang) ([]byte, error) {
	qs, err := e.questions.List(ctx, store.QuestionFilter{})
	if err != nil {
		return nil, err
	}
	if !lang.IsBase() {
		subs, err := e.subcategories.List(ctx)
		if err != nil {
			return nil, err
		}
		subTs, err := e.translations.Subcategories(ctx, string(lang))
		if err != nil {
			return nil, err
		}
		names := i18n.SubcategoryNames(lang, subs, subTs)
		if qs, err = e.resolveQuestions(ctx, lang, qs, names); err != nil {
			return nil, err
		}
	}

	page := newPage(lang, "/quickquiz", "")
	page.Title = page.T("quickquiz.title")
	return e.render("quickquiz", QuizData{
		Page:         page,
		Heading:      page.T("quickquiz.title"),
		Subtitle:     page.T("quickquiz.subtitle"),
		EmptyMessage: page.T("quickquiz.noQuestions"),
		Questions:    quizQuestions(quiz.Shuffle(qs)),
	})
}

// Answer returns the answer of question id as seen in lang. Returns
// ErrNotFound if the question does not exist.
func (e *Engine) Answer(ctx context.Context, lang i18n.Lang, id int64) (string, error) {
	q, err := e.questions.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if q == nil {
		return "", ErrNotFound
	}
	if lang.IsBase() {
		return q.Answer, nil
	}
	t, err := e.translations.FindQuestion(ctx, id, string(lang))
	if err != nil {
		return "", err
	}
	return i18n.ResolveQuestion(lang, *q, t).Answer, nil
}

// resolveQuestions overlays the question translations of lang and relabels
// each question's subcategory from names.
func (e *Engine) resolveQuestions(ctx context.Context, lang i18n.Lang, qs []models.Question, names map[int64]string) ([]models.Question, error) {
	if len(qs) == 0 {
		return qs, nil
	}
	ids := make([]int64, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	ts, err := e.translations.Questions(ctx, string(lang), ids)
	if err != nil {
		return nil, err
	}
	return i18n.ResolveQuestions(lang, qs, ts, names), nil
}

// render executes the named page inside the shared layout.
func (e *Engine) render(name string, data any) ([]byte, error) {
	tmpl := e.cache.get(name)
	if tmpl == nil {
		var err error
		tmpl, err = template.New("layout.html").ParseFS(templateFS,
			"templates/layout.html", "templates/quiz.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("compile template %s: %w", name, err)
		}
		e.cache.put(name, tmpl)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func newPage(lang i18n.Lang, path, title string) Page {
	return Page{
		Lang:      lang,
		Languages: i18n.Supported,
		Dict:      i18n.DictionaryFor(lang),
		Title:     title,
		Path:      path,
		Year:      time.Now().Year(),
	}
}

func categoryCards(page Page, cats []models.Category) []CategoryCard {
	cards := make([]CategoryCard, len(cats))
	for i, c := range cats {
		label := page.T("categoryCard.questions")
		if c.QuestionCount == 1 {
			label = page.T("categoryCard.question")
		}
		cards[i] = CategoryCard{Name: c.Name, Slug: c.Slug, QuestionCount: c.QuestionCount, CountLabel: label}
	}
	return cards
}

// subcategoryTabs lists subcategories in store order with the number of
// listed questions in each.
func subcategoryTabs(subs []models.Subcategory, qs []models.Question) []SubcategoryTab {
	counts := make(map[int64]int)
	for _, q := range qs {
		if q.SubcategoryID != nil {
			counts[*q.SubcategoryID]++
		}
	}
	tabs := make([]SubcategoryTab, len(subs))
	for i, sc := range subs {
		tabs[i] = SubcategoryTab{ID: sc.ID, Name: sc.Name, Count: counts[sc.ID]}
	}
	return tabs
}

func quizQuestions(qs []models.Question) []QuizQuestion {
	out := make([]QuizQuestion, len(qs))
	for i, q := range qs {
		item := QuizQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Answer:       q.Answer,
			Difficulty:   q.Difficulty,
			ImageIsHint:  q.ImageIsHint,
		}
		if q.HasImage() {
			item.ImagePath = *q.ImagePath
		}
		if q.DidYouKnow != nil {
			item.DidYouKnow = markdown.Note(*q.DidYouKnow)
		}
		if q.SubcategoryID != nil {
			item.SubcategoryID = *q.SubcategoryID
		}
		if q.SubcategoryName != nil {
			item.Subcategory = *q.SubcategoryName
		}
		out[i] = item
	}
	return out
}

func lookup[T any](m map[int64]T, id int64) *T {
	if v, ok := m[id]; ok {
		return &v
	}
	return nil
}
