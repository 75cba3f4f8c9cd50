// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for Game of Trivia.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gameoftrivia/internal/ai"
	"gameoftrivia/internal/content"
	"gameoftrivia/internal/export"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/imagesearch"
	"gameoftrivia/internal/render"
	"gameoftrivia/internal/session"
	"gameoftrivia/internal/store"
)

// AIProviderInfo holds display information about a configured AI provider.
// Used by the Settings page to show which providers are available.
type AIProviderInfo struct {
	Name      string // "openai", "gemini", "claude", "mistral"
	Label     string // Human-friendly label
	HasKey    bool   // Whether an API key is configured
	Active    bool   // Whether this is the currently active provider
	Model     string // Configured model name
	KeyEnvVar string // Environment variable name for the key
}

// AIConfig holds the AI provider configuration visible to admin handlers.
// It never carries the API keys themselves.
type AIConfig struct {
	ActiveProvider string
	Providers      []AIProviderInfo
}

// SiteInfo is the read-only configuration shown on the settings page.
type SiteInfo struct {
	Storage     string
	DefaultLang i18n.Lang
}

// AdminDeps are the collaborators of the admin handlers. AIRegistry,
// Images and Persister may be nil when the matching service is not
// configured.
type AdminDeps struct {
	Renderer      *render.Renderer
	Sessions      *session.Store
	Content       *content.Service
	Categories    *store.CategoryStore
	Subcategories *store.SubcategoryStore
	Questions     *store.QuestionStore
	Translations  *store.TranslationStore
	Browser       *store.TableBrowser
	AIRegistry    *ai.Registry
	AIConfig      *AIConfig
	Images        *imagesearch.Searcher
	Persister     *imagesearch.Persister
	Site          SiteInfo
}

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer      *render.Renderer
	sessions      *session.Store
	content       *content.Service
	categories    *store.CategoryStore
	subcategories *store.SubcategoryStore
	questions     *store.QuestionStore
	translations  *store.TranslationStore
	browser       *store.TableBrowser
	aiRegistry    *ai.Registry
	aiConfig      *AIConfig
	images        *imagesearch.Searcher
	persister     *imagesearch.Persister
	site          SiteInfo
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(d AdminDeps) *Admin {
	aiCfg := d.AIConfig
	if aiCfg == nil {
		aiCfg = &AIConfig{}
	}
	return &Admin{
		renderer:      d.Renderer,
		sessions:      d.Sessions,
		content:       d.Content,
		categories:    d.Categories,
		subcategories: d.Subcategories,
		questions:     d.Questions,
		translations:  d.Translations,
		browser:       d.Browser,
		aiRegistry:    d.AIRegistry,
		aiConfig:      aiCfg,
		images:        d.Images,
		persister:     d.Persister,
		site:          d.Site,
	}
}

// --------------------------------------------------------------------------
// Dashboard
// --------------------------------------------------------------------------

// dashboardStats are the catalogue counters on the dashboard.
type dashboardStats struct {
	Categories    int
	Subcategories int
	Questions     int
	Unassigned    int
	Translations  []languageStats
}

// languageStats counts the translation overlays of one language.
type languageStats struct {
	Lang          i18n.Lang
	Questions     int
	Categories    int
	Subcategories int
}

// Dashboard renders the admin overview with counters and bulk tools.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.collectStats(r)
	if err != nil {
		slog.Error("dashboard stats failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.page(w, r, http.StatusOK, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"Stats":          stats,
			"Languages":      i18n.Translations(),
			"AIReady":        a.aiReady(),
			"ActiveProvider": a.activeProvider(),
		},
	})
}

func (a *Admin) collectStats(r *http.Request) (*dashboardStats, error) {
	ctx := r.Context()
	var s dashboardStats
	var err error

	if s.Categories, err = a.categories.Count(ctx); err != nil {
		return nil, err
	}
	subs, err := a.subcategories.List(ctx)
	if err != nil {
		return nil, err
	}
	s.Subcategories = len(subs)
	if s.Questions, err = a.questions.Count(ctx, store.QuestionFilter{}); err != nil {
		return nil, err
	}
	if s.Unassigned, err = a.questions.Count(ctx, store.QuestionFilter{Unassigned: true}); err != nil {
		return nil, err
	}

	for _, lang := range i18n.Translations() {
		ls := languageStats{Lang: lang}
		if ls.Questions, err = a.translations.Count(ctx, string(lang)); err != nil {
			return nil, err
		}
		cats, err := a.translations.Categories(ctx, string(lang))
		if err != nil {
			return nil, err
		}
		subTs, err := a.translations.Subcategories(ctx, string(lang))
		if err != nil {
			return nil, err
		}
		ls.Categories, ls.Subcategories = len(cats), len(subTs)
		s.Translations = append(s.Translations, ls)
	}
	return &s, nil
}

// --------------------------------------------------------------------------
// Settings
// --------------------------------------------------------------------------

// SettingsPage renders the provider and site configuration.
func (a *Admin) SettingsPage(w http.ResponseWriter, r *http.Request) {
	imageSearch := "not configured"
	if a.images != nil {
		imageSearch = a.images.ProviderName()
	}

	a.page(w, r, http.StatusOK, "settings", &render.PageData{
		Title:   "Settings",
		Section: "settings",
		Data: map[string]any{
			"AIConfig":    a.aiConfig,
			"ImageSearch": imageSearch,
			"Storage":     a.site.Storage,
			"DefaultLang": a.site.DefaultLang,
			"Languages":   i18n.Supported,
		},
	})
}

// --------------------------------------------------------------------------
// Database browser
// --------------------------------------------------------------------------

// DatabaseBrowser renders one page of a raw table. Without a table
// parameter it only lists the tables.
func (a *Admin) DatabaseBrowser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tables, err := a.browser.Tables(ctx)
	if err != nil {
		slog.Error("list tables failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	table := r.URL.Query().Get("table")
	data := map[string]any{"Tables": tables, "Table": table}

	if table != "" {
		pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
		tp, err := a.browser.Page(ctx, table, pageNum)
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("browse table failed", "error", err, "table", table)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data["Page"] = tp
	}

	a.page(w, r, http.StatusOK, "database", &render.PageData{
		Title:   "Database",
		Section: "database",
		Data:    data,
	})
}

// --------------------------------------------------------------------------
// CSV export
// --------------------------------------------------------------------------

// ExportCSV streams every question as a CSV attachment.
func (a *Admin) ExportCSV(w http.ResponseWriter, r *http.Request) {
	questions, err := a.questions.List(r.Context(), store.QuestionFilter{})
	if err != nil {
		slog.Error("export list questions failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Export failed"})
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	if err := export.WriteCSV(w, questions); err != nil {
		slog.Error("write csv failed", "error", err)
	}
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// page renders an admin page with the pending flash message, if any.
func (a *Admin) page(w http.ResponseWriter, r *http.Request, status int, name string, data *render.PageData) {
	if a.sessions != nil {
		if f := a.sessions.PopFlash(r.Context(), r); f != nil {
			data.Flashes = append(data.Flashes, render.Flash{Type: f.Kind, Message: f.Message})
		}
	}
	a.renderer.PageStatus(w, r, status, name, data)
}

// flash stores a message for the next rendered admin page.
func (a *Admin) flash(r *http.Request, kind, message string) {
	if a.sessions != nil {
		a.sessions.SetFlash(r.Context(), r, kind, message)
	}
}

// statusFor maps a content error to its HTTP status.
func statusFor(err error) int {
	switch content.KindOf(err) {
	case content.KindValidation:
		return http.StatusBadRequest
	case content.KindConflict:
		return http.StatusConflict
	case content.KindNotFound:
		return http.StatusNotFound
	case content.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeContentError answers an API call that failed in the content
// service. Unclassified errors are logged and reported with fallback.
func writeContentError(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	if content.KindOf(err) == 0 || status == http.StatusInternalServerError {
		slog.Error("admin api failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": content.Message(err, fallback)})
}

// writeJSON sends a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
