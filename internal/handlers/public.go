// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gameoftrivia/internal/cache"
	"gameoftrivia/internal/engine"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/quiz"
	"gameoftrivia/internal/storage"
)

// maxCheckBody caps the body of an answer check.
const maxCheckBody = 16 << 10

// Pages renders the public site. *engine.Engine implements it.
type Pages interface {
	RenderHome(ctx context.Context, lang i18n.Lang) ([]byte, error)
	RenderCategory(ctx context.Context, lang i18n.Lang, slug string) ([]byte, error)
	RenderQuickQuiz(ctx context.Context, lang i18n.Lang) ([]byte, error)
	Answer(ctx context.Context, lang i18n.Lang, id int64) (string, error)
}

// PageCache stores rendered public pages. *cache.PageCache implements it.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
}

// Public groups handlers for the visitor-facing quiz site. Home and
// category pages go through the Valkey page cache; the quick quiz is
// shuffled per request and never cached.
type Public struct {
	pages       Pages
	pageCache   PageCache
	files       storage.Backend
	defaultLang i18n.Lang
}

// NewPublic creates a new Public handler group. pageCache may be nil.
func NewPublic(pages Pages, pageCache PageCache, files storage.Backend, defaultLang i18n.Lang) *Public {
	return &Public{
		pages:       pages,
		pageCache:   pageCache,
		files:       files,
		defaultLang: i18n.Parse(string(defaultLang), i18n.Base),
	}
}

// Root redirects to the home page in the default language.
func (p *Public) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+string(p.defaultLang), http.StatusFound)
}

// Home renders the category overview.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	lang, ok := langParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	p.serveCached(w, r, lang, "/", func(ctx context.Context) ([]byte, error) {
		return p.pages.RenderHome(ctx, lang)
	})
}

// Category renders the questions of one category.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	lang, ok := langParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	slugParam := chi.URLParam(r, "slug")
	p.serveCached(w, r, lang, "/category/"+slugParam, func(ctx context.Context) ([]byte, error) {
		return p.pages.RenderCategory(ctx, lang, slugParam)
	})
}

// QuickQuiz renders every question in random order.
func (p *Public) QuickQuiz(w http.ResponseWriter, r *http.Request) {
	lang, ok := langParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	rendered, err := p.pages.RenderQuickQuiz(r.Context(), lang)
	if err != nil {
		slog.Error("render quick quiz failed", "error", err, "lang", lang)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(rendered)
}

// checkRequest is the body of an answer check.
type checkRequest struct {
	Answer string `json:"answer"`
}

// CheckAnswer compares a visitor's answer with the question's answer in
// the page language. It accepts a JSON body or a regular form post.
func (p *Public) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	lang, ok := langParam(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Unknown language"})
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid question ID"})
		return
	}

	var given string
	r.Body = http.MaxBytesReader(w, r.Body, maxCheckBody)
	if isJSONRequest(r) {
		var req checkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
			return
		}
		given = req.Answer
	} else {
		given = r.FormValue("answer")
	}

	correct, err := p.pages.Answer(r.Context(), lang, id)
	if errors.Is(err, engine.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Question not found"})
		return
	}
	if err != nil {
		slog.Error("answer lookup failed", "error", err, "question_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"correct": quiz.CheckAnswer(given, correct)})
}

// Upload streams a stored question image. Names are validated before they
// reach the storage backend, so no path can escape the upload directory.
func (p *Public) Upload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if err := storage.ValidateName(name); err != nil {
		http.NotFound(w, r)
		return
	}

	rc, contentType, err := p.files.Open(r.Context(), name)
	if errors.Is(err, storage.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("open upload failed", "error", err, "file", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Debug("upload stream interrupted", "error", err, "file", name)
	}
}

// serveCached writes the page stored under (lang, path) or renders, caches
// and writes it on a miss.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, lang i18n.Lang, path string, render func(context.Context) ([]byte, error)) {
	ctx := r.Context()
	key := cache.PageKey(string(lang), path)

	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}
	}

	rendered, err := render(ctx)
	if errors.Is(err, engine.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("render page failed", "error", err, "lang", lang, "path", path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if p.pageCache != nil {
		p.pageCache.Set(ctx, key, rendered)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.Write(rendered)
}

// langParam returns the {lang} route parameter if it names a supported
// language.
func langParam(r *http.Request) (i18n.Lang, bool) {
	raw := chi.URLParam(r, "lang")
	if !i18n.IsValid(raw) {
		return "", false
	}
	return i18n.Lang(raw), true
}

// isJSONRequest reports whether the request body is JSON.
func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
