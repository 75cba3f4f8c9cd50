// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gameoftrivia/internal/engine"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/storage"
)

// fakePages renders fixed bodies and counts calls.
type fakePages struct {
	renders int
	answer  string
	err     error
}

func (f *fakePages) RenderHome(_ context.Context, lang i18n.Lang) ([]byte, error) {
	f.renders++
	return []byte("home " + string(lang)), f.err
}

func (f *fakePages) RenderCategory(_ context.Context, lang i18n.Lang, slug string) ([]byte, error) {
	f.renders++
	if slug == "missing" {
		return nil, engine.ErrNotFound
	}
	return []byte("category " + slug + " " + string(lang)), f.err
}

func (f *fakePages) RenderQuickQuiz(_ context.Context, lang i18n.Lang) ([]byte, error) {
	f.renders++
	return []byte("quick " + string(lang)), f.err
}

func (f *fakePages) Answer(_ context.Context, _ i18n.Lang, id int64) (string, error) {
	if id == 404 {
		return "", engine.ErrNotFound
	}
	return f.answer, f.err
}

// memPageCache is an in-memory PageCache.
type memPageCache struct {
	pages map[string][]byte
}

func (m *memPageCache) Get(_ context.Context, key string) ([]byte, bool) {
	b, ok := m.pages[key]
	return b, ok
}

func (m *memPageCache) Set(_ context.Context, key string, html []byte) {
	m.pages[key] = html
}

func newTestPublic(t *testing.T, pages *fakePages) (*Public, *memPageCache, *storage.Local) {
	t.Helper()
	files, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("storage.NewLocal: %v", err)
	}
	pc := &memPageCache{pages: map[string][]byte{}}
	return NewPublic(pages, pc, files, i18n.English), pc, files
}

func TestRootRedirectsToDefaultLanguage(t *testing.T) {
	p, _, _ := newTestPublic(t, &fakePages{})

	rec := httptest.NewRecorder()
	p.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/en" {
		t.Errorf("Location: got %q, want /en", loc)
	}
}

func TestHomeCachesRenderedPage(t *testing.T) {
	pages := &fakePages{}
	p, pc, _ := newTestPublic(t, pages)

	for i, want := range []string{"MISS", "HIT"} {
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/nl", nil), "lang", "nl")
		rec := httptest.NewRecorder()
		p.Home(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status: got %d", i, rec.Code)
		}
		if got := rec.Header().Get("X-Cache"); got != want {
			t.Errorf("request %d X-Cache: got %q, want %q", i, got, want)
		}
		if rec.Body.String() != "home nl" {
			t.Errorf("request %d body: got %q", i, rec.Body.String())
		}
	}
	if pages.renders != 1 {
		t.Errorf("renders: got %d, want 1", pages.renders)
	}
	if len(pc.pages) != 1 {
		t.Errorf("cached pages: got %d, want 1", len(pc.pages))
	}
}

func TestHomeUnknownLanguage(t *testing.T) {
	p, _, _ := newTestPublic(t, &fakePages{})

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/xx", nil), "lang", "xx")
	rec := httptest.NewRecorder()
	p.Home(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCategoryNotFound(t *testing.T) {
	p, pc, _ := newTestPublic(t, &fakePages{})

	req := withChiURLParams(httptest.NewRequest(http.MethodGet, "/en/category/missing", nil), "lang", "en", "slug", "missing")
	rec := httptest.NewRecorder()
	p.Category(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
	if len(pc.pages) != 0 {
		t.Error("a missing category must not be cached")
	}
}

func TestCategoryRendersSlug(t *testing.T) {
	p, _, _ := newTestPublic(t, &fakePages{})

	req := withChiURLParams(httptest.NewRequest(http.MethodGet, "/en/category/science", nil), "lang", "en", "slug", "science")
	rec := httptest.NewRecorder()
	p.Category(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if rec.Body.String() != "category science en" {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestRenderErrorReturns500(t *testing.T) {
	p, _, _ := newTestPublic(t, &fakePages{err: errors.New("db down")})

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/en", nil), "lang", "en")
	rec := httptest.NewRecorder()
	p.Home(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestQuickQuizIsNotCached(t *testing.T) {
	pages := &fakePages{}
	p, pc, _ := newTestPublic(t, pages)

	for range 2 {
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/en/quickquiz", nil), "lang", "en")
		rec := httptest.NewRecorder()
		p.QuickQuiz(rec, req)
		if rec.Header().Get("Cache-Control") != "no-store" {
			t.Errorf("Cache-Control: got %q", rec.Header().Get("Cache-Control"))
		}
	}
	if pages.renders != 2 {
		t.Errorf("renders: got %d, want 2", pages.renders)
	}
	if len(pc.pages) != 0 {
		t.Error("quick quiz must not be cached")
	}
}

func postCheck(t *testing.T, p *Public, id, contentType, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/en/questions/"+id+"/check", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	req = withChiURLParams(req, "lang", "en", "id", id)
	rec := httptest.NewRecorder()
	p.CheckAnswer(rec, req)

	var resp map[string]any
	json.NewDecoder(rec.Body).Decode(&resp)
	return rec.Code, resp
}

func TestCheckAnswer(t *testing.T) {
	p, _, _ := newTestPublic(t, &fakePages{answer: "Paris"})

	tests := []struct {
		name        string
		id          string
		contentType string
		body        string
		wantStatus  int
		wantCorrect any
	}{
		{"json correct", "1", "application/json", `{"answer":"  paris "}`, http.StatusOK, true},
		{"json wrong", "1", "application/json", `{"answer":"London"}`, http.StatusOK, false},
		{"form correct", "1", "application/x-www-form-urlencoded", url.Values{"answer": {"PARIS"}}.Encode(), http.StatusOK, true},
		{"bad json", "1", "application/json", `{`, http.StatusBadRequest, nil},
		{"bad id", "abc", "application/json", `{"answer":"x"}`, http.StatusBadRequest, nil},
		{"unknown question", "404", "application/json", `{"answer":"x"}`, http.StatusNotFound, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := postCheck(t, p, tt.id, tt.contentType, tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", status, tt.wantStatus)
			}
			if tt.wantCorrect != nil && resp["correct"] != tt.wantCorrect {
				t.Errorf("correct: got %v, want %v", resp["correct"], tt.wantCorrect)
			}
		})
	}
}

func TestUploadServesStoredFile(t *testing.T) {
	p, _, files := newTestPublic(t, &fakePages{})

	name := storage.NewFilename("png")
	if _, err := files.Save(context.Background(), name, "image/png", []byte("\x89PNG data")); err != nil {
		t.Fatalf("save: %v", err)
	}

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/uploads/questions/"+name, nil), "file", name)
	rec := httptest.NewRecorder()
	p.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Cache-Control"), "immutable") {
		t.Errorf("Cache-Control: got %q", rec.Header().Get("Cache-Control"))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if rec.Body.String() != "\x89PNG data" {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestUploadRejectsBadNames(t *testing.T) {
	p, _, _ := newTestPublic(t, &fakePages{})

	for _, name := range []string{"../etc/passwd", "missing.png", ""} {
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/uploads/questions/x", nil), "file", name)
		rec := httptest.NewRecorder()
		p.Upload(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%q: status got %d, want 404", name, rec.Code)
		}
	}
}
