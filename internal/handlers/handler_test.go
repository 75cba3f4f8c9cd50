// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"gameoftrivia/internal/ai"
	"gameoftrivia/internal/assist"
	"gameoftrivia/internal/content"
	"gameoftrivia/internal/database"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/imagesearch"
	"gameoftrivia/internal/middleware"
	"gameoftrivia/internal/render"
	"gameoftrivia/internal/session"
	"gameoftrivia/internal/storage"
	"gameoftrivia/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "trivia") + ":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "trivia") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

var nameSeq atomic.Int64

// uniqueName returns a category-safe name that no other test uses.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano()%1_000_000_000+nameSeq.Add(1))
}

// fakeAssistant returns canned AI answers for handler tests.
type fakeAssistant struct {
	generate []assist.GeneratedQuestion
	err      error
}

func (a *fakeAssistant) GenerateQuestions(_ context.Context, _ assist.GenerateRequest) ([]assist.GeneratedQuestion, error) {
	return a.generate, a.err
}

func (a *fakeAssistant) ClassifySubcategories(_ context.Context, _ []assist.ClassifyInput, _ string, _ []string) ([]assist.Classification, error) {
	return nil, a.err
}

func (a *fakeAssistant) TranslateQuestion(_ context.Context, f assist.QuestionFields, _ i18n.Lang) (*assist.QuestionFields, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &assist.QuestionFields{QuestionText: "NL " + f.QuestionText, Answer: "NL " + f.Answer}, nil
}

func (a *fakeAssistant) TranslateText(_ context.Context, v string, _ i18n.Lang) (string, error) {
	return "NL " + v, a.err
}

// fakeCompleter is a registry provider that never gets called.
type fakeCompleter struct{ name string }

func (f *fakeCompleter) Name() string { return f.name }
func (f *fakeCompleter) Complete(_ context.Context, _ ai.Request) (string, error) {
	return "", nil
}

// fakeImages is an image search provider with fixed results.
type fakeImages struct {
	images []imagesearch.Image
	err    error
}

func (f *fakeImages) Name() string { return "unsplash" }
func (f *fakeImages) Search(_ context.Context, _ string) ([]imagesearch.Image, error) {
	return f.images, f.err
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	Renderer      *render.Renderer
	Sessions      *session.Store
	Categories    *store.CategoryStore
	Subcategories *store.SubcategoryStore
	Questions     *store.QuestionStore
	Users         *store.UserStore
	Files         *storage.Local
	Assistant     *fakeAssistant
	Images        *fakeImages
	Content       *content.Service
	Admin         *Admin
	Auth          *Auth
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	files, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("storage.NewLocal: %v", err)
	}

	env := &testEnv{
		DB:            db,
		Valkey:        vk,
		Renderer:      renderer,
		Sessions:      session.NewStore(vk, false),
		Categories:    store.NewCategoryStore(db),
		Subcategories: store.NewSubcategoryStore(db),
		Questions:     store.NewQuestionStore(db),
		Users:         store.NewUserStore(db),
		Files:         files,
		Assistant:     &fakeAssistant{},
		Images:        &fakeImages{},
	}
	translations := store.NewTranslationStore(db)

	env.Content = content.NewService(content.Deps{
		Categories:    env.Categories,
		Subcategories: env.Subcategories,
		Questions:     env.Questions,
		Translations:  translations,
		Files:         files,
		Assistant:     env.Assistant,
	})

	registry := ai.NewRegistry("test", map[string]ai.ProviderConfig{})
	registry.Register("test", &fakeCompleter{name: "test"})

	env.Admin = NewAdmin(AdminDeps{
		Renderer:      renderer,
		Sessions:      env.Sessions,
		Content:       env.Content,
		Categories:    env.Categories,
		Subcategories: env.Subcategories,
		Questions:     env.Questions,
		Translations:  translations,
		Browser:       store.NewTableBrowser(db, database.VersionTable),
		AIRegistry:    registry,
		AIConfig: &AIConfig{
			ActiveProvider: "test",
			Providers: []AIProviderInfo{
				{Name: "test", Label: "Test Provider", HasKey: true, Active: true, Model: "test-model"},
			},
		},
		Images:    imagesearch.NewSearcher(env.Images, nil),
		Persister: imagesearch.NewPersister(files, ""),
		Site:      SiteInfo{Storage: "local", DefaultLang: i18n.English},
	})
	env.Auth = NewAuth(renderer, env.Sessions, env.Users)
	return env
}

// category creates a category that is removed when the test ends.
func (e *testEnv) category(t *testing.T) int64 {
	t.Helper()
	c, err := e.Content.CreateCategory(context.Background(), uniqueName("Cat"))
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	t.Cleanup(func() { e.Content.DeleteCategory(context.Background(), c.ID) })
	return c.ID
}

// question creates a minimal question in categoryID.
func (e *testEnv) question(t *testing.T, categoryID int64, text string) int64 {
	t.Helper()
	q, err := e.Content.CreateQuestion(context.Background(), content.QuestionInput{
		QuestionText: text,
		Answer:       "Paris",
		CategoryID:   categoryID,
		Difficulty:   "easy",
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q.ID
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParams adds several chi URL parameters given as key, value pairs.
func withChiURLParams(r *http.Request, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
