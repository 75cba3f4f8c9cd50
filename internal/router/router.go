// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for Game of
// Trivia. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gameoftrivia/internal/handlers"
	"gameoftrivia/internal/metrics"
	"gameoftrivia/internal/middleware"
	"gameoftrivia/internal/session"
)

// Deps are the handler groups and shared services the router wires up.
// Metrics, MetricsHandler and both limiters may be nil.
type Deps struct {
	Sessions       *session.Store
	Admin          *handlers.Admin
	Auth           *handlers.Auth
	Public         *handlers.Public
	Static         fs.FS
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	LoginLimiter   *middleware.RateLimiter
	AILimiter      *middleware.RateLimiter
	SecureCookies  bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger(d.Metrics))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	if d.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(d.Static))))
	}
	r.Get("/uploads/questions/{file}", d.Public.Upload)

	if d.MetricsHandler != nil {
		r.With(middleware.RequireAuthAPI).Handle("/metrics", d.MetricsHandler)
	}

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(d.SecureCookies))

		r.Get("/login", d.Auth.LoginPage)
		if d.LoginLimiter != nil {
			r.With(d.LoginLimiter.Middleware).Post("/login", d.Auth.LoginSubmit)
		} else {
			r.Post("/login", d.Auth.LoginSubmit)
		}
		r.Post("/logout", d.Auth.Logout)

		// 2FA: requires a session but not completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", d.Auth.TwoFASetupPage)
			r.Get("/2fa/verify", d.Auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", d.Auth.TwoFAVerifySubmit)
		})

		// JSON endpoints and downloads answer 401 instead of redirecting.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthAPI)

			r.Get("/export.csv", d.Admin.ExportCSV)

			r.Route("/api", func(r chi.Router) {
				r.Get("/questions", d.Admin.QuestionsJSON)
				r.Post("/save-generated", d.Admin.AISaveGenerated)
				r.Post("/select-image", d.Admin.SelectImage)

				// Calls that reach a paid AI or photo API.
				r.Group(func(r chi.Router) {
					if d.AILimiter != nil {
						r.Use(d.AILimiter.Middleware)
					}
					r.Post("/generate-questions", d.Admin.AIGenerateQuestions)
					r.Post("/translate", d.Admin.AITranslate)
					r.Post("/translate-all", d.Admin.AITranslateAll)
					r.Post("/translate-categories", d.Admin.AITranslateCategories)
					r.Post("/auto-subcategories", d.Admin.AIAutoSubcategories)
					r.Post("/search-images", d.Admin.SearchImages)
				})
			})
		})

		// Authenticated + 2FA-verified admin pages.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", d.Admin.Dashboard)
			r.Get("/dashboard", d.Admin.Dashboard)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", d.Admin.CategoriesList)
				r.Post("/", d.Admin.CategoryCreate)
				r.Post("/{id}", d.Admin.CategoryUpdate)
				r.Post("/{id}/delete", d.Admin.CategoryDelete)
				r.Post("/{id}/subcategories", d.Admin.SubcategoryCreate)
			})
			r.Post("/subcategories/{id}", d.Admin.SubcategoryUpdate)
			r.Post("/subcategories/{id}/delete", d.Admin.SubcategoryDelete)

			r.Route("/questions", func(r chi.Router) {
				r.Get("/", d.Admin.QuestionsList)
				r.Get("/new", d.Admin.QuestionNew)
				r.Post("/", d.Admin.QuestionCreate)
				r.Get("/{id}", d.Admin.QuestionEdit)
				r.Post("/{id}", d.Admin.QuestionUpdate)
				r.Post("/{id}/delete", d.Admin.QuestionDelete)
			})

			r.Get("/generate", d.Admin.GeneratePage)
			r.Get("/settings", d.Admin.SettingsPage)

			// Raw database access and provider switching: admin role only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/database", d.Admin.DatabaseBrowser)
				r.Post("/settings/ai-provider", d.Admin.AISetProvider)
			})
		})
	})

	// Public quiz site.
	r.Get("/", d.Public.Root)
	r.Route("/{lang}", func(r chi.Router) {
		r.Get("/", d.Public.Home)
		r.Get("/category/{slug}", d.Public.Category)
		r.Get("/quickquiz", d.Public.QuickQuiz)
		r.Post("/questions/{id}/check", d.Public.CheckAnswer)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
