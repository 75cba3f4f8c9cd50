// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Game of Trivia server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gameoftrivia/internal/ai"
	"gameoftrivia/internal/assist"
	"gameoftrivia/internal/cache"
	"gameoftrivia/internal/config"
	"gameoftrivia/internal/content"
	"gameoftrivia/internal/database"
	"gameoftrivia/internal/engine"
	"gameoftrivia/internal/handlers"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/imagesearch"
	"gameoftrivia/internal/metrics"
	"gameoftrivia/internal/middleware"
	"gameoftrivia/internal/render"
	"gameoftrivia/internal/router"
	"gameoftrivia/internal/session"
	"gameoftrivia/internal/storage"
	"gameoftrivia/internal/store"
	"gameoftrivia/web"
)

// Requests allowed per client address and window.
const (
	loginLimit  = 10
	loginWindow = time.Minute
	aiLimit     = 30
	aiWindow    = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Text logs in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logger *slog.Logger
	if cfg.IsDev() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.StorageBackend,
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Creates the first admin account and, on an empty catalogue, a few
	// sample questions. No-op on a populated database.
	if err := database.Seed(db, database.SeedAdmin{Email: cfg.AdminEmail, Password: cfg.AdminPassword}); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	valkeyClient, err := cache.ConnectValkey(cache.ValkeyOptions{
		Addr:     net.JoinHostPort(cfg.ValkeyHost, cfg.ValkeyPort),
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	files, err := newBackend(cfg)
	if err != nil {
		slog.Error("failed to initialize image storage", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	categoryStore := store.NewCategoryStore(db)
	subcategoryStore := store.NewSubcategoryStore(db)
	questionStore := store.NewQuestionStore(db)
	translationStore := store.NewTranslationStore(db)
	userStore := store.NewUserStore(db)

	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	aiCfg := &handlers.AIConfig{
		ActiveProvider: cfg.AIProvider,
		Providers: []handlers.AIProviderInfo{
			{Name: "openai", Label: "OpenAI", HasKey: cfg.OpenAIKey != "", Active: cfg.AIProvider == "openai", Model: cfg.OpenAIModel, KeyEnvVar: "OPENAI_API_KEY"},
			{Name: "gemini", Label: "Google Gemini", HasKey: cfg.GeminiKey != "", Active: cfg.AIProvider == "gemini", Model: cfg.GeminiModel, KeyEnvVar: "GEMINI_API_KEY"},
			{Name: "claude", Label: "Anthropic Claude", HasKey: cfg.ClaudeKey != "", Active: cfg.AIProvider == "claude", Model: cfg.ClaudeModel, KeyEnvVar: "CLAUDE_API_KEY"},
			{Name: "mistral", Label: "Mistral", HasKey: cfg.MistralKey != "", Active: cfg.AIProvider == "mistral", Model: cfg.MistralModel, KeyEnvVar: "MISTRAL_API_KEY"},
		},
	}

	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	contentService := content.NewService(content.Deps{
		Categories:    categoryStore,
		Subcategories: subcategoryStore,
		Questions:     questionStore,
		Translations:  translationStore,
		Files:         files,
		Assistant:     assist.New(aiRegistry, m),
		Locker:        cache.NewLocker(valkeyClient, cache.DefaultLockTTL),
		Pages:         pageCache,
		Metrics:       m,
	})

	imageProvider := imagesearch.NewProvider(imagesearch.Config{
		Provider:          cfg.ImageSearchProvider,
		UnsplashAccessKey: cfg.UnsplashAccessKey,
		PexelsAPIKey:      cfg.PexelsAPIKey,
	})

	defaultLang := i18n.Parse(cfg.DefaultLang, i18n.Base)

	adminHandlers := handlers.NewAdmin(handlers.AdminDeps{
		Renderer:      renderer,
		Sessions:      sessionStore,
		Content:       contentService,
		Categories:    categoryStore,
		Subcategories: subcategoryStore,
		Questions:     questionStore,
		Translations:  translationStore,
		Browser:       store.NewTableBrowser(db, database.VersionTable),
		AIRegistry:    aiRegistry,
		AIConfig:      aiCfg,
		Images:        imagesearch.NewSearcher(imageProvider, m),
		Persister:     imagesearch.NewPersister(files, cfg.UnsplashAccessKey),
		Site:          handlers.SiteInfo{Storage: cfg.StorageBackend, DefaultLang: defaultLang},
	})
	authHandlers := handlers.NewAuth(renderer, sessionStore, userStore)
	eng := engine.New(categoryStore, subcategoryStore, questionStore, translationStore)
	publicHandlers := handlers.NewPublic(eng, pageCache, files, defaultLang)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		slog.Error("failed to load static assets", "error", err)
		os.Exit(1)
	}

	loginLimiter := middleware.NewRateLimiter(loginLimit, loginWindow)
	defer loginLimiter.Stop()
	aiLimiter := middleware.NewRateLimiter(aiLimit, aiWindow)
	defer aiLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:       sessionStore,
		Admin:          adminHandlers,
		Auth:           authHandlers,
		Public:         publicHandlers,
		Static:         static,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		LoginLimiter:   loginLimiter,
		AILimiter:      aiLimiter,
		SecureCookies:  secureCookies,
	})

	// WriteTimeout must accommodate AI endpoints that wait on a single LLM
	// response. Bulk translation and classification extend their own
	// deadline per request.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newBackend builds the image storage selected by STORAGE_BACKEND.
func newBackend(cfg *config.Config) (storage.Backend, error) {
	if cfg.StorageBackend == "s3" {
		b, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		if err != nil {
			return nil, err
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return b, nil
	}
	local, err := storage.NewLocal(cfg.UploadDir())
	if err != nil {
		return nil, err
	}
	slog.Info("local storage ready", "dir", cfg.UploadDir())
	return local, nil
}
