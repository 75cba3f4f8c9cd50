// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables and an optional YAML file. It provides a centralized Config
// struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// defaultDBPassword is rejected in production.
const defaultDBPassword = "changeme"

// Config holds all application configuration values.
// Priority: environment > YAML file (CONFIG_PATH) > env-default tags.
type Config struct {
	// Server settings
	Host     string `yaml:"host"      env:"APP_HOST"  env-default:"0.0.0.0"`
	Port     string `yaml:"port"      env:"APP_PORT"  env-default:"8080"`
	Env      string `yaml:"env"       env:"APP_ENV"   env-default:"development"` // "development", "production", "testing"
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	DataDir  string `yaml:"data_dir"  env:"DATA_DIR"  env-default:"./data"`

	// PostgreSQL connection
	DBHost     string `yaml:"db_host"     env:"POSTGRES_HOST"     env-default:"localhost"`
	DBPort     string `yaml:"db_port"     env:"POSTGRES_PORT"     env-default:"5432"`
	DBUser     string `yaml:"db_user"     env:"POSTGRES_USER"     env-default:"trivia"`
	DBPassword string `yaml:"db_password" env:"POSTGRES_PASSWORD" env-default:"changeme"`
	DBName     string `yaml:"db_name"     env:"POSTGRES_DB"       env-default:"trivia"`

	// Valkey (Redis-compatible cache)
	ValkeyHost     string `yaml:"valkey_host"     env:"VALKEY_HOST"     env-default:"localhost"`
	ValkeyPort     string `yaml:"valkey_port"     env:"VALKEY_PORT"     env-default:"6379"`
	ValkeyPassword string `yaml:"valkey_password" env:"VALKEY_PASSWORD"`
	ValkeyDB       int    `yaml:"valkey_db"       env:"VALKEY_DB"       env-default:"0"`

	// AI provider settings. AIProvider selects the active provider.
	AIProvider     string `yaml:"ai_provider"      env:"AI_PROVIDER"      env-default:"openai"`
	OpenAIKey      string `yaml:"openai_api_key"   env:"OPENAI_API_KEY"`
	OpenAIModel    string `yaml:"openai_model"     env:"OPENAI_MODEL"     env-default:"gpt-4o"`
	OpenAIBaseURL  string `yaml:"openai_base_url"  env:"OPENAI_BASE_URL"`
	GeminiKey      string `yaml:"gemini_api_key"   env:"GEMINI_API_KEY"`
	GeminiModel    string `yaml:"gemini_model"     env:"GEMINI_MODEL"     env-default:"gemini-2.5-flash"`
	GeminiBaseURL  string `yaml:"gemini_base_url"  env:"GEMINI_BASE_URL"`
	ClaudeKey      string `yaml:"claude_api_key"   env:"CLAUDE_API_KEY"`
	ClaudeModel    string `yaml:"claude_model"     env:"CLAUDE_MODEL"     env-default:"claude-sonnet-4-6"`
	ClaudeBaseURL  string `yaml:"claude_base_url"  env:"CLAUDE_BASE_URL"`
	MistralKey     string `yaml:"mistral_api_key"  env:"MISTRAL_API_KEY"`
	MistralModel   string `yaml:"mistral_model"    env:"MISTRAL_MODEL"    env-default:"mistral-large-latest"`
	MistralBaseURL string `yaml:"mistral_base_url" env:"MISTRAL_BASE_URL"`

	// Photo search
	ImageSearchProvider string `yaml:"image_search_provider" env:"IMAGE_SEARCH_PROVIDER" env-default:"unsplash"` // "unsplash" or "pexels"
	UnsplashAccessKey   string `yaml:"unsplash_access_key"   env:"UNSPLASH_ACCESS_KEY"`
	PexelsAPIKey        string `yaml:"pexels_api_key"        env:"PEXELS_API_KEY"`

	// Image storage: "local" writes under DataDir, "s3" uses the bucket below.
	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND" env-default:"local"`
	S3Endpoint     string `yaml:"s3_endpoint"     env:"S3_ENDPOINT"`
	S3Region       string `yaml:"s3_region"       env:"S3_REGION"       env-default:"us-east-1"`
	S3AccessKey    string `yaml:"s3_access_key"   env:"S3_ACCESS_KEY"`
	S3SecretKey    string `yaml:"s3_secret_key"   env:"S3_SECRET_KEY"`
	S3Bucket       string `yaml:"s3_bucket"       env:"S3_BUCKET"`

	// Localization
	DefaultLang string `yaml:"default_lang" env:"DEFAULT_LANG" env-default:"en"`

	// Initial admin account, created when the users table is empty.
	AdminEmail    string `yaml:"admin_email"    env:"ADMIN_EMAIL"    env-default:"admin@gameoftrivia.local"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD" env-default:"admin"`
}

// Load reads configuration from the YAML file named by CONFIG_PATH (when
// set) and the environment, then validates it. Returns an error if critical
// values are missing in production mode.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be expressed as tag defaults.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "local", "s3":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be \"local\" or \"s3\", got %q", c.StorageBackend)
	}
	switch c.ImageSearchProvider {
	case "unsplash", "pexels":
	default:
		return fmt.Errorf("IMAGE_SEARCH_PROVIDER must be \"unsplash\" or \"pexels\", got %q", c.ImageSearchProvider)
	}
	if c.StorageBackend == "s3" && (c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3Bucket == "") {
		return fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY and S3_BUCKET are required when STORAGE_BACKEND=s3")
	}

	if c.Env == "production" {
		if c.DBPassword == defaultDBPassword {
			return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if c.AdminPassword == "admin" {
			return fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UploadDir is where the local storage backend keeps question images.
func (c *Config) UploadDir() string {
	return filepath.Join(c.DataDir, "uploads", "questions")
}

// SlogLevel maps LOG_LEVEL to a slog level. Unset means debug in
// development and info everywhere else.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if c.IsDev() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
