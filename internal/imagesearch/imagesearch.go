// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imagesearch searches third-party photo libraries (Unsplash or
// Pexels) for question illustrations and copies a chosen photo into the
// managed upload storage.
package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gameoftrivia/internal/metrics"
)

// ResultLimit is the number of candidates requested from a provider.
const ResultLimit = 9

const (
	searchTimeout = 15 * time.Second
	maxErrorBody  = 1024
)

// ErrEmptyQuery is returned by Search when the query is blank.
var ErrEmptyQuery = errors.New("imagesearch: query is required")

// Image is one search candidate.
type Image struct {
	ID         string `json:"id"`
	ThumbURL   string `json:"thumbUrl"`
	RegularURL string `json:"regularUrl"`
	Alt        string `json:"alt"`
	// Photographer is shown as attribution next to the thumbnail.
	Photographer string `json:"photographer"`
	// DownloadLocation must be pinged when the photo is used. Only Unsplash
	// sets it.
	DownloadLocation string `json:"downloadLocation"`
}

// ProviderError reports a failed or unconfigured upstream call. Message is
// safe to show to the admin.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return e.Provider + ": " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Provider searches one photo library.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Image, error)
}

// Config selects and configures the photo provider.
type Config struct {
	// Provider is "unsplash" or "pexels"; anything else means unsplash.
	Provider          string
	UnsplashAccessKey string
	PexelsAPIKey      string
	// Base URLs override the public API endpoints; empty uses the defaults.
	UnsplashBaseURL string
	PexelsBaseURL   string
}

// NewProvider returns the provider selected by cfg. A provider without an
// API key is still returned; its Search fails with a ProviderError.
func NewProvider(cfg Config) Provider {
	client := &http.Client{Timeout: searchTimeout}
	if strings.EqualFold(cfg.Provider, "pexels") {
		return &pexels{apiKey: cfg.PexelsAPIKey, baseURL: orDefault(cfg.PexelsBaseURL, pexelsBaseURL), client: client}
	}
	return &unsplash{accessKey: cfg.UnsplashAccessKey, baseURL: orDefault(cfg.UnsplashBaseURL, unsplashBaseURL), client: client}
}

// Searcher wraps a Provider with query validation and metrics.
type Searcher struct {
	provider Provider
	metrics  *metrics.Metrics
}

// NewSearcher creates a Searcher. m may be nil.
func NewSearcher(p Provider, m *metrics.Metrics) *Searcher {
	return &Searcher{provider: p, metrics: m}
}

// ProviderName returns the configured provider's name.
func (s *Searcher) ProviderName() string {
	return s.provider.Name()
}

// Search returns at most ResultLimit candidates for query.
func (s *Searcher) Search(ctx context.Context, query string) ([]Image, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	images, err := s.provider.Search(ctx, query)
	if err != nil {
		s.metrics.IncrementImageSearch(s.provider.Name(), metrics.OutcomeFailed)
		return nil, err
	}
	s.metrics.IncrementImageSearch(s.provider.Name(), metrics.OutcomeOK)

	if len(images) > ResultLimit {
		images = images[:ResultLimit]
	}
	return images, nil
}

// getJSON performs an authenticated GET and decodes a 200 response.
func getJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &ProviderError{Provider: provider, Message: "invalid request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &ProviderError{Provider: provider, Message: "API request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ProviderError{
			Provider: provider,
			Message:  fmt.Sprintf("API request failed (status %d)", resp.StatusCode),
			Err:      errors.New(strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Provider: provider, Message: "unexpected API response", Err: err}
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return strings.TrimRight(v, "/")
}
