// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gameoftrivia/internal/imagesearch"
)

// searchImagesRequest is the body of an image search call.
type searchImagesRequest struct {
	Query string `json:"query"`
}

// SearchImages queries the configured photo provider for question images.
func (a *Admin) SearchImages(w http.ResponseWriter, r *http.Request) {
	var req searchImagesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if msg := validateQuery(req.Query); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	if a.images == nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Image search is not configured"})
		return
	}

	images, err := a.images.Search(r.Context(), req.Query)
	if err != nil {
		writeMediaError(w, err, "Image search failed")
		return
	}

	resp := map[string]any{"images": images}
	if len(images) == 0 {
		resp["images"] = []imagesearch.Image{}
		resp["message"] = "No images found"
	}
	writeJSON(w, http.StatusOK, resp)
}

// selectImageRequest is the body of an image selection call.
type selectImageRequest struct {
	ImageURL         string `json:"imageUrl"`
	DownloadLocation string `json:"downloadLocation"`
}

// SelectImage copies a chosen search result into upload storage and
// returns its stored path for the question form.
func (a *Admin) SelectImage(w http.ResponseWriter, r *http.Request) {
	var req selectImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if req.ImageURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Image URL is required"})
		return
	}
	if a.persister == nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Image search is not configured"})
		return
	}

	path, err := a.persister.Persist(r.Context(), req.ImageURL, strings.TrimSpace(req.DownloadLocation))
	if err != nil {
		writeMediaError(w, err, "Failed to save image")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"imagePath": path})
}

// writeMediaError maps an image search or download failure to a response.
func writeMediaError(w http.ResponseWriter, err error, fallback string) {
	var pe *imagesearch.ProviderError
	switch {
	case errors.Is(err, imagesearch.ErrEmptyQuery):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Search query is required"})
	case errors.Is(err, imagesearch.ErrInvalidURL):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid image URL"})
	case errors.As(err, &pe):
		slog.Warn("image provider failed", "provider", pe.Provider, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": pe.Message})
	default:
		slog.Error("image request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fallback})
	}
}
