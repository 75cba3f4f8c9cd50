// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gameoftrivia/internal/storage"
)

const (
	downloadTimeout = 30 * time.Second
	trackingTimeout = 5 * time.Second
	// MaxDownloadSize caps the size of a photo copied from a provider.
	MaxDownloadSize = 10 << 20
)

// extensions maps a provider's content type to the stored file extension.
var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Persister downloads a chosen photo into the upload storage.
type Persister struct {
	backend storage.Backend
	client  *http.Client
	// trackingKey is the Unsplash access key appended to download
	// tracking pings as client_id. It is only sent over https to
	// trackingHost.
	trackingKey  string
	trackingHost string
}

// NewPersister creates a Persister writing to backend.
func NewPersister(backend storage.Backend, unsplashAccessKey string) *Persister {
	return &Persister{
		backend:     backend,
		client:      &http.Client{Timeout: downloadTimeout},
		trackingKey:  unsplashAccessKey,
		trackingHost: strings.TrimPrefix(unsplashBaseURL, "https://"),
	}
}

// Persist pings trackingURL best-effort, downloads imageURL and saves it
// under a generated filename. It returns the stored relative path.
func (p *Persister) Persist(ctx context.Context, imageURL, trackingURL string) (string, error) {
	if err := checkURL(imageURL); err != nil {
		return "", err
	}
	if trackingURL != "" {
		p.track(ctx, trackingURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", &ProviderError{Provider: "download", Message: "Failed to download image", Err: err}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: "download", Message: "Failed to download image", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Provider: "download",
			Message:  "Failed to download image",
			Err:      fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return "", &ProviderError{Provider: "download", Message: "Failed to download image", Err: err}
	}
	if len(data) > MaxDownloadSize {
		return "", &ProviderError{Provider: "download", Message: "Image is too large"}
	}

	contentType, ext := ExtensionFor(resp.Header.Get("Content-Type"))
	stored, err := p.backend.Save(ctx, storage.NewFilename(ext), contentType, data)
	if err != nil {
		return "", fmt.Errorf("save downloaded image: %w", err)
	}

	slog.Info("search image saved", "path", stored, "bytes", len(data))
	return stored, nil
}

// ExtensionFor returns the normalised content type and file extension for
// a response Content-Type header. Unrecognised types map to jpg.
func ExtensionFor(header string) (contentType, ext string) {
	mediaType, _, err := mime.ParseMediaType(header)
	if err == nil {
		if ext, ok := extensions[mediaType]; ok {
			return mediaType, ext
		}
	}
	return "image/jpeg", "jpg"
}

// track fires the provider's download-tracking callback. Errors are logged
// and ignored.
func (p *Persister) track(ctx context.Context, trackingURL string) {
	u, err := url.Parse(trackingURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		slog.Debug("ignoring invalid tracking url", "url", trackingURL)
		return
	}
	if p.trackingKey != "" && u.Scheme == "https" && u.Hostname() == p.trackingHost {
		q := u.Query()
		q.Set("client_id", p.trackingKey)
		u.RawQuery = q.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, trackingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return
	}
	resp, err := p.client.Do(req)
	if err != nil {
		slog.Warn("download tracking ping failed", "error", err)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// ErrInvalidURL is returned by Persist for anything but an absolute
// http(s) URL.
var ErrInvalidURL = errors.New("imagesearch: image URL must be an absolute http(s) URL")

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return ErrInvalidURL
	}
	return nil
}
