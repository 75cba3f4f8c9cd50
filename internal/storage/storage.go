// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage keeps question image files. Two backends implement the
// same contract: Local writes under the data directory, S3 writes to an
// S3-compatible bucket. Either way the stored reference is the relative
// path "/uploads/questions/<file>", which the public site serves.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// PathPrefix is the public path every stored image reference starts with.
const PathPrefix = "/uploads/questions/"

// ErrNotExist is returned by Open when the file is absent.
var ErrNotExist = errors.New("storage: file does not exist")

// ErrInvalidName is returned for filenames that could escape the upload
// directory.
var ErrInvalidName = errors.New("storage: invalid file name")

// Backend stores, opens and removes image files by bare filename.
type Backend interface {
	// Save writes data under filename and returns the relative path
	// (PathPrefix + filename) to store on the question.
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)
	// Delete removes the file a stored path refers to. Only the basename
	// is used. A missing file is not an error.
	Delete(ctx context.Context, storedPath string) error
	// Open returns the file contents and its content type.
	Open(ctx context.Context, filename string) (io.ReadCloser, string, error)
}

// NewFilename returns a unique filename with the given extension.
func NewFilename(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "jpg"
	}
	return uuid.NewString() + "." + ext
}

// PathFor returns the stored reference for a filename.
func PathFor(filename string) string {
	return PathPrefix + filename
}

// Basename extracts the filename from a stored path and validates it.
// Anything before the last slash is ignored.
func Basename(storedPath string) (string, error) {
	name := path.Base(strings.ReplaceAll(storedPath, "\\", "/"))
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}

// ValidateName rejects names with separators, parent references or that
// are empty.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..", name == "/":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ContentTypeFor maps an image extension to its MIME type.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	}
	return "application/octet-stream"
}
