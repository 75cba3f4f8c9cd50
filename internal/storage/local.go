// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Local stores images on the local filesystem under a single directory.
type Local struct {
	dir string
}

// NewLocal creates the upload directory if needed and returns a backend
// rooted there.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: abs}, nil
}

// resolve returns the absolute path for name, refusing anything that
// would land outside the upload directory.
func (l *Local) resolve(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	full := filepath.Join(l.dir, name)
	if !strings.HasPrefix(full, l.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return full, nil
}

// Save writes data to the upload directory.
func (l *Local) Save(_ context.Context, filename, _ string, data []byte) (string, error) {
	full, err := l.resolve(filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %w", filename, err)
	}
	return PathFor(filename), nil
}

// Delete removes the file a stored path refers to.
func (l *Local) Delete(_ context.Context, storedPath string) error {
	name, err := Basename(storedPath)
	if err != nil {
		return err
	}
	full, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("image already gone", "path", storedPath)
			return nil
		}
		return fmt.Errorf("delete image %s: %w", name, err)
	}
	return nil
}

// Open opens a stored image for reading.
func (l *Local) Open(_ context.Context, filename string) (io.ReadCloser, string, error) {
	full, err := l.resolve(filename)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", ErrNotExist
	}
	if err != nil {
		return nil, "", fmt.Errorf("open image %s: %w", filename, err)
	}
	return f, ContentTypeFor(filename), nil
}
