// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/storage"
)

// ---------- test doubles ----------

// memFiles is an in-memory storage.Backend that records deletions.
type memFiles struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	saveErr error
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string][]byte{}}
}

func (m *memFiles) Save(_ context.Context, filename, _ string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filename] = data
	return storage.PathFor(filename), nil
}

func (m *memFiles) Delete(_ context.Context, storedPath string) error {
	name, err := storage.Basename(storedPath)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	m.deleted = append(m.deleted, storedPath)
	return nil
}

func (m *memFiles) Open(_ context.Context, filename string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filename]
	if !ok {
		return nil, "", storage.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ContentTypeFor(filename), nil
}

func (m *memFiles) has(storedPath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[strings.TrimPrefix(storedPath, storage.PathPrefix)]
	return ok
}

// fakeLocker hands out each name once until released.
type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
	err  error
}

func (l *fakeLocker) Acquire(_ context.Context, name string) (func(), bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[name] {
		return nil, false, nil
	}
	l.held[name] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, name)
	}, true, nil
}

// countingPages counts cache invalidations.
type countingPages struct {
	mu sync.Mutex
	n  int
}

func (p *countingPages) InvalidateAll(context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
}

func (p *countingPages) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

// ---------- image fixtures ----------

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), nil))
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(), nil))
	return buf.Bytes()
}

// ---------- errors ----------

func TestErrorKinds(t *testing.T) {
	err := conflictError("A category with this name already exists.", errors.New("dup"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "A category with this name already exists.", Message(err, "fallback"))
	assert.Contains(t, err.Error(), "conflict")

	wrapped := errors.Join(errors.New("outer"), validationError("bad"))
	assert.Equal(t, KindValidation, KindOf(wrapped))

	plain := errors.New("disk on fire")
	assert.Equal(t, Kind(0), KindOf(plain))
	assert.Equal(t, "fallback", Message(plain, "fallback"))

	assert.Equal(t, "not found", KindNotFound.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

// ---------- validation ----------

func TestValidateName(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantName string
		wantSlug string
		wantErr  bool
	}{
		{name: "simple", in: "Geography", wantName: "Geography", wantSlug: "geography"},
		{name: "trimmed", in: "  World History ", wantName: "World History", wantSlug: "world-history"},
		{name: "minimum", in: "TV", wantName: "TV", wantSlug: "tv"},
		{name: "maximum", in: strings.Repeat("a", 50), wantName: strings.Repeat("a", 50), wantSlug: strings.Repeat("a", 50)},
		{name: "accents count as one char", in: "Café", wantName: "Café", wantSlug: "caf"},
		{name: "too short", in: "A", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
		{name: "too long", in: strings.Repeat("a", 51), wantErr: true},
		{name: "no slug characters", in: "!!!", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, sl, err := validateName(tt.in)
			if tt.wantErr {
				assert.Equal(t, KindValidation, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantSlug, sl)
		})
	}
}

func TestCheckTargetLang(t *testing.T) {
	assert.NoError(t, checkTargetLang(i18n.Dutch))
	assert.Equal(t, KindValidation, KindOf(checkTargetLang(i18n.English)), "base language is not a target")
	assert.Equal(t, KindValidation, KindOf(checkTargetLang(i18n.Lang("de"))))
}

func TestValidateImage(t *testing.T) {
	t.Run("accepted formats", func(t *testing.T) {
		for _, tc := range []struct {
			data     []byte
			wantType string
			wantExt  string
		}{
			{pngBytes(t), "image/png", "png"},
			{jpegBytes(t), "image/jpeg", "jpg"},
			{gifBytes(t), "image/gif", "gif"},
		} {
			info, err := ValidateImage(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, info.ContentType)
			assert.Equal(t, tc.wantExt, info.Ext)
			assert.Equal(t, 4, info.Width)
			assert.Equal(t, 3, info.Height)
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ValidateImage(nil)
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("too large", func(t *testing.T) {
		big := append(pngBytes(t), make([]byte, MaxImageSize)...)
		_, err := ValidateImage(big)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Contains(t, Message(err, ""), "5MB")
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := ValidateImage([]byte("<svg xmlns='http://www.w3.org/2000/svg'></svg>"))
		assert.Contains(t, Message(err, ""), "Invalid file type")
	})

	t.Run("truncated image", func(t *testing.T) {
		data := pngBytes(t)[:20]
		_, err := ValidateImage(data)
		assert.Equal(t, KindValidation, KindOf(err))
	})
}

func TestValidateStoredPath(t *testing.T) {
	assert.NoError(t, validateStoredPath("/uploads/questions/abc.jpg"))
	for _, bad := range []string{
		"abc.jpg",
		"/etc/passwd",
		"/uploads/questions/",
		"/uploads/questions/../../secret",
		"/uploads/questions/a/b.jpg",
		"https://example.com/a.jpg",
	} {
		assert.Equal(t, KindValidation, KindOf(validateStoredPath(bad)), "path %q", bad)
	}
}

// ---------- image policy ----------

func strPtr(s string) *string { return &s }

func TestResolveImage(t *testing.T) {
	ctx := context.Background()
	current := strPtr("/uploads/questions/old.jpg")

	t.Run("upload wins over searched path and removal", func(t *testing.T) {
		files := newMemFiles()
		s := &Service{files: files}

		change, err := s.resolveImage(ctx, QuestionInput{
			Upload:            &Upload{Filename: "x.png", Data: pngBytes(t)},
			SearchedImagePath: "/uploads/questions/searched.jpg",
			RemoveImage:       true,
		}, current)
		require.NoError(t, err)
		require.NotNil(t, change.path)
		assert.True(t, strings.HasSuffix(*change.path, ".png"))
		assert.Equal(t, *change.path, change.saved)
		assert.True(t, files.has(*change.path))
		assert.Equal(t, current, change.replaced)
	})

	t.Run("invalid upload aborts", func(t *testing.T) {
		files := newMemFiles()
		s := &Service{files: files}
		_, err := s.resolveImage(ctx, QuestionInput{Upload: &Upload{Data: []byte("nope")}}, current)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Empty(t, files.files)
	})

	t.Run("storage failure aborts", func(t *testing.T) {
		files := newMemFiles()
		files.saveErr = errors.New("disk full")
		s := &Service{files: files}
		_, err := s.resolveImage(ctx, QuestionInput{Upload: &Upload{Data: pngBytes(t)}}, nil)
		assert.Equal(t, KindStorage, KindOf(err))
	})

	t.Run("searched path adopted", func(t *testing.T) {
		s := &Service{files: newMemFiles()}
		change, err := s.resolveImage(ctx, QuestionInput{
			SearchedImagePath: "/uploads/questions/searched.jpg",
			RemoveImage:       true,
		}, current)
		require.NoError(t, err)
		assert.Equal(t, "/uploads/questions/searched.jpg", *change.path)
		assert.Empty(t, change.saved)
		assert.Equal(t, current, change.replaced)
	})

	t.Run("same searched path keeps file", func(t *testing.T) {
		s := &Service{files: newMemFiles()}
		change, err := s.resolveImage(ctx, QuestionInput{SearchedImagePath: *current}, current)
		require.NoError(t, err)
		assert.Nil(t, change.replaced)
	})

	t.Run("searched path outside uploads rejected", func(t *testing.T) {
		s := &Service{files: newMemFiles()}
		_, err := s.resolveImage(ctx, QuestionInput{SearchedImagePath: "/etc/passwd"}, nil)
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("removal clears and replaces", func(t *testing.T) {
		s := &Service{files: newMemFiles()}
		change, err := s.resolveImage(ctx, QuestionInput{RemoveImage: true}, current)
		require.NoError(t, err)
		assert.Nil(t, change.path)
		assert.Equal(t, current, change.replaced)
	})

	t.Run("removal without image is a no-op", func(t *testing.T) {
		s := &Service{files: newMemFiles()}
		change, err := s.resolveImage(ctx, QuestionInput{RemoveImage: true}, nil)
		require.NoError(t, err)
		assert.Nil(t, change.path)
		assert.Nil(t, change.replaced)
	})

	t.Run("nothing supplied keeps current", func(t *testing.T) {
		s := &Service{files: newMemFiles()}
		change, err := s.resolveImage(ctx, QuestionInput{Upload: &Upload{}}, current)
		require.NoError(t, err)
		assert.Equal(t, current, change.path)
		assert.Nil(t, change.replaced)
		assert.Empty(t, change.saved)
	})
}

// ---------- locking ----------

func TestExclusive(t *testing.T) {
	ctx := context.Background()

	t.Run("no locker", func(t *testing.T) {
		release, err := (&Service{}).exclusive(ctx, "x")
		require.NoError(t, err)
		release()
	})

	t.Run("held lock is a conflict", func(t *testing.T) {
		s := &Service{locker: &fakeLocker{}}
		release, err := s.exclusive(ctx, OpTranslateQuestions+":nl")
		require.NoError(t, err)

		_, err = s.exclusive(ctx, OpTranslateQuestions+":nl")
		assert.Equal(t, KindConflict, KindOf(err))

		other, err := s.exclusive(ctx, OpTranslateTaxonomy+":nl")
		require.NoError(t, err, "different operations do not exclude each other")
		other()

		release()
		again, err := s.exclusive(ctx, OpTranslateQuestions+":nl")
		require.NoError(t, err)
		again()
	})

	t.Run("lock service outage runs unlocked", func(t *testing.T) {
		s := &Service{locker: &fakeLocker{err: errors.New("connection refused")}}
		release, err := s.exclusive(ctx, "x")
		require.NoError(t, err)
		release()
	})
}

func TestRequireAssistant(t *testing.T) {
	err := (&Service{}).requireAssistant()
	assert.Equal(t, KindUpstream, KindOf(err))
}

func TestChangedInvalidatesPages(t *testing.T) {
	pages := &countingPages{}
	s := &Service{pages: pages}
	s.changed(context.Background(), "category", "create")
	assert.Equal(t, 1, pages.count())
}

func TestMessageHelpers(t *testing.T) {
	assert.Equal(t, "", failedPart(0))
	assert.Equal(t, "2 failed. ", failedPart(2))
	assert.Equal(t, "question", plural(1, "question", "questions"))
	assert.Equal(t, "questions", plural(0, "question", "questions"))
}
