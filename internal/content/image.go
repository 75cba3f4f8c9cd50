// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"bytes"
	"image"
	"net/http"

	// Register decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

// Upload is an image file submitted with a question form.
type Upload struct {
	Filename string
	Data     []byte
}

// ImageInfo describes a validated upload.
type ImageInfo struct {
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// allowedImageTypes maps sniffed content types to stored file extensions.
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ValidateImage checks that data is at most MaxImageSize bytes and is a
// decodable JPEG, PNG, GIF or WebP image. The type is sniffed from the
// bytes; the client-supplied name and content type are ignored.
func ValidateImage(data []byte) (*ImageInfo, error) {
	if len(data) == 0 {
		return nil, validationError("The image file is empty.")
	}
	if len(data) > MaxImageSize {
		return nil, validationError("File too large. Maximum size is 5MB.")
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, validationError("Invalid file type. Allowed: jpg, png, gif, webp.")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, validationError("The image file could not be read.")
	}

	return &ImageInfo{ContentType: contentType, Ext: ext, Width: cfg.Width, Height: cfg.Height}, nil
}
