// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds application services that sit between handlers and
// the store, currently the recipe photo media service.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yumshare/yumshare-go/internal/imaging"
	"github.com/yumshare/yumshare-go/internal/util"
)

// MaxUploadSize is the byte limit for a single recipe photo.
const MaxUploadSize = 2 * 1024 * 1024 // 2 MB

// ErrImageTooLarge and ErrUnsupportedImage are upload validation failures
// reported to the caller as client errors, not server faults.
var (
	ErrImageTooLarge    = errors.New("image exceeds the 2 MB size limit")
	ErrUnsupportedImage = errors.New("images only (jpeg, jpg, png)")
)

// allowedImageMimeTypes are the declared Content-Type values accepted for
// recipe photos.
var allowedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// StoredImage identifies the files written for one uploaded photo.
type StoredImage struct {
	// Image and Thumbnail are filenames relative to the upload directory.
	Image     string
	Thumbnail string
}

// MediaService stores and removes recipe photos.
type MediaService struct {
	processor *imaging.Processor
	uploadDir string
}

// NewMediaService creates a media service rooted at uploadDir.
func NewMediaService(uploadDir string) *MediaService {
	return &MediaService{
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// Save validates and stores an uploaded recipe photo. The photo must be at
// most 2 MB and be a jpeg/jpg/png both by extension and by declared MIME
// type. The stored file gets a uuid-prefixed, slugified name; a thumbnail
// is generated best-effort and its absence is not an error.
func (s *MediaService) Save(file multipart.File, header *multipart.FileHeader) (*StoredImage, error) {
	if header.Size > MaxUploadSize {
		return nil, ErrImageTooLarge
	}

	original, err := util.SanitizeFilename(header.Filename)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	ext := strings.ToLower(filepath.Ext(original))
	if ext != ".jpeg" && ext != ".jpg" && ext != ".png" {
		return nil, ErrUnsupportedImage
	}

	mimeType := header.Header.Get("Content-Type")
	if !allowedImageMimeTypes[mimeType] {
		return nil, ErrUnsupportedImage
	}

	base := util.Slugify(strings.TrimSuffix(original, filepath.Ext(original)))
	if base == "" {
		base = "image"
	}
	id := uuid.New().String()

	imageName := fmt.Sprintf("%s-%s%s", id, base, ext)
	result, err := s.processor.Process(file, imageName)
	if err != nil {
		return nil, fmt.Errorf("processing image: %w", err)
	}

	stored := &StoredImage{Image: imageName}

	thumbName := fmt.Sprintf("%s-%s_thumb%s", id, base, ext)
	if _, err := s.processor.CreateThumbnail(result.FilePath, thumbName); err != nil {
		slog.Warn("failed to create thumbnail", "error", err, "image", imageName)
	} else {
		stored.Thumbnail = thumbName
	}

	return stored, nil
}

// Delete removes stored photo files best-effort: failures are logged and
// otherwise ignored, leaving an orphaned file at worst.
func (s *MediaService) Delete(filenames ...string) {
	for _, name := range filenames {
		if name == "" {
			continue
		}

		path := filepath.Join(s.uploadDir, name)
		if err := util.ValidatePathWithinBase(s.uploadDir, path); err != nil {
			slog.Warn("refusing to delete file outside upload directory", "file", name)
			continue
		}

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to delete image file", "error", err, "file", name)
		}
	}
}
