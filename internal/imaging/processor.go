// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging processes uploaded recipe photos: decoding, EXIF
// orientation correction, re-encoding and thumbnail generation.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// Thumbnail dimensions and encoding quality for recipe list views.
const (
	ThumbWidth  = 320
	ThumbHeight = 240
	jpegQuality = 90
)

// ProcessResult contains the result of processing an uploaded photo.
type ProcessResult struct {
	Width    int
	Height   int
	Size     int64
	FilePath string
}

// Processor handles recipe photo processing using pure Go libraries.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a new photo processor rooted at uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// Process reads an uploaded photo, corrects its EXIF orientation and saves
// a re-encoded copy under the given filename. Re-encoding strips EXIF
// metadata from the stored file.
func (p *Processor) Process(reader io.Reader, filename string) (*ProcessResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	format := detectFormat(filename)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	orientation := readExifOrientation(bytes.NewReader(data))
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()

	processed, err := encodeImage(img, format)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	filePath, err := p.saveFile(filename, processed)
	if err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	return &ProcessResult{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Size:     int64(len(processed)),
		FilePath: filePath,
	}, nil
}

// CreateThumbnail renders a thumbnail variant of a stored photo and saves
// it under thumbFilename. The source aspect ratio is preserved.
func (p *Processor) CreateThumbnail(sourcePath, thumbFilename string) (*ProcessResult, error) {
	img, err := imaging.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source image: %w", err)
	}

	resized := imaging.Fit(img, ThumbWidth, ThumbHeight, imaging.Lanczos)
	bounds := resized.Bounds()

	processed, err := encodeImage(resized, detectFormat(thumbFilename))
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}

	filePath, err := p.saveFile(thumbFilename, processed)
	if err != nil {
		return nil, fmt.Errorf("saving thumbnail: %w", err)
	}

	return &ProcessResult{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Size:     int64(len(processed)),
		FilePath: filePath,
	}, nil
}

// saveFile writes data under the upload directory and returns the path.
func (p *Processor) saveFile(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(p.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	filePath := filepath.Join(p.uploadDir, filename)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return filePath, nil
}

// detectFormat maps a filename extension to an encodable format name.
// Only jpeg and png are accepted for recipe photos.
func detectFormat(filename string) string {
	switch filepath.Ext(filename) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	default:
		return ""
	}
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image to bytes in the given format.
func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
