// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testPNG encodes a small solid-color PNG.
func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 160, B: 90, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

// uploadFile builds a parsed multipart upload for tests.
func uploadFile(t *testing.T, filename, contentType string, data []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("creating multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("writing multipart data: %v", err)
	}
	_ = w.Close()

	req := httptest.NewRequest("POST", "/api/recipe/add", body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	file, fh, err := req.FormFile("image")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	return file, fh
}

func TestMediaService_Save(t *testing.T) {
	dir := t.TempDir()
	svc := NewMediaService(dir)

	file, fh := uploadFile(t, "My Lasagna Photo.png", "image/png", testPNG(t))
	defer file.Close()

	stored, err := svc.Save(file, fh)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasSuffix(stored.Image, "-my-lasagna-photo.png") {
		t.Errorf("Image = %q; want slugified name with uuid prefix", stored.Image)
	}
	if stored.Thumbnail == "" {
		t.Error("thumbnail not generated")
	}
	if _, err := os.Stat(filepath.Join(dir, stored.Image)); err != nil {
		t.Errorf("stored image missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, stored.Thumbnail)); err != nil {
		t.Errorf("stored thumbnail missing: %v", err)
	}
}

func TestMediaService_Save_Rejections(t *testing.T) {
	svc := NewMediaService(t.TempDir())
	pngData := testPNG(t)

	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		wantErr     error
	}{
		{"bad extension", "photo.gif", "image/png", pngData, ErrUnsupportedImage},
		{"no extension", "photo", "image/png", pngData, ErrUnsupportedImage},
		{"bad mime type", "photo.png", "application/octet-stream", pngData, ErrUnsupportedImage},
		{"mime extension mismatch gif", "photo.png", "image/gif", pngData, ErrUnsupportedImage},
		{"too large", "photo.png", "image/png", bytes.Repeat([]byte{0}, MaxUploadSize+1), ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, fh := uploadFile(t, tt.filename, tt.contentType, tt.data)
			defer file.Close()

			_, err := svc.Save(file, fh)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Save = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMediaService_Delete(t *testing.T) {
	dir := t.TempDir()
	svc := NewMediaService(dir)

	path := filepath.Join(dir, "old.png")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	svc.Delete("old.png", "", "never-existed.png")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still present after Delete: %v", err)
	}
}

func TestMediaService_Delete_RefusesTraversal(t *testing.T) {
	dir := t.TempDir()
	svc := NewMediaService(filepath.Join(dir, "uploads"))

	outside := filepath.Join(dir, "outside.txt")
	if err := os.WriteFile(outside, []byte("keep me"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	svc.Delete("../outside.txt")

	if _, err := os.Stat(outside); err != nil {
		t.Errorf("file outside upload dir was deleted: %v", err)
	}
}
