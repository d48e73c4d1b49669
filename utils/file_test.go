package utils

import (
	"mime/multipart"
	"strings"
	"testing"
)

func TestValidateImageUpload(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
	}{
		{"png ok", "photo.PNG", 1024, false},
		{"jpeg ok", "photo.jpeg", MaxUploadSize, false},
		{"webp ok", "photo.webp", 1, false},
		{"pdf rejected", "doc.pdf", 1024, true},
		{"no extension rejected", "photo", 1024, true},
		{"oversize rejected", "photo.png", MaxUploadSize + 1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fh := &multipart.FileHeader{Filename: tc.filename, Size: tc.size}
			err := ValidateImageUpload(fh)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for %s", tc.filename)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for %s: %v", tc.filename, err)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("/products/", "My Photo.JPG")

	if !strings.HasPrefix(key, "products/") {
		t.Errorf("key should start with the trimmed folder, got %s", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key should keep a lowercased extension, got %s", key)
	}
	if strings.Contains(key, "My Photo") {
		t.Error("key should not contain the original name")
	}

	if ObjectKey("products", "a.png") == ObjectKey("products", "a.png") {
		t.Error("keys for the same name should not collide")
	}
}
