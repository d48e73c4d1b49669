package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxUploadSize = 10 * 1024 * 1024 // 10MB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// ValidateImageUpload checks extension and size before anything touches R2.
func ValidateImageUpload(fileHeader *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported file type %q (allowed: jpg, jpeg, png, webp, gif)", ext)
	}
	if fileHeader.Size > MaxUploadSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", fileHeader.Size, MaxUploadSize)
	}
	return nil
}

// ObjectKey builds a collision-free storage key like "products/<uuid>.png".
func ObjectKey(folder, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), ext)
}
