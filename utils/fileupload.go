package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/yeremiapane/pos-app/apperrors"
)

// MaxImageSize is 5MB.
const MaxImageSize = 5 * 1024 * 1024

var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ValidateImageFile checks the size and extension of an uploaded image.
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxImageSize {
		return apperrors.Validation(fmt.Sprintf("image exceeds maximum size of %d MB", MaxImageSize/(1024*1024)))
	}
	if _, ok := allowedImageExtensions[strings.ToLower(filepath.Ext(fileHeader.Filename))]; !ok {
		return apperrors.Validation("only jpg, jpeg, png and webp images are allowed")
	}
	return nil
}

// ImageContentType returns the MIME type for an allowed image file name.
func ImageContentType(filename string) string {
	if ct, ok := allowedImageExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
