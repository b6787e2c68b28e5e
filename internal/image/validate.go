package image

import "fmt"

// MaxUploadBytes is the upload size ceiling (5 MB).
const MaxUploadBytes = 5 * 1024 * 1024

var allowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
	"image/avif": {},
}

// Validate rejects oversized or unsupported uploads before any pipeline work.
func Validate(size int64, contentType string) error {
	if _, ok := allowedMIMETypes[contentType]; !ok {
		return fmt.Errorf("%w: unsupported type %q", ErrValidation, contentType)
	}
	if size > MaxUploadBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, MaxUploadBytes)
	}
	return nil
}
