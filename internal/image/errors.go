package image

import "errors"

var (
	// ErrUnknownKind is returned for an unrecognized image kind.
	ErrUnknownKind = errors.New("unknown image kind")

	// ErrValidation is returned when the upload fails the size or type
	// checks, before any storage call is made.
	ErrValidation = errors.New("image validation failed")

	// ErrStorageUpload is returned when publishing a variant fails. The
	// whole upload is aborted and already-published variants are removed.
	ErrStorageUpload = errors.New("storage upload failed")

	// ErrAssetIntegrity is returned when the hero variant is missing after
	// generation. A partial result is never returned silently.
	ErrAssetIntegrity = errors.New("hero variant missing after generation")
)
