package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"tableqr-backend/internal/image"
	"tableqr-backend/internal/notification"
	"tableqr-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store         store.Store
	pipeline      *image.Pipeline
	notifier      *notification.Notifier
	webpush       *webpush.Options
	publicBaseURL string
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, pipeline *image.Pipeline, notifier *notification.Notifier, webpushOptions *webpush.Options, publicBaseURL string) *Handler {
	return &Handler{
		store:         s,
		pipeline:      pipeline,
		notifier:      notifier,
		webpush:       webpushOptions,
		publicBaseURL: publicBaseURL,
	}
}

// respondError maps taxonomy errors to a status and a stable error code so
// callers can tell retryable failures from permanent ones.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "error": "resource not found"})
	case errors.Is(err, store.ErrAllocationExhausted):
		c.JSON(http.StatusConflict, gin.H{"code": "allocation_exhausted", "error": "no queue number available"})
	case errors.Is(err, store.ErrTransientConflict):
		c.JSON(http.StatusConflict, gin.H{"code": "transient_conflict", "error": "allocation conflict, try again"})
	case errors.Is(err, store.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"code": "invalid_transition", "error": "ticket is not in the required state"})
	case errors.Is(err, image.ErrUnknownKind):
		c.JSON(http.StatusBadRequest, gin.H{"code": "unknown_image_kind", "error": "unknown image kind"})
	case errors.Is(err, image.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_failed", "error": err.Error()})
	case errors.Is(err, image.ErrStorageUpload):
		c.JSON(http.StatusBadGateway, gin.H{"code": "storage_upload_failed", "error": "failed to publish image"})
	case errors.Is(err, image.ErrAssetIntegrity):
		c.JSON(http.StatusInternalServerError, gin.H{"code": "asset_integrity_error", "error": "hero variant missing"})
	default:
		// Internal detail stays in the log; clients get the stable code only.
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "internal", "error": "internal server error"})
	}
}
