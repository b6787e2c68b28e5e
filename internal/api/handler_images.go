package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tableqr-backend/internal/image"
)

// UploadImage accepts one multipart bitmap and publishes the full variant set
// for its kind, returning the hero URL plus every variant URL.
func (h *Handler) UploadImage(c *gin.Context) {
	kind, err := image.ParseKind(c.PostForm("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := image.Validate(header.Size, contentType); err != nil {
		respondError(c, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, image.MaxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
		return
	}

	result, err := h.pipeline.Upload(
		c.Request.Context(),
		kind,
		data,
		contentType,
		c.PostForm("storeId"),
		c.PostForm("previousUrl"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type deleteImageRequest struct {
	URL  string `json:"url" binding:"required"`
	Kind string `json:"kind" binding:"required"`
}

// DeleteImage removes every variant of the asset the URL belongs to. A URL
// outside the expected storage layout is a no-op.
func (h *Handler) DeleteImage(c *gin.Context) {
	var req deleteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind, err := image.ParseKind(req.Kind)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.pipeline.Delete(c.Request.Context(), req.URL, kind); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
