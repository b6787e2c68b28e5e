package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tableqr-backend/internal/model"
)

type registerNotificationRequest struct {
	StoreID     int64  `json:"store_id" binding:"required"`
	QueueNumber int    `json:"queue_number" binding:"required,min=1,max=999"`
	Token       string `json:"token" binding:"required"`
}

// RegisterNotification stores a push recipient for a (store, queue number)
// pair. A customer may register several devices for the same ticket.
func (h *Handler) RegisterNotification(c *gin.Context) {
	var req registerNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := model.QueueNotification{
		StoreID:     req.StoreID,
		QueueNumber: req.QueueNumber,
		Token:       req.Token,
	}
	if err := h.store.RegisterRecipient(c.Request.Context(), &rec); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": rec.ID})
}

// GetVAPIDPublicKey returns the VAPID public key to the client.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vapid keys are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": h.webpush.VAPIDPublicKey})
}
