package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CreateTicket allocates a fresh queue number for the store.
func (h *Handler) CreateTicket(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("store_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return
	}

	ticket, err := h.store.AllocateTicket(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// GetBoard returns the store's tickets partitioned by status.
func (h *Handler) GetBoard(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("store_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return
	}

	board, err := h.store.ListBoard(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// MarkReady transitions a waiting ticket to ready and fans out the push
// notification. Delivery failure degrades to a warning on an otherwise
// successful response; the transition is never rolled back.
func (h *Handler) MarkReady(c *gin.Context) {
	queueID, err := strconv.ParseInt(c.Param("queue_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid queue id"})
		return
	}

	ticket, err := h.store.MarkReady(c.Request.Context(), queueID, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"queue": ticket}
	if h.notifier != nil {
		if err := h.notifier.NotifyReady(c.Request.Context(), ticket.StoreID, ticket.QueueNumber); err != nil {
			resp["warning"] = "notification_delivery_failed"
		}
	}
	c.JSON(http.StatusOK, resp)
}

// MarkComplete transitions a ready ticket to completed.
func (h *Handler) MarkComplete(c *gin.Context) {
	queueID, err := strconv.ParseInt(c.Param("queue_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid queue id"})
		return
	}

	ticket, err := h.store.MarkComplete(c.Request.Context(), queueID, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": ticket})
}

// DeleteTicket removes a ticket regardless of status.
func (h *Handler) DeleteTicket(c *gin.Context) {
	queueID, err := strconv.ParseInt(c.Param("queue_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid queue id"})
		return
	}

	if err := h.store.DeleteTicket(c.Request.Context(), queueID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
