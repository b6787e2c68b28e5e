package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tableqr-backend/internal/model"
)

type storeRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	BusinessHours string `json:"business_hours"`
	Notice        string `json:"notice"`
	LogoURL       string `json:"logo_url"`
	CoverURL      string `json:"cover_url"`
}

type storeUpdateRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	BusinessHours *string `json:"business_hours"`
	Notice        *string `json:"notice"`
	LogoURL       *string `json:"logo_url"`
	CoverURL      *string `json:"cover_url"`
}

func (r *storeUpdateRequest) fields() map[string]any {
	fields := map[string]any{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Address != nil {
		fields["address"] = *r.Address
	}
	if r.Phone != nil {
		fields["phone"] = *r.Phone
	}
	if r.BusinessHours != nil {
		fields["business_hours"] = *r.BusinessHours
	}
	if r.Notice != nil {
		fields["notice"] = *r.Notice
	}
	if r.LogoURL != nil {
		fields["logo_url"] = *r.LogoURL
	}
	if r.CoverURL != nil {
		fields["cover_url"] = *r.CoverURL
	}
	return fields
}

func storeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("store_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return 0, false
	}
	return id, true
}

// ListStores returns every store, newest first.
func (h *Handler) ListStores(c *gin.Context) {
	stores, err := h.store.ListStores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

// CreateStore registers a new store.
func (h *Handler) CreateStore(c *gin.Context) {
	var req storeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := model.Store{
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		Phone:         req.Phone,
		BusinessHours: req.BusinessHours,
		Notice:        req.Notice,
		LogoURL:       req.LogoURL,
		CoverURL:      req.CoverURL,
	}
	if err := h.store.CreateStore(c.Request.Context(), &st); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// GetStore returns a single store.
func (h *Handler) GetStore(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	st, err := h.store.GetStore(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// UpdateStore applies a partial update.
func (h *Handler) UpdateStore(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	var req storeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := req.fields()
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	st, err := h.store.UpdateStore(c.Request.Context(), storeID, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// DeleteStore removes a store and its catalog.
func (h *Handler) DeleteStore(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	if err := h.store.DeleteStore(c.Request.Context(), storeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
