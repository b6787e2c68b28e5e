package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tableqr-backend/internal/model"
)

// ListCategories returns a store's categories in display order.
func (h *Handler) ListCategories(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	categories, err := h.store.ListCategories(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

type categoryRequest struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder int    `json:"display_order"`
}

// CreateCategory adds a category to a store.
func (h *Handler) CreateCategory(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := model.Category{
		StoreID:      storeID,
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.store.CreateCategory(c.Request.Context(), &category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

type categoryUpdateRequest struct {
	Name         *string `json:"name"`
	DisplayOrder *int    `json:"display_order"`
}

// UpdateCategory applies a partial update.
func (h *Handler) UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("category_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req categoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.DisplayOrder != nil {
		fields["display_order"] = *req.DisplayOrder
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	category, err := h.store.UpdateCategory(c.Request.Context(), categoryID, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category; its menus become uncategorized.
func (h *Handler) DeleteCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("category_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	if err := h.store.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMenus returns every menu of a store.
func (h *Handler) ListMenus(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	menus, err := h.store.ListMenus(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

type menuRequest struct {
	CategoryID   *int64 `json:"category_id"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
	ImageURL     string `json:"image_url"`
	IsAvailable  *bool  `json:"is_available"`
	DisplayOrder int    `json:"display_order"`
}

// CreateMenu adds a menu item to a store.
func (h *Handler) CreateMenu(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	menu := model.Menu{
		StoreID:      storeID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		IsAvailable:  available,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.store.CreateMenu(c.Request.Context(), &menu); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menu)
}

type menuUpdateRequest struct {
	CategoryID   *int64  `json:"category_id"`
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Price        *int64  `json:"price"`
	ImageURL     *string `json:"image_url"`
	IsAvailable  *bool   `json:"is_available"`
	DisplayOrder *int    `json:"display_order"`
}

// UpdateMenu applies a partial update.
func (h *Handler) UpdateMenu(c *gin.Context) {
	menuID, err := strconv.ParseInt(c.Param("menu_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu id"})
		return
	}

	var req menuUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.IsAvailable != nil {
		fields["is_available"] = *req.IsAvailable
	}
	if req.DisplayOrder != nil {
		fields["display_order"] = *req.DisplayOrder
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	menu, err := h.store.UpdateMenu(c.Request.Context(), menuID, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// DeleteMenu removes a menu item.
func (h *Handler) DeleteMenu(c *gin.Context) {
	menuID, err := strconv.ParseInt(c.Param("menu_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu id"})
		return
	}

	if err := h.store.DeleteMenu(c.Request.Context(), menuID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
