package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"tableqr-backend/internal/model"
)

// menuSection is one category of the public menu page, in display order.
type menuSection struct {
	Category *model.Category `json:"category"`
	Menus    []model.Menu    `json:"menus"`
}

// PublicMenu returns the customer-facing menu: available items only, grouped
// under ordered categories, with uncategorized items last.
func (h *Handler) PublicMenu(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	st, err := h.store.GetStore(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}

	categories, err := h.store.ListCategories(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	menus, err := h.store.ListAvailableMenus(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}

	byCategory := make(map[int64][]model.Menu)
	var uncategorized []model.Menu
	for _, m := range menus {
		if m.CategoryID == nil {
			uncategorized = append(uncategorized, m)
			continue
		}
		byCategory[*m.CategoryID] = append(byCategory[*m.CategoryID], m)
	}

	sections := make([]menuSection, 0, len(categories)+1)
	for i := range categories {
		items := byCategory[categories[i].ID]
		if len(items) == 0 {
			continue
		}
		sections = append(sections, menuSection{Category: &categories[i], Menus: items})
	}
	if len(uncategorized) > 0 {
		sections = append(sections, menuSection{Category: nil, Menus: uncategorized})
	}

	c.JSON(http.StatusOK, gin.H{
		"store":    st,
		"sections": sections,
	})
}

// StoreQRCode renders the PNG QR code linking to the store's public menu.
func (h *Handler) StoreQRCode(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	if _, err := h.store.GetStore(c.Request.Context(), storeID); err != nil {
		respondError(c, err)
		return
	}

	link := fmt.Sprintf("%s/stores/%d/menu", h.publicBaseURL, storeID)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
