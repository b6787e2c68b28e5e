package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"tableqr-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, rateLimit rate.Limit, burst int, cacheTTL time.Duration) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rateLimit, burst)

	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Stores
		api.GET("/stores", h.ListStores)
		api.POST("/stores", h.CreateStore)
		api.GET("/stores/:store_id", h.GetStore)
		api.PUT("/stores/:store_id", h.UpdateStore)
		api.DELETE("/stores/:store_id", h.DeleteStore)

		// Catalog
		api.GET("/stores/:store_id/categories", h.ListCategories)
		api.POST("/stores/:store_id/categories", h.CreateCategory)
		api.PUT("/categories/:category_id", h.UpdateCategory)
		api.DELETE("/categories/:category_id", h.DeleteCategory)

		api.GET("/stores/:store_id/menus", h.ListMenus)
		api.POST("/stores/:store_id/menus", h.CreateMenu)
		api.PUT("/menus/:menu_id", h.UpdateMenu)
		api.DELETE("/menus/:menu_id", h.DeleteMenu)

		// Public, unauthenticated reads for the QR-linked menu page.
		api.GET("/stores/:store_id/menu", caching, h.PublicMenu)
		api.GET("/stores/:store_id/qrcode", caching, h.StoreQRCode)

		// Queue tickets
		api.POST("/stores/:store_id/queues", h.CreateTicket)
		api.GET("/stores/:store_id/queues", h.GetBoard)
		api.PATCH("/queues/:queue_id/ready", h.MarkReady)
		api.PATCH("/queues/:queue_id/complete", h.MarkComplete)
		api.DELETE("/queues/:queue_id", h.DeleteTicket)

		// Push recipients
		api.POST("/notifications", h.RegisterNotification)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		// Image assets
		api.POST("/images", h.UploadImage)
		api.DELETE("/images", h.DeleteImage)
	}

	return r
}
