package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/babel-30/sugarplum-backend/internal/domain/shop"
)

// ShopHandler serves and updates the shop-wide settings (banner, popup,
// shipping rates). Reads are public, the storefront polls them; writes
// are admin.
type ShopHandler struct {
	BaseHandler
	settings shop.Repository
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(settings shop.Repository) *ShopHandler {
	return &ShopHandler{settings: settings}
}

// Get handles GET /config
func (h *ShopHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// Update handles PUT /admin/config. Partial edits merge onto the stored
// settings; omitted fields keep their values.
func (h *ShopHandler) Update(c *gin.Context) {
	var update shop.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	current, err := h.settings.Get(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	merged := current.Apply(update)
	if err := h.settings.Save(ctx, merged); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"config": merged})
}
