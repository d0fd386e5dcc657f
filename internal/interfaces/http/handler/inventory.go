package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/babel-30/sugarplum-backend/internal/application/inventory"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/cache"
)

// InventoryHandler applies manual stock adjustments and explicit refreshes
type InventoryHandler struct {
	BaseHandler
	adjustments *appinventory.Service
	snapshots   *cache.SnapshotCache
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(adjustments *appinventory.Service, snapshots *cache.SnapshotCache) *InventoryHandler {
	return &InventoryHandler{
		adjustments: adjustments,
		snapshots:   snapshots,
	}
}

// adjustRequest is the batch adjustment payload
type adjustRequest struct {
	Adjustments []appinventory.DeltaEntry `json:"adjustments" binding:"required"`
}

// Adjust handles POST /admin/inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.adjustments.ApplyDeltas(c.Request.Context(), req.Adjustments)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh handles POST /admin/refresh: a forced synchronous rebuild of
// both snapshot tiers, used after bulk vendor-side edits.
func (h *InventoryHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.snapshots.RefreshCatalog(ctx); err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.snapshots.RefreshInventory(ctx); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"refreshed": true})
}
