package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/babel-30/sugarplum-backend/internal/application/catalog"
	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
)

// AdminProductHandler serves the admin product dashboard and flag edits
type AdminProductHandler struct {
	BaseHandler
	listings *appcatalog.ListingService
}

// NewAdminProductHandler creates a new AdminProductHandler
func NewAdminProductHandler(listings *appcatalog.ListingService) *AdminProductHandler {
	return &AdminProductHandler{listings: listings}
}

// List handles GET /admin/products
func (h *AdminProductHandler) List(c *gin.Context) {
	products, err := h.listings.AdminProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"products": products})
}

// flagUpdateEntry is one product's flag edit in a batch
type flagUpdateEntry struct {
	ID    string               `json:"id" binding:"required"`
	Flags catalog.FlagsUpdate  `json:"flags"`
}

// flagUpdateRequest is the batch flag edit payload
type flagUpdateRequest struct {
	Products []flagUpdateEntry `json:"products" binding:"required"`
}

// UpdateFlags handles PUT /admin/products. Each entry merges onto the
// item's stored flags; entries without an id are skipped.
func (h *AdminProductHandler) UpdateFlags(c *gin.Context) {
	var req flagUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	updated := make(map[string]catalog.Flags, len(req.Products))
	for _, entry := range req.Products {
		if entry.ID == "" {
			continue
		}
		merged, err := h.listings.UpdateFlags(ctx, entry.ID, entry.Flags)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		updated[entry.ID] = merged
	}
	h.Success(c, gin.H{"flags": updated})
}
