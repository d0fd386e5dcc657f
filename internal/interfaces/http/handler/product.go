package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/babel-30/sugarplum-backend/internal/application/catalog"
)

// ProductHandler serves the storefront and kiosk product listings
type ProductHandler struct {
	BaseHandler
	listings *appcatalog.ListingService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(listings *appcatalog.ListingService) *ProductHandler {
	return &ProductHandler{listings: listings}
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.listings.StorefrontProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"products": products})
}

// ListKiosk handles GET /kiosk/products
func (h *ProductHandler) ListKiosk(c *gin.Context) {
	products, err := h.listings.KioskProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"products": products})
}
