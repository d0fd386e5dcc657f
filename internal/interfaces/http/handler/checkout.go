package handler

import (
	"github.com/gin-gonic/gin"

	appcheckout "github.com/babel-30/sugarplum-backend/internal/application/checkout"
)

// CheckoutHandler accepts storefront checkout submissions
type CheckoutHandler struct {
	BaseHandler
	checkout *appcheckout.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout *appcheckout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req appcheckout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.checkout.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
