package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/babel-30/sugarplum-backend/internal/application/order"
)

// OrderHandler serves the admin order dashboard
type OrderHandler struct {
	BaseHandler
	orders *apporder.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *apporder.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /admin/orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListRecent(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"orders": orders})
}

// Get handles GET /admin/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}
	detail, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// Update handles PUT /admin/orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req apporder.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	detail, err := h.orders.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

func (h *OrderHandler) orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.BadRequest(c, "Invalid order id")
		return 0, false
	}
	return uint(id), true
}
