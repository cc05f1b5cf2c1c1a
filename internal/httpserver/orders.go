package httpserver

import (
	"net/http"
	"strconv"

	"healside/internal/domain"
	"healside/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

func (h *handlers) placeOrder(c *gin.Context) {
	var req checkout.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Provider == "" || req.PaymentID == "" {
		badRequest(c, "provider and paymentId required")
		return
	}
	order, err := h.deps.Checkout.Place(c.Request.Context(), currentUser(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handlers) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.deps.Orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	user := currentUser(c)
	if order.UserID != user.ID && !user.IsAdmin {
		// Hide other users' orders rather than admitting they exist.
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}
	items, err := h.deps.Orders.Items(c.Request.Context(), order.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	order.Items = items
	c.JSON(http.StatusOK, order)
}

func (h *handlers) listAllOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	orders, err := h.deps.Orders.List(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *handlers) updateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status required")
		return
	}
	if !validOrderStatus(req.Status) {
		badRequest(c, "unknown status")
		return
	}
	order, err := h.deps.Orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	orderCount, salesCents, err := h.deps.Orders.Stats(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	userCount, err := h.deps.Users.Count(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	productCount, err := h.deps.Products.Count(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	lowStock, err := h.deps.Products.LowStock(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	recent, err := h.deps.Orders.List(ctx, 5)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if lowStock == nil {
		lowStock = []domain.Product{}
	}
	if recent == nil {
		recent = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"orderCount":      orderCount,
		"totalSalesCents": salesCents,
		"userCount":       userCount,
		"productCount":    productCount,
		"lowStockCount":   len(lowStock),
		"lowStock":        lowStock,
		"recentOrders":    recent,
	})
}

func validOrderStatus(s string) bool {
	switch s {
	case domain.OrderStatusPending, domain.OrderStatusPaid, domain.OrderStatusShipped,
		domain.OrderStatusDelivered, domain.OrderStatusCancelled:
		return true
	}
	return false
}
