package httpserver

import (
	"net/http"

	"healside/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// newSession mints a guest session id. Clients send it back in the
// X-Session-Id header to address their cart before logging in.
func (h *handlers) newSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"sessionId": uuid.NewString()})
}

func (h *handlers) getCart(c *gin.Context) {
	view, err := h.deps.Carts.Get(c.Request.Context(), identity(c))
	if err != nil {
		if err == domain.ErrNotFound {
			// No cart yet reads as an empty one.
			c.JSON(http.StatusOK, gin.H{"items": []domain.CartItem{}, "totalCents": 0})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type addCartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "productId required")
		return
	}
	item, err := h.deps.Carts.AddItem(c.Request.Context(), identity(c), req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *handlers) updateCartItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity required")
		return
	}
	item, err := h.deps.Carts.UpdateItemQuantity(c.Request.Context(), id, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deps.Carts.RemoveItem(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) clearCart(c *gin.Context) {
	if err := h.deps.Carts.Clear(c.Request.Context(), identity(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
