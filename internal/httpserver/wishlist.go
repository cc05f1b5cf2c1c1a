package httpserver

import (
	"net/http"

	"healside/internal/domain"
	"github.com/gin-gonic/gin"
)

func (h *handlers) listWishlist(c *gin.Context) {
	entries, err := h.deps.Wishlist.ListByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.Wishlist{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *handlers) addToWishlist(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	entry, err := h.deps.Wishlist.Add(c.Request.Context(), currentUser(c).ID, productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *handlers) checkWishlist(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	contains, err := h.deps.Wishlist.Contains(c.Request.Context(), currentUser(c).ID, productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inWishlist": contains})
}

func (h *handlers) removeFromWishlist(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	if err := h.deps.Wishlist.Remove(c.Request.Context(), currentUser(c).ID, productID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
