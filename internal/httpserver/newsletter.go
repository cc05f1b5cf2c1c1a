package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type newsletterRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *handlers) subscribeNewsletter(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email required")
		return
	}
	sub, err := h.deps.Newsletter.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *handlers) unsubscribeNewsletter(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email required")
		return
	}
	if err := h.deps.Newsletter.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed"})
}
