package httpserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type paymentAmountRequest struct {
	AmountCents int64  `json:"amountCents" binding:"required"`
	Currency    string `json:"currency"`
}

func (h *handlers) createStripeIntent(c *gin.Context) {
	if h.deps.Stripe == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "stripe not configured"})
		return
	}
	var req paymentAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AmountCents < 1 {
		badRequest(c, "amountCents required and must be positive")
		return
	}
	intent, err := h.deps.Stripe.CreateIntent(c.Request.Context(), req.AmountCents, req.Currency)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

func (h *handlers) stripeIntentStatus(c *gin.Context) {
	if h.deps.Stripe == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "stripe not configured"})
		return
	}
	status, amountCents, err := h.deps.Stripe.IntentStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "amountCents": amountCents})
}

// stripeWebhook acknowledges signed events from Stripe. Order placement does
// its own synchronous verification; the webhook is for audit logging.
func (h *handlers) stripeWebhook(c *gin.Context) {
	if h.deps.Stripe == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "stripe not configured"})
		return
	}
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		badRequest(c, "unreadable payload")
		return
	}
	event, err := h.deps.Stripe.ParseWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		badRequest(c, "invalid signature")
		return
	}
	h.logger.Printf("stripe webhook: %s %s", event.Type, event.ID)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *handlers) createPayPalOrder(c *gin.Context) {
	if h.deps.PayPal == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "paypal not configured"})
		return
	}
	var req paymentAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AmountCents < 1 {
		badRequest(c, "amountCents required and must be positive")
		return
	}
	intent, err := h.deps.PayPal.CreateOrder(c.Request.Context(), req.AmountCents, req.Currency)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

func (h *handlers) capturePayPalOrder(c *gin.Context) {
	if h.deps.PayPal == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "paypal not configured"})
		return
	}
	orderID := c.Param("id")
	if orderID == "" {
		badRequest(c, "order id required")
		return
	}
	if err := h.deps.PayPal.Capture(c.Request.Context(), orderID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "COMPLETED"})
}
