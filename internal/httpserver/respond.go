package httpserver

import (
	"errors"
	"net/http"

	"healside/internal/domain"
	"healside/internal/payment"
	"healside/internal/service/auth"
	"healside/internal/service/blog"
	"healside/internal/service/cart"
	"healside/internal/service/checkout"
	"healside/internal/service/newsletter"
	"healside/internal/service/product"
	"healside/internal/service/review"
	"github.com/gin-gonic/gin"
)

// respondError maps service and domain errors onto HTTP statuses. Unmapped
// errors become an opaque 500; their detail only goes to the log.
func (h *handlers) respondError(c *gin.Context, err error) {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusConflict, gin.H{
			"message":   insufficient.Error(),
			"productId": insufficient.ProductID,
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
		return
	}

	var feedErr *domain.FeedError
	if errors.As(err, &feedErr) {
		c.JSON(http.StatusBadGateway, gin.H{"message": "upstream feed unavailable"})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, checkout.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": "already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, auth.ErrNotAdmin):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, checkout.ErrPaymentNotCompleted), errors.Is(err, payment.ErrNotCompleted):
		c.JSON(http.StatusPaymentRequired, gin.H{"message": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrUnknownProvider),
		errors.Is(err, cart.ErrQuantityTooLow),
		errors.Is(err, cart.ErrNoIdentity),
		errors.Is(err, product.ErrInvalidCategory),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrNameRequired),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, blog.ErrTitleRequired),
		errors.Is(err, blog.ErrContentRequired),
		errors.Is(err, newsletter.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.logger.Printf("http: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
