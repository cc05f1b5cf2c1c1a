package httpserver

import (
	"net/http"
	"strings"

	"healside/internal/domain"
	cartrepo "healside/internal/repository/cart"
	"github.com/gin-gonic/gin"
)

const (
	sessionHeader  = "X-Session-Id"
	ctxUserKey     = "currentUser"
	ctxIdentityKey = "cartIdentity"
)

// requireAuth loads the bearer token's user into the request context.
func (h *handlers) requireAuth(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}
	user, err := h.deps.Auth.Lookup(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}
	c.Set(ctxUserKey, user)
	c.Next()
}

// requireAdmin rejects non-admin users; it runs after requireAuth.
func (h *handlers) requireAdmin(c *gin.Context) {
	user := currentUser(c)
	if user == nil || !user.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin privileges required"})
		return
	}
	c.Next()
}

// cartIdentity resolves who owns the cart: a logged-in user when a valid
// bearer token is present, otherwise the guest session header.
func (h *handlers) cartIdentity(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		if user, err := h.deps.Auth.Lookup(c.Request.Context(), token); err == nil {
			c.Set(ctxUserKey, user)
			c.Set(ctxIdentityKey, cartrepo.Identity{UserID: &user.ID})
			c.Next()
			return
		}
	}
	if session := strings.TrimSpace(c.GetHeader(sessionHeader)); session != "" {
		c.Set(ctxIdentityKey, cartrepo.Identity{SessionID: &session})
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "login or X-Session-Id header required"})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func identity(c *gin.Context) cartrepo.Identity {
	v, ok := c.Get(ctxIdentityKey)
	if !ok {
		return cartrepo.Identity{}
	}
	id, _ := v.(cartrepo.Identity)
	return id
}
