package httpserver

import (
	"encoding/json"
	"net/http"
	"net/url"

	userrepo "healside/internal/repository/user"
	"healside/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type loginRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	SessionID string `json:"sessionId"`
}

type authResponse struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

func (h *handlers) register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, token, err := h.deps.Auth.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password required")
		return
	}
	user, token, err := h.deps.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.mergeGuestCart(c, req.SessionID, user.ID)
	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

func (h *handlers) adminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password required")
		return
	}
	user, token, err := h.deps.Auth.LoginAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

func (h *handlers) currentUser(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

type updateProfileRequest struct {
	Name            *string `json:"name"`
	Address         *string `json:"address"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	Country         *string `json:"country"`
	ZipCode         *string `json:"zipCode"`
	Phone           *string `json:"phone"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user := currentUser(c)
	updated, err := h.deps.Users.UpdateProfile(c.Request.Context(), user.ID, userrepo.UpdateProfileInput{
		Name:            req.Name,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		Country:         req.Country,
		ZipCode:         req.ZipCode,
		Phone:           req.Phone,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) googleRedirect(c *gin.Context) {
	if h.deps.Google == nil || !h.deps.Google.Enabled() {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "google sign-in not configured"})
		return
	}
	state := uuid.NewString()
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.deps.Google.AuthURL(state))
}

func (h *handlers) googleCallback(c *gin.Context) {
	if h.deps.Google == nil || !h.deps.Google.Enabled() {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "google sign-in not configured"})
		return
	}
	if !h.checkOAuthState(c, c.Query("state")) {
		return
	}
	code := c.Query("code")
	if code == "" {
		badRequest(c, "missing authorization code")
		return
	}
	profile, err := h.deps.Google.Exchange(c.Request.Context(), code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.finishSocialLogin(c, profile)
}

func (h *handlers) appleRedirect(c *gin.Context) {
	if h.deps.Apple == nil || !h.deps.Apple.Enabled() {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "apple sign-in not configured"})
		return
	}
	state := uuid.NewString()
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.deps.Apple.AuthURL(state))
}

// appleCallback receives Apple's form_post response.
func (h *handlers) appleCallback(c *gin.Context) {
	if h.deps.Apple == nil || !h.deps.Apple.Enabled() {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "apple sign-in not configured"})
		return
	}
	if !h.checkOAuthState(c, c.PostForm("state")) {
		return
	}
	code := c.PostForm("code")
	if code == "" {
		badRequest(c, "missing authorization code")
		return
	}
	profile, err := h.deps.Apple.Exchange(c.Request.Context(), code, appleUserName(c.PostForm("user")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.finishSocialLogin(c, profile)
}

func (h *handlers) finishSocialLogin(c *gin.Context, profile auth.Profile) {
	user, token, err := h.deps.Auth.LoginSocial(c.Request.Context(), profile)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if h.deps.FrontendURL != "" {
		c.Redirect(http.StatusTemporaryRedirect,
			h.deps.FrontendURL+"/auth/callback?token="+url.QueryEscape(token))
		return
	}
	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

func (h *handlers) checkOAuthState(c *gin.Context, state string) bool {
	saved, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != saved {
		badRequest(c, "invalid oauth state")
		return false
	}
	return true
}

func (h *handlers) mergeGuestCart(c *gin.Context, sessionID string, userID int64) {
	if sessionID == "" {
		sessionID = c.GetHeader(sessionHeader)
	}
	if err := h.deps.Carts.MergeGuestCart(c.Request.Context(), sessionID, userID); err != nil {
		h.logger.Printf("http: merge guest cart for user %d: %v", userID, err)
	}
}

func (h *handlers) listUsers(c *gin.Context) {
	users, err := h.deps.Users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// appleUserName pulls the display name out of the user JSON Apple includes
// on first authorization only.
func appleUserName(raw string) string {
	if raw == "" {
		return ""
	}
	var payload struct {
		Name struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"name"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ""
	}
	name := payload.Name.FirstName
	if payload.Name.LastName != "" {
		if name != "" {
			name += " "
		}
		name += payload.Name.LastName
	}
	return name
}
