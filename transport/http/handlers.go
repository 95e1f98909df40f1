package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
	"github.com/Tin21habesha/primetrade.ai-backend/service"
)

// AuthHandlers serves the session endpoints.
type AuthHandlers struct {
	auth    *service.AuthService
	metrics *Metrics
	secure  bool
}

// NewAuthHandlers creates the auth handlers. secure controls the Secure
// attribute on credential cookies; metrics may be nil.
func NewAuthHandlers(auth *service.AuthService, metrics *Metrics, secure bool) *AuthHandlers {
	return &AuthHandlers{auth: auth, metrics: metrics, secure: secure}
}

// issue writes the credential cookies and the response body for a fresh pair.
func (h *AuthHandlers) issue(c *gin.Context, status int, result *service.AuthResult) {
	accessTTL := int(h.auth.AccessTTL().Seconds())
	refreshTTL := int(h.auth.RefreshTTL().Seconds())
	setAuthCookies(c, result.Pair, accessTTL, refreshTTL, h.secure)

	c.JSON(status, gin.H{
		"user":          result.Principal,
		"access_token":  result.Pair.AccessToken,
		"refresh_token": result.Pair.RefreshToken,
	})
}

// Register creates an account and logs it in.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req struct {
		Name     string    `json:"name"`
		Email    string    `json:"email"`
		Password string    `json:"password"`
		Role     core.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, core.ErrMissingFields)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.issue(c, http.StatusCreated, result)
}

// Login authenticates with email and password.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, core.ErrMissingFields)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.issue(c, http.StatusOK, result)
}

// Refresh rotates the refresh credential from its cookie.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	token, _ := c.Cookie(RefreshCookie)

	result, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		if h.metrics != nil && core.IsExactly(err, core.ErrReplayed) {
			h.metrics.ObserveReplay()
		}
		// Only a dead credential warrants dropping the cookies. A transient
		// store failure must leave them intact so the client can retry.
		switch core.KindOf(err) {
		case core.KindSessionInvalid, core.KindSessionExpired, core.KindAuthentication:
			clearAuthCookies(c, h.secure)
		}
		abortWithError(c, err)
		return
	}

	h.issue(c, http.StatusOK, result)
}

// Logout revokes every session of the cookie's principal and clears the
// cookies. Succeeds even without a valid credential.
func (h *AuthHandlers) Logout(c *gin.Context) {
	token, _ := c.Cookie(RefreshCookie)

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		abortWithError(c, err)
		return
	}

	clearAuthCookies(c, h.secure)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// CurrentUser returns the identity inside a valid access credential.
func (h *AuthHandlers) CurrentUser(c *gin.Context) {
	claims, err := h.auth.CurrentSession(accessToken(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":   claims.PrincipalID,
		"name": claims.Name,
		"role": claims.Role,
	}})
}
