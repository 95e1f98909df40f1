package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tin21habesha/primetrade.ai-backend/ports"
)

// Cookie names carrying the two credentials.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// setAuthCookies writes both credentials as HttpOnly cookies whose max-ages
// match the credential lifetimes. Secure is set outside development so the
// cookies only travel over TLS.
func setAuthCookies(c *gin.Context, pair ports.TokenPair, accessTTL, refreshTTL int, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessCookie, pair.AccessToken, accessTTL, "/", "", secure, true)
	c.SetCookie(RefreshCookie, pair.RefreshToken, refreshTTL, "/", "", secure, true)
}

// clearAuthCookies expires both credential cookies.
func clearAuthCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", "", secure, true)
}
