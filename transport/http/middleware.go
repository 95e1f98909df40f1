package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
	"github.com/Tin21habesha/primetrade.ai-backend/ports"
	"github.com/Tin21habesha/primetrade.ai-backend/service"
)

// claimsKey is the gin context key the auth middleware stores claims under.
const claimsKey = "sessionClaims"

// RequestLogger emits one structured line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// RequireAuth validates the access credential from the access cookie, falling
// back to a Bearer Authorization header, and stores the claims on the context.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			abortWithError(c, core.ErrUnauthorized)
			return
		}

		claims, err := auth.CurrentSession(token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole allows the request only when the authenticated principal holds
// the given role. Must run after RequireAuth.
func RequireRole(role core.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c)
		if !ok || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// accessToken extracts the access credential from the cookie or, when absent,
// from a Bearer Authorization header.
func accessToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// sessionClaims reads the claims stored by RequireAuth.
func sessionClaims(c *gin.Context) (core.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return core.Claims{}, false
	}
	claims, ok := v.(core.Claims)
	return claims, ok
}

// cachedWriter tees the response body so a successful read can be cached.
type cachedWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *cachedWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

// CacheResponses serves idempotent GET responses from the cache for ttl.
// Cache failures fall through to the handler; the cache is an accelerator,
// never a dependency.
func CacheResponses(cache ports.ResponseCache, ttl time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.Method + ":" + c.Request.URL.RequestURI()
		if payload, ok, err := cache.Get(c.Request.Context(), key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		} else if ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			c.Abort()
			return
		}

		writer := &cachedWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() == http.StatusOK && len(writer.body) > 0 {
			if err := cache.Set(c.Request.Context(), key, writer.body, ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
		}
	}
}
