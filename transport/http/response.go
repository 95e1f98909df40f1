package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
)

// CodeRefreshExpired distinguishes an elapsed refresh credential from other
// 401s so clients know to re-login instead of retrying the rotation.
const CodeRefreshExpired = "REFRESH_TOKEN_EXPIRED"

// abortWithError maps a typed service error to a status code and a safe
// client-facing body. Causes are logged but never serialized.
func abortWithError(c *gin.Context, err error) {
	kind := core.KindOf(err)

	var message string
	var ce *core.Error
	if errors.As(err, &ce) {
		message = ce.Message
	} else {
		message = "internal error"
	}

	status := http.StatusInternalServerError
	body := gin.H{"error": message}

	switch kind {
	case core.KindValidation:
		status = http.StatusBadRequest
	case core.KindAuthentication, core.KindSessionInvalid:
		status = http.StatusUnauthorized
	case core.KindSessionExpired:
		status = http.StatusUnauthorized
		body["code"] = CodeRefreshExpired
	case core.KindConflict:
		status = http.StatusConflict
	case core.KindNotFound:
		status = http.StatusNotFound
	case core.KindStoreUnavailable:
		status = http.StatusServiceUnavailable
	default:
		// Internal detail stays in the logs.
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		body = gin.H{"error": "internal error"}
	}

	c.AbortWithStatusJSON(status, body)
}
