package tokenizer

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
)

// SessionClaims combines standard claims with the identity payload embedded in
// both credential types. Subject carries the principal id.
type SessionClaims struct {
	jwt.RegisteredClaims
	Name string    `json:"name"`
	Role core.Role `json:"role"`
}
