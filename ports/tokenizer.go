package ports

import (
	"time"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
)

// TokenKind distinguishes the two credential types. Access and refresh
// credentials are signed with independent secrets and lifetimes and must never
// be interchanged.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPair is one issued access+refresh credential pair.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Tokenizer signs and verifies the two credential types. It owns no persistent
// state; it is a pure function of its secrets and the given claims.
type Tokenizer interface {
	// IssuePair signs a fresh access+refresh pair for the claims.
	IssuePair(claims core.Claims) (TokenPair, error)

	// Verify checks signature, structure and expiry for the given kind. It
	// fails with core.KindSessionExpired when the TTL elapsed and
	// core.KindSessionInvalid when the signature or structure is wrong.
	Verify(token string, kind TokenKind) (core.Claims, error)

	// Decode extracts claims without verifying the signature. Only the logout
	// path uses this, so that an expired credential is still revocable.
	Decode(token string) (core.Claims, error)

	// AccessTTL and RefreshTTL expose the configured lifetimes so the
	// transport can align cookie max-ages with them.
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}
