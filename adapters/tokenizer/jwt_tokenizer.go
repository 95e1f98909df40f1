package tokenizer

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
	"github.com/Tin21habesha/primetrade.ai-backend/ports"
)

const (
	// AudienceAccess and AudienceRefresh pin a token to its kind. A refresh
	// credential presented where an access credential is expected fails
	// verification even before the secret mismatch is noticed.
	AudienceAccess  = "session:access"
	AudienceRefresh = "session:refresh"
)

// Config holds the signing material and lifetimes for both credential types.
// Access and refresh secrets are independent and must both be set.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// JWTTokenizer implements ports.Tokenizer with HS256-signed JWTs.
type JWTTokenizer struct {
	cfg Config
}

// NewJWTTokenizer validates the signing configuration once at construction.
// Missing secrets are a fatal configuration error, raised here rather than on
// the first request.
func NewJWTTokenizer(cfg Config) (*JWTTokenizer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, core.ErrSecretsUnset
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, core.NewError(core.KindConfiguration, "access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &JWTTokenizer{cfg: cfg}, nil
}

// AccessTTL returns the configured access credential lifetime.
func (t *JWTTokenizer) AccessTTL() time.Duration { return t.cfg.AccessTTL }

// RefreshTTL returns the configured refresh credential lifetime.
func (t *JWTTokenizer) RefreshTTL() time.Duration { return t.cfg.RefreshTTL }

// IssuePair signs a fresh access+refresh pair for the claims. Each credential
// gets its own JTI, secret, audience and expiry.
func (t *JWTTokenizer) IssuePair(claims core.Claims) (ports.TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(t.cfg.AccessTTL)
	refreshExpiry := now.Add(t.cfg.RefreshTTL)

	access, err := t.sign(claims, AudienceAccess, t.cfg.AccessSecret, now, accessExpiry)
	if err != nil {
		return ports.TokenPair{}, core.WrapError(err, core.KindUnknown, "sign access token")
	}

	refresh, err := t.sign(claims, AudienceRefresh, t.cfg.RefreshSecret, now, refreshExpiry)
	if err != nil {
		return ports.TokenPair{}, core.WrapError(err, core.KindUnknown, "sign refresh token")
	}

	return ports.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

func (t *JWTTokenizer) sign(claims core.Claims, audience, secret string, now, expiry time.Time) (string, error) {
	sc := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.PrincipalID,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
			Issuer:    t.cfg.Issuer,
		},
		Name: claims.Name,
		Role: claims.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sc)
	return token.SignedString([]byte(secret))
}

// Verify checks signature, audience and expiry for the given kind and returns
// the embedded claims. Expiry is reported distinctly from any other defect.
func (t *JWTTokenizer) Verify(tokenStr string, kind ports.TokenKind) (core.Claims, error) {
	secret, audience := t.cfg.AccessSecret, AudienceAccess
	if kind == ports.TokenKindRefresh {
		secret, audience = t.cfg.RefreshSecret, AudienceRefresh
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, core.NewError(core.KindSessionInvalid, "unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithAudience(audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return core.Claims{}, core.WrapError(err, core.KindSessionExpired, "token expired")
		}
		return core.Claims{}, core.WrapError(err, core.KindSessionInvalid, "invalid token")
	}
	if !token.Valid {
		return core.Claims{}, core.NewError(core.KindSessionInvalid, "invalid token")
	}

	return claims.toCore(), nil
}

// Decode extracts claims without verifying the signature. Only the logout path
// uses this, so an expired or tampered credential is still revocable.
func (t *JWTTokenizer) Decode(tokenStr string) (core.Claims, error) {
	claims := &SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return core.Claims{}, core.WrapError(err, core.KindSessionInvalid, "malformed token")
	}
	return claims.toCore(), nil
}

func (c *SessionClaims) toCore() core.Claims {
	return core.Claims{
		PrincipalID: c.Subject,
		Name:        c.Name,
		Role:        c.Role,
	}
}
