package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
	"github.com/Tin21habesha/primetrade.ai-backend/ports"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 6

// PrincipalSummary is the caller-visible projection of a principal. The
// password hash never leaves the service.
type PrincipalSummary struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  core.Role `json:"role"`
}

// AuthResult bundles an issued credential pair with its principal summary.
type AuthResult struct {
	Pair      ports.TokenPair
	Principal PrincipalSummary
}

// AuthService orchestrates login, registration, refresh rotation and logout by
// composing the tokenizer, the password hasher and the two stores. It holds no
// lock across a flow; the session store's compare-and-swap is the only replay
// defense.
type AuthService struct {
	principals ports.PrincipalStore
	sessions   ports.SessionStore
	tokenizer  ports.Tokenizer
	hasher     ports.PasswordHasher
	events     ports.EventPublisher
	log        zerolog.Logger
}

// NewAuthService creates the coordinator. events may be nil when no publisher
// is wired.
func NewAuthService(
	principals ports.PrincipalStore,
	sessions ports.SessionStore,
	tokenizer ports.Tokenizer,
	hasher ports.PasswordHasher,
	events ports.EventPublisher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		principals: principals,
		sessions:   sessions,
		tokenizer:  tokenizer,
		hasher:     hasher,
		events:     events,
		log:        log,
	}
}

// AccessTTL exposes the configured access credential lifetime.
func (s *AuthService) AccessTTL() time.Duration { return s.tokenizer.AccessTTL() }

// RefreshTTL exposes the configured refresh credential lifetime.
func (s *AuthService) RefreshTTL() time.Duration { return s.tokenizer.RefreshTTL() }

// fingerprint reduces a refresh credential to a fixed-size hex digest before
// it is bcrypt-hashed or compared. bcrypt rejects inputs over 72 bytes and a
// signed token is always longer than that.
func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Register creates a principal and immediately establishes a first session.
func (s *AuthService) Register(ctx context.Context, email, password, name string, role core.Role) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, core.ErrMissingFields
	}
	if len(password) < MinPasswordLength {
		return nil, core.NewError(core.KindValidation, "password must be at least %d characters", MinPasswordLength)
	}
	if role == "" {
		role = core.RoleUser
	}
	if !role.Valid() {
		return nil, core.NewError(core.KindValidation, "invalid role")
	}

	existing, err := s.principals.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, core.ErrDuplicateEmail
	}

	passwordHash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	principal := &core.Principal{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	// The store's uniqueness constraint closes the race between the pre-check
	// above and this insert.
	if err := s.principals.Create(ctx, principal); err != nil {
		return nil, err
	}

	return s.establishSession(ctx, principal)
}

// Login verifies the password and establishes a new session. Unknown email and
// wrong password are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, core.ErrMissingFields
	}

	principal, err := s.principals.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		return nil, core.ErrBadCredentials
	}

	match, err := s.hasher.Compare(ctx, password, principal.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, core.ErrBadCredentials
	}

	return s.establishSession(ctx, principal)
}

// establishSession issues a credential pair for the principal and persists the
// session record backing the refresh credential.
func (s *AuthService) establishSession(ctx context.Context, principal *core.Principal) (*AuthResult, error) {
	claims := core.Claims{
		PrincipalID: principal.ID,
		Name:        principal.Name,
		Role:        principal.Role,
	}

	pair, err := s.tokenizer.IssuePair(claims)
	if err != nil {
		return nil, err
	}

	secretHash, err := s.hasher.Hash(ctx, fingerprint(pair.RefreshToken))
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.Create(ctx, principal.ID, secretHash, pair.RefreshExpiresAt); err != nil {
		return nil, err
	}

	return &AuthResult{
		Pair: pair,
		Principal: PrincipalSummary{
			ID:    principal.ID,
			Name:  principal.Name,
			Email: principal.Email,
			Role:  principal.Role,
		},
	}, nil
}

// Refresh rotates a refresh credential: verify before any store access, find
// the backing record, atomically claim it, then issue a new pair. Two
// concurrent calls presenting the same credential can both pass the scan, but
// only one wins the claim; the loser fails as a replay.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, core.ErrNoActiveSession
	}

	claims, err := s.tokenizer.Verify(refreshToken, ports.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	records, err := s.sessions.FindActive(ctx, claims.PrincipalID)
	if err != nil {
		return nil, err
	}

	matched, err := s.matchRecord(ctx, refreshToken, records)
	if err != nil {
		return nil, err
	}
	if matched == nil {
		return nil, core.ErrNoActiveSession
	}

	claimed, err := s.sessions.RevokeIfActive(ctx, matched.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// A concurrent refresh already consumed this exact credential.
		s.log.Warn().
			Str("principal_id", claims.PrincipalID).
			Str("record_id", matched.ID).
			Msg("refresh token replay detected")
		return nil, core.ErrReplayed
	}

	principal, err := s.principals.FindByID(ctx, claims.PrincipalID)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		return nil, core.ErrNoActiveSession
	}

	return s.establishSession(ctx, principal)
}

// matchRecord scans the unexpired records sequentially, comparing the
// presented credential's fingerprint against each stored hash. Hashed secrets
// cannot be indexed, so the scan is unavoidable; sequential order makes the
// winner deterministic.
func (s *AuthService) matchRecord(ctx context.Context, refreshToken string, records []core.SessionRecord) (*core.SessionRecord, error) {
	now := time.Now()
	fp := fingerprint(refreshToken)
	for i := range records {
		rec := records[i]
		if !rec.Usable(now) {
			continue
		}
		match, err := s.hasher.Compare(ctx, fp, rec.SecretHash)
		if err != nil {
			return nil, err
		}
		if match {
			return &rec, nil
		}
	}
	return nil, nil
}

// Logout revokes every session record for the token's principal. The token is
// decoded without signature verification so an expired or near-expiry
// credential is still revocable; a missing or garbled token is an idempotent
// no-op success.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.tokenizer.Decode(refreshToken)
	if err != nil || claims.PrincipalID == "" {
		return nil
	}

	revoked, err := s.sessions.RevokeAll(ctx, claims.PrincipalID)
	if err != nil {
		return err
	}

	if s.events != nil && revoked > 0 {
		if err := s.events.PublishLogout(ctx, claims.PrincipalID, revoked); err != nil {
			// Sessions are already revoked, which is the part that matters.
			s.log.Warn().Err(err).Msg("failed to publish logout event")
		}
	}

	return nil
}

// CurrentSession verifies an access credential and returns its claims. Access
// credentials are stateless: this path never touches the session store.
func (s *AuthService) CurrentSession(accessToken string) (core.Claims, error) {
	if accessToken == "" {
		return core.Claims{}, core.ErrUnauthorized
	}
	claims, err := s.tokenizer.Verify(accessToken, ports.TokenKindAccess)
	if err != nil {
		return core.Claims{}, core.WrapError(err, core.KindAuthentication, "invalid access token")
	}
	return claims, nil
}
