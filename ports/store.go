package ports

import (
	"context"
	"time"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
)

// SessionStore persists one record per issued refresh credential. All mutation
// goes through its atomic primitives; callers never cache records across calls.
type SessionStore interface {
	// Create inserts a new active record and returns its identifier.
	Create(ctx context.Context, principalID, secretHash string, expiresAt time.Time) (string, error)

	// FindActive returns every non-revoked record owned by the principal.
	// Callers additionally filter by expiry.
	FindActive(ctx context.Context, principalID string) ([]core.SessionRecord, error)

	// RevokeIfActive atomically transitions active -> revoked. It returns true
	// only if the prior state was active; false means a concurrent caller
	// already consumed the record. This compare-and-swap is the sole defense
	// against double rotation and must never be retried on a false return.
	RevokeIfActive(ctx context.Context, recordID string) (bool, error)

	// RevokeAll revokes every currently-active record for the principal and
	// returns how many were revoked.
	RevokeAll(ctx context.Context, principalID string) (int64, error)
}

// PrincipalStore persists principals. Lookups return (nil, nil) when no row
// matches; uniqueness violations surface as core.KindConflict.
type PrincipalStore interface {
	Create(ctx context.Context, p *core.Principal) error
	FindByEmail(ctx context.Context, email string) (*core.Principal, error)
	FindByID(ctx context.Context, id string) (*core.Principal, error)
	List(ctx context.Context) ([]core.Principal, error)
	Delete(ctx context.Context, id string) error
}

// ProductStore persists catalog entries for the generic CRUD surface.
type ProductStore interface {
	Create(ctx context.Context, p *core.Product) error
	GetByID(ctx context.Context, id string) (*core.Product, error)
	List(ctx context.Context) ([]core.Product, error)
	Update(ctx context.Context, p *core.Product) error
	Delete(ctx context.Context, id string) error
}
