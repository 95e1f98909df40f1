package hasher

import (
	"context"
	"errors"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
)

// BcryptHasher implements ports.PasswordHasher with bcrypt. All hashing runs
// on a bounded worker pool so a burst of logins cannot monopolize the CPU and
// starve unrelated request handling.
type BcryptHasher struct {
	cost int
	pool *ants.Pool
}

// NewBcryptHasher returns a hasher with the given bcrypt cost (clamped to the
// valid range) and at most parallelism concurrent hashing operations.
func NewBcryptHasher(cost, parallelism int) (*BcryptHasher, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(parallelism)
	if err != nil {
		return nil, core.WrapError(err, core.KindConfiguration, "create hashing pool")
	}
	return &BcryptHasher{cost: cost, pool: pool}, nil
}

// Close releases the worker pool.
func (h *BcryptHasher) Close() {
	h.pool.Release()
}

// Hash produces a salted bcrypt hash of plaintext. Every call yields a
// different output for the same input.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	var hashed []byte
	var hashErr error
	if err := h.run(ctx, func() {
		hashed, hashErr = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	}); err != nil {
		return "", err
	}
	if hashErr != nil {
		return "", core.WrapError(hashErr, core.KindUnknown, "hash password")
	}
	return string(hashed), nil
}

// Compare reports whether plaintext matches hashed. bcrypt's comparison does
// not leak timing on early byte mismatches. A mismatch is (false, nil); a
// malformed stored hash is an error, never a silent authentication failure.
func (h *BcryptHasher) Compare(ctx context.Context, plaintext, hashed string) (bool, error) {
	var cmpErr error
	if err := h.run(ctx, func() {
		cmpErr = bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	}); err != nil {
		return false, err
	}
	if cmpErr == nil {
		return true, nil
	}
	if errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, core.WrapError(cmpErr, core.KindConfiguration, "malformed stored hash")
}

// run executes fn on the bounded pool and waits for completion or context
// cancellation. A cancelled wait leaves fn running to completion in the
// background; its result is discarded.
func (h *BcryptHasher) run(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := h.pool.Submit(func() {
		defer close(done)
		fn()
	}); err != nil {
		return core.WrapError(err, core.KindUnknown, "submit to hashing pool")
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return core.WrapError(ctx.Err(), core.KindStoreUnavailable, "hashing timed out")
	}
}
