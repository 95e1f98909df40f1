package ports

import "context"

// PasswordHasher produces salted one-way hashes and performs constant-time
// comparison. Implementations must yield a different hash for the same input
// on every call (fresh salt) and must bound their CPU cost so concurrent
// hashing cannot starve unrelated request handling.
type PasswordHasher interface {
	// Hash returns the salted hash of plaintext.
	Hash(ctx context.Context, plaintext string) (string, error)

	// Compare reports whether plaintext matches hashed. A malformed stored
	// hash is an internal error, not an authentication failure.
	Compare(ctx context.Context, plaintext, hashed string) (bool, error)
}
