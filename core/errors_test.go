package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(ErrDuplicateEmail))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestWrapError_PreservesKindAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(cause, KindStoreUnavailable, "query %s", "principals")

	assert.Equal(t, KindStoreUnavailable, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "query principals")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapError_NilCause(t *testing.T) {
	assert.Nil(t, WrapError(nil, KindUnknown, "whatever"))
}

func TestIs_MatchesByKindAcrossWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrReplayed)
	assert.ErrorIs(t, wrapped, ErrNoActiveSession) // same kind
	assert.NotErrorIs(t, wrapped, ErrBadCredentials)
}

func TestIsExactly_MatchesTheOneSentinelOnly(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrReplayed)
	assert.True(t, IsExactly(wrapped, ErrReplayed))

	// Same kind, different sentinel: kind-based Is matches, identity does not.
	assert.True(t, errors.Is(ErrNoActiveSession, ErrReplayed))
	assert.False(t, IsExactly(ErrNoActiveSession, ErrReplayed))
	assert.False(t, IsExactly(nil, ErrReplayed))
}
