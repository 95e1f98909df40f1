package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
)

func TestMemorySessions_RevokeIfActive_Once(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	id, err := m.Sessions().Create(ctx, "p-1", "hash", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claimed, err := m.Sessions().RevokeIfActive(ctx, id)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = m.Sessions().RevokeIfActive(ctx, id)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestMemorySessions_RevokeIfActive_ConcurrentSingleWinner(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	id, err := m.Sessions().Create(ctx, "p-1", "hash", time.Now().Add(time.Hour))
	require.NoError(t, err)

	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := m.Sessions().RevokeIfActive(ctx, id)
			assert.NoError(t, err)
			wins <- claimed
		}()
	}
	wg.Wait()
	close(wins)

	var winners int
	for claimed := range wins {
		if claimed {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestMemorySessions_FindActive_ExcludesRevoked(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	keep, err := m.Sessions().Create(ctx, "p-1", "keep", time.Now().Add(time.Hour))
	require.NoError(t, err)
	gone, err := m.Sessions().Create(ctx, "p-1", "gone", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = m.Sessions().Create(ctx, "p-2", "other", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claimed, err := m.Sessions().RevokeIfActive(ctx, gone)
	require.NoError(t, err)
	require.True(t, claimed)

	active, err := m.Sessions().FindActive(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, keep, active[0].ID)
}

func TestMemorySessions_RevokeAll(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := m.Sessions().Create(ctx, "p-1", "hash", time.Now().Add(time.Hour))
		require.NoError(t, err)
	}
	_, err := m.Sessions().Create(ctx, "p-2", "hash", time.Now().Add(time.Hour))
	require.NoError(t, err)

	n, err := m.Sessions().RevokeAll(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// Already revoked, so a second call touches nothing.
	n, err = m.Sessions().RevokeAll(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	other, err := m.Sessions().FindActive(ctx, "p-2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestMemoryPrincipals_DuplicateEmail(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p := &core.Principal{ID: uuid.New().String(), Email: "a@example.com", Name: "A", Role: core.RoleUser}
	require.NoError(t, m.Principals().Create(ctx, p))

	dup := &core.Principal{ID: uuid.New().String(), Email: "a@example.com", Name: "B", Role: core.RoleUser}
	err := m.Principals().Create(ctx, dup)
	require.Error(t, err)
	assert.Equal(t, core.KindConflict, core.KindOf(err))
}

func TestMemoryPrincipals_LookupMissingIsNilNil(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p, err := m.Principals().FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = m.Principals().FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestMemoryProducts_CRUD(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p := &core.Product{ID: uuid.New().String(), Name: "Widget", Status: core.ProductStatusActive, CreatedAt: time.Now()}
	require.NoError(t, m.Products().Create(ctx, p))

	got, err := m.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)

	got.Name = "Gadget"
	require.NoError(t, m.Products().Update(ctx, got))

	got, err = m.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gadget", got.Name)

	require.NoError(t, m.Products().Delete(ctx, p.ID))

	_, err = m.Products().GetByID(ctx, p.ID)
	require.Error(t, err)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}
