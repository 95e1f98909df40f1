package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
	"github.com/Tin21habesha/primetrade.ai-backend/ports"
)

// MemoryStore is an in-memory implementation of the three store ports,
// primarily for tests. Mutation happens under one mutex, which gives the same
// atomicity guarantees the relational store gets from single UPDATE statements.
type MemoryStore struct {
	mu         sync.Mutex
	sessions   map[string]*core.SessionRecord
	principals map[string]*core.Principal
	products   map[string]*core.Product
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]*core.SessionRecord),
		principals: make(map[string]*core.Principal),
		products:   make(map[string]*core.Product),
	}
}

// Sessions returns the session-record store view.
func (m *MemoryStore) Sessions() ports.SessionStore { return &memSessions{m} }

// Principals returns the principal store view.
func (m *MemoryStore) Principals() ports.PrincipalStore { return &memPrincipals{m} }

// Products returns the product store view.
func (m *MemoryStore) Products() ports.ProductStore { return &memProducts{m} }

type memSessions struct{ *MemoryStore }

func (m *memSessions) Create(ctx context.Context, principalID, secretHash string, expiresAt time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := &core.SessionRecord{
		ID:          uuid.New().String(),
		PrincipalID: principalID,
		SecretHash:  secretHash,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now(),
	}
	m.sessions[rec.ID] = rec
	return rec.ID, nil
}

func (m *memSessions) FindActive(ctx context.Context, principalID string) ([]core.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []core.SessionRecord
	for _, rec := range m.sessions {
		if rec.PrincipalID == principalID && !rec.Revoked {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memSessions) RevokeIfActive(ctx context.Context, recordID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[recordID]
	if !ok || rec.Revoked {
		return false, nil
	}
	rec.Revoked = true
	return true, nil
}

func (m *memSessions) RevokeAll(ctx context.Context, principalID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, rec := range m.sessions {
		if rec.PrincipalID == principalID && !rec.Revoked {
			rec.Revoked = true
			n++
		}
	}
	return n, nil
}

type memPrincipals struct{ *MemoryStore }

func (m *memPrincipals) Create(ctx context.Context, p *core.Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.principals {
		if existing.Email == p.Email {
			return core.ErrDuplicateEmail
		}
	}
	cp := *p
	m.principals[p.ID] = &cp
	return nil
}

func (m *memPrincipals) FindByEmail(ctx context.Context, email string) (*core.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.principals {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPrincipals) FindByID(ctx context.Context, id string) (*core.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.principals[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPrincipals) List(ctx context.Context) ([]core.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]core.Principal, 0, len(m.principals))
	for _, p := range m.principals {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memPrincipals) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.principals[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.principals, id)
	return nil
}

type memProducts struct{ *MemoryStore }

func (m *memProducts) Create(ctx context.Context, p *core.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(ctx context.Context, id string) (*core.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) List(ctx context.Context) ([]core.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]core.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memProducts) Update(ctx context.Context, p *core.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[p.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memProducts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.products, id)
	return nil
}
