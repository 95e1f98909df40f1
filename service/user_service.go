package service

import (
	"context"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
	"github.com/Tin21habesha/primetrade.ai-backend/ports"
)

// UserService exposes the admin-only account management surface.
type UserService struct {
	principals ports.PrincipalStore
	sessions   ports.SessionStore
}

// NewUserService creates a user service.
func NewUserService(principals ports.PrincipalStore, sessions ports.SessionStore) *UserService {
	return &UserService{principals: principals, sessions: sessions}
}

// List returns a summary of every account.
func (s *UserService) List(ctx context.Context) ([]PrincipalSummary, error) {
	all, err := s.principals.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PrincipalSummary, 0, len(all))
	for _, p := range all {
		out = append(out, PrincipalSummary{ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role})
	}
	return out, nil
}

// Get returns one account summary by id.
func (s *UserService) Get(ctx context.Context, id string) (*PrincipalSummary, error) {
	if id == "" {
		return nil, core.NewError(core.KindValidation, "user id is required")
	}
	p, err := s.principals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, core.ErrNotFound
	}
	return &PrincipalSummary{ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role}, nil
}

// Delete removes an account and revokes all of its sessions so any
// outstanding refresh credentials become unusable.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return core.NewError(core.KindValidation, "user id is required")
	}
	p, err := s.principals.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return core.ErrNotFound
	}
	if _, err := s.sessions.RevokeAll(ctx, id); err != nil {
		return err
	}
	return s.principals.Delete(ctx, id)
}
