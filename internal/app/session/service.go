// Package session drives the login/logout lifecycle and decides which
// top-level view is visible.
package session

import (
	"context"
	"errors"
	"strings"

	"crm-console/internal/domain"
	"crm-console/internal/observability"
	"crm-console/internal/state"
)

// ErrCredentialsRequired rejects the login form before any backend call.
var ErrCredentialsRequired = errors.New("session: username and password are required")

type Service struct {
	backend domain.AuthBackend
	tokens  domain.TokenStore
	store   *state.Store
}

func NewService(backend domain.AuthBackend, tokens domain.TokenStore, store *state.Store) *Service {
	return &Service{backend: backend, tokens: tokens, store: store}
}

// CheckAuth resumes a persisted session: with no stored token it reports
// false immediately; otherwise /auth/me decides.
func (s *Service) CheckAuth(ctx context.Context) (bool, error) {
	if s.tokens.Token() == "" {
		s.store.ClearSession()
		return false, nil
	}

	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		s.store.ClearSession()
		return false, err
	}
	s.store.SetSession(user)
	return true, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := s.backend.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return nil, err
	}
	s.store.SetSession(user)
	return user, nil
}

// Logout notifies the backend best-effort; the local session is cleared
// regardless.
func (s *Service) Logout(ctx context.Context) {
	if err := s.backend.Logout(ctx); err != nil {
		observability.LoggerFromContext(ctx).WithError(err).Warn("logout call failed")
	}
	s.store.ClearSession()
}

// ForceLogout is the 401 path: token already cleared by the transport,
// only local state is left to wipe.
func (s *Service) ForceLogout() {
	s.store.ClearSession()
}
