// Package state holds the client-side application state: the signed-in
// user, the active chat selection and the per-listing filters. All
// mutations go through named methods so tests can drive the app
// deterministically.
package state

import (
	"sync"

	"crm-console/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	user          *domain.User
	authenticated bool

	activeChat domain.ChatSelection

	// filters and page are keyed by listing name ("customers", "orders", ...).
	filters map[string]map[string]string
	page    map[string]int
}

func NewStore() *Store {
	return &Store{
		filters: make(map[string]map[string]string),
		page:    make(map[string]int),
	}
}

// ── session ──

func (s *Store) SetSession(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.authenticated = user != nil
}

// ClearSession wipes everything tied to the signed-in user, including the
// chat selection and any remembered filters.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.activeChat = domain.ChatSelection{}
	s.filters = make(map[string]map[string]string)
	s.page = make(map[string]int)
}

func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && (s.user.Role == domain.RoleAdmin || s.user.Role == domain.RoleManager)
}

// ── chat selection ──

func (s *Store) SelectChat(sel domain.ChatSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeChat = sel
}

func (s *Store) ActiveChat() domain.ChatSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeChat
}

// ── listing filters ──

func (s *Store) SetFilter(listing, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.filters[listing]
	if m == nil {
		m = make(map[string]string)
		s.filters[listing] = m
	}
	if value == "" {
		delete(m, key)
	} else {
		m[key] = value
	}
	// Changing a filter always snaps back to the first page.
	s.page[listing] = 1
}

func (s *Store) ResetFilters(listing string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.filters, listing)
	s.page[listing] = 1
}

func (s *Store) Filters(listing string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.filters[listing]))
	for k, v := range s.filters[listing] {
		out[k] = v
	}
	return out
}

func (s *Store) SetPage(listing string, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.page[listing] = page
}

func (s *Store) Page(listing string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.page[listing]; p > 0 {
		return p
	}
	return 1
}
