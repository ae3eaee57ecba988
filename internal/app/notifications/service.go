// Package notifications manages the notification list and the unread
// badge. Read-marking is the one place the app patches local state instead
// of re-fetching; the badge count always comes from the backend.
package notifications

import (
	"context"
	"sync"

	"crm-console/internal/domain"
)

type Service struct {
	backend domain.NotificationBackend

	mu      sync.Mutex
	current []domain.Notification
}

func NewService(backend domain.NotificationBackend) *Service {
	return &Service{backend: backend}
}

// Load fetches the full list, replacing the local copy.
func (s *Service) Load(ctx context.Context) ([]domain.Notification, error) {
	list, err := s.backend.ListNotifications(ctx, false, 0)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = list
	s.mu.Unlock()
	return s.snapshot(), nil
}

// MarkRead flips the notification on the backend, patches the local flag
// without re-fetching the list, then returns a fresh backend badge count.
func (s *Service) MarkRead(ctx context.Context, id domain.NotificationID) ([]domain.Notification, int, error) {
	if err := s.backend.MarkNotificationRead(ctx, id); err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	for i := range s.current {
		if s.current[i].ID == id {
			s.current[i].IsRead = true
			break
		}
	}
	s.mu.Unlock()

	count, err := s.backend.UnreadNotificationCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.snapshot(), count, nil
}

// MarkAllRead is the bulk variant of MarkRead.
func (s *Service) MarkAllRead(ctx context.Context) ([]domain.Notification, int, error) {
	if err := s.backend.MarkAllNotificationsRead(ctx); err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	for i := range s.current {
		s.current[i].IsRead = true
	}
	s.mu.Unlock()

	count, err := s.backend.UnreadNotificationCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.snapshot(), count, nil
}

// ClearRead deletes read notifications server-side and drops them from the
// local list.
func (s *Service) ClearRead(ctx context.Context) ([]domain.Notification, error) {
	s.mu.Lock()
	readCount := 0
	for i := range s.current {
		if s.current[i].IsRead {
			readCount++
		}
	}
	s.mu.Unlock()
	if readCount == 0 {
		return s.snapshot(), nil
	}

	if err := s.backend.DeleteReadNotifications(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	kept := s.current[:0]
	for _, n := range s.current {
		if !n.IsRead {
			kept = append(kept, n)
		}
	}
	s.current = kept
	s.mu.Unlock()
	return s.snapshot(), nil
}

// BadgeCount asks the backend for the unread count; it is never computed
// from the local list.
func (s *Service) BadgeCount(ctx context.Context) (int, error) {
	return s.backend.UnreadNotificationCount(ctx)
}

func (s *Service) snapshot() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.current...)
}
