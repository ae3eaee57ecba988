package notifications_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-console/internal/app/notifications"
	"crm-console/internal/domain"
)

type fakeBackend struct {
	mu    sync.Mutex
	items []domain.Notification

	listCalls  int
	countCalls int
}

func (f *fakeBackend) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]domain.Notification(nil), f.items...), nil
}

func (f *fakeBackend) UnreadNotificationCount(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	count := 0
	for _, n := range f.items {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeBackend) MarkNotificationRead(ctx context.Context, id domain.NotificationID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeBackend) MarkAllNotificationsRead(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		f.items[i].IsRead = true
	}
	return nil
}

func (f *fakeBackend) DeleteReadNotifications(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, n := range f.items {
		if !n.IsRead {
			kept = append(kept, n)
		}
	}
	f.items = kept
	return nil
}

func seeded() *fakeBackend {
	return &fakeBackend{items: []domain.Notification{
		{ID: 1, Title: "a", IsRead: false},
		{ID: 2, Title: "b", IsRead: false},
		{ID: 3, Title: "c", IsRead: true},
	}}
}

func TestMarkReadPatchesLocallyWithoutRefetch(t *testing.T) {
	backend := seeded()
	svc := notifications.NewService(backend)
	ctx := context.Background()

	_, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, backend.listCalls)

	list, badge, err := svc.MarkRead(ctx, 1)
	require.NoError(t, err)

	// The flag flipped in the cached list without another list fetch.
	assert.Equal(t, 1, backend.listCalls)
	assert.True(t, list[0].IsRead)
	assert.False(t, list[1].IsRead)

	// The badge equals a fresh backend count.
	fresh, err := svc.BadgeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, badge)
	assert.Equal(t, 1, badge)
}

func TestMarkAllRead(t *testing.T) {
	backend := seeded()
	svc := notifications.NewService(backend)
	ctx := context.Background()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	list, badge, err := svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, badge)
	for _, n := range list {
		assert.True(t, n.IsRead)
	}
	assert.Equal(t, 1, backend.listCalls)
}

func TestClearReadDropsLocallyAndSkipsBackendWhenNothingToClear(t *testing.T) {
	backend := seeded()
	svc := notifications.NewService(backend)
	ctx := context.Background()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	list, err := svc.ClearRead(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.False(t, n.IsRead)
	}

	// A second clear has nothing read and must not call the backend.
	before := len(backend.items)
	list, err = svc.ClearRead(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, before, len(backend.items))
}
