package render_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"crm-console/internal/domain"
	"crm-console/internal/render"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRelativeTime(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "now"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{2 * 24 * time.Hour, "2d"},
		{30 * 24 * time.Hour, "2025-05-02"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, render.RelativeTime(now, now.Add(-tc.age)))
	}
}

func TestPreviewTruncates(t *testing.T) {
	assert.Equal(t, "short", render.Preview("short", 50))
	long := make([]rune, 60)
	for i := range long {
		long[i] = 'x'
	}
	got := render.Preview(string(long), 50)
	assert.Len(t, []rune(got), 53)
	assert.Equal(t, "...", got[len(got)-3:])
}

func TestConversationLineShowsUnreadBadge(t *testing.T) {
	conv := domain.Conversation{
		Kind:          domain.ChatDirect,
		OtherUserName: "Sara",
		UnreadCount:   2,
		LastMessage:   "see you then",
	}
	line := render.ConversationLine(conv, now)
	assert.Contains(t, line, "Sara")
	assert.Contains(t, line, "(2)")
	assert.Contains(t, line, "see you then")

	conv.UnreadCount = 0
	line = render.ConversationLine(conv, now)
	assert.NotContains(t, line, "(2)")
}

func TestMessageLinesSenderOnlyInGroups(t *testing.T) {
	msgs := []domain.Message{
		{SenderName: "Omar", Content: "hello", CreatedAt: now},
		{IsOwn: true, Content: "hi", CreatedAt: now},
	}

	group := render.MessageLines(msgs, domain.ChatGroup, now)
	assert.Contains(t, group[0], "Omar")
	assert.Contains(t, group[1], "me")

	direct := render.MessageLines(msgs, domain.ChatDirect, now)
	assert.NotContains(t, direct[0], "Omar")
}

func TestNotificationLineUnreadMarker(t *testing.T) {
	n := domain.Notification{Title: "Task due", Message: "Ship it", CreatedAt: now}
	assert.Contains(t, render.NotificationLine(n, now), "●")

	n.IsRead = true
	assert.NotContains(t, render.NotificationLine(n, now), "●")
}

func TestPaginationLabel(t *testing.T) {
	assert.Equal(t, "page 2 of 5", render.PaginationLabel(domain.Page{Current: 2, Total: 5}))
	assert.Equal(t, "page 1 of 1", render.PaginationLabel(domain.Page{Current: 1, Total: 0}))
}
