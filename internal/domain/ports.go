package domain

import (
	"context"
	"time"
)

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

// Clock abstracts wall time and tickers so polling is testable without
// real timers.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
	// AfterFunc schedules f after d and returns a cancel func. Used for
	// debounced search input.
	AfterFunc(d time.Duration, f func()) (cancel func())
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// AuthBackend covers the session lifecycle endpoints.
type AuthBackend interface {
	Login(ctx context.Context, username, password string) (*User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*User, error)
}

// ChatBackend covers the direct and group chat endpoints.
type ChatBackend interface {
	ListDirectChats(ctx context.Context) ([]Conversation, error)
	ListGroupChats(ctx context.Context) ([]Conversation, error)
	ListMessages(ctx context.Context, kind ChatKind, id ChatID) ([]Message, error)
	SendMessage(ctx context.Context, kind ChatKind, id ChatID, content string) error
	MarkChatRead(ctx context.Context, kind ChatKind, id ChatID) error
	CreateDirectChat(ctx context.Context, userID UserID) (*Conversation, error)
	CreateGroupChat(ctx context.Context, name, description string, memberIDs []UserID) (*Conversation, error)
	GroupInfo(ctx context.Context, id ChatID) (*GroupInfo, error)
}

// NotificationBackend covers the notification lifecycle.
type NotificationBackend interface {
	ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error)
	UnreadNotificationCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id NotificationID) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteReadNotifications(ctx context.Context) error
}
