// Package chat implements the conversation workflow: selecting the open
// chat, sending messages, read marking and the 5-second refresh poll.
// The backend owns all chat state; this service only re-fetches and keeps
// overlapping fetches from clobbering each other.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"crm-console/internal/app/poll"
	"crm-console/internal/domain"
	"crm-console/internal/observability"
	"crm-console/internal/state"
)

var (
	// ErrNoChatOpen rejects operations that need an open conversation.
	ErrNoChatOpen = errors.New("chat: no conversation is open")
	// ErrEmptyMessage rejects blank (or whitespace-only) sends before any
	// backend call is made.
	ErrEmptyMessage = errors.New("chat: message content is empty")
	// ErrPeerRequired, ErrGroupNameRequired and ErrMembersRequired are the
	// client-side checks on the new-chat forms.
	ErrPeerRequired      = errors.New("chat: a user must be selected")
	ErrGroupNameRequired = errors.New("chat: group name is required")
	ErrMembersRequired   = errors.New("chat: at least one member is required")
	// ErrNotGroup rejects group-info requests on a direct chat.
	ErrNotGroup = errors.New("chat: open conversation is not a group")
	// ErrSuperseded marks a fetch whose response arrived after a newer
	// fetch (or a different selection) already won. Callers drop the
	// result; nothing is wrong.
	ErrSuperseded = errors.New("chat: fetch superseded")
)

// Lists is the sidebar content: both conversation variants, always
// fetched together.
type Lists struct {
	Direct []domain.Conversation
	Groups []domain.Conversation
}

type Service struct {
	backend domain.ChatBackend
	store   *state.Store
	runner  *poll.Runner

	// gen orders message fetches; committed is the generation of the last
	// fetch whose result was accepted. A fetch only commits if it is newer
	// than every committed fetch and the selection it was issued for is
	// still the active one.
	gen       atomic.Uint64
	commitMu  sync.Mutex
	committed uint64

	listenerMu sync.RWMutex
	onMessages func([]domain.Message)
	onLists    func(Lists)
}

func NewService(backend domain.ChatBackend, store *state.Store, clk domain.Clock, interval time.Duration) *Service {
	s := &Service{
		backend: backend,
		store:   store,
	}
	s.runner = poll.NewRunner(clk, interval, s.tick)
	return s
}

// SetListeners installs the UI callbacks invoked from poll ticks. Both may
// be nil.
func (s *Service) SetListeners(onMessages func([]domain.Message), onLists func(Lists)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.onMessages = onMessages
	s.onLists = onLists
}

// Lists fetches both conversation lists.
func (s *Service) Lists(ctx context.Context) (*Lists, error) {
	direct, err := s.backend.ListDirectChats(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.backend.ListGroupChats(ctx)
	if err != nil {
		return nil, err
	}
	return &Lists{Direct: direct, Groups: groups}, nil
}

// OpenChat selects the conversation, fetches its messages and marks it
// read. Fetch and mark-read are sequential, not atomic: a message landing
// between them is counted read. That staleness is accepted; the next poll
// tick corrects the sidebar.
func (s *Service) OpenChat(ctx context.Context, sel domain.ChatSelection) ([]domain.Message, error) {
	s.store.SelectChat(sel)

	msgs, err := s.fetchCurrent(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.backend.MarkChatRead(ctx, sel.Kind, sel.ID); err != nil {
		// Read marking failing leaves a stale unread badge, nothing worse.
		observability.LoggerFromContext(ctx).WithError(err).Warn("mark chat read failed")
	}
	return msgs, nil
}

// SendMessage posts to the open conversation and re-fetches its messages.
// There is no optimistic append: the re-fetch is the display update.
func (s *Service) SendMessage(ctx context.Context, content string) ([]domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	sel := s.store.ActiveChat()
	if sel.IsZero() {
		return nil, ErrNoChatOpen
	}

	if err := s.backend.SendMessage(ctx, sel.Kind, sel.ID, content); err != nil {
		return nil, err
	}
	return s.fetchCurrent(ctx)
}

// StartDirect creates (or reuses) a one-to-one conversation and refreshes
// the sidebar.
func (s *Service) StartDirect(ctx context.Context, userID domain.UserID) (*Lists, error) {
	if userID == 0 {
		return nil, ErrPeerRequired
	}
	if _, err := s.backend.CreateDirectChat(ctx, userID); err != nil {
		return nil, err
	}
	return s.Lists(ctx)
}

// StartGroup validates the form client-side — the backend is not called
// when the name is blank or no members are picked.
func (s *Service) StartGroup(ctx context.Context, name, description string, memberIDs []domain.UserID) (*Lists, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrGroupNameRequired
	}
	if len(memberIDs) == 0 {
		return nil, ErrMembersRequired
	}
	if _, err := s.backend.CreateGroupChat(ctx, strings.TrimSpace(name), description, memberIDs); err != nil {
		return nil, err
	}
	return s.Lists(ctx)
}

// GroupInfo fetches the member list of the open group.
func (s *Service) GroupInfo(ctx context.Context) (*domain.GroupInfo, error) {
	sel := s.store.ActiveChat()
	if sel.IsZero() {
		return nil, ErrNoChatOpen
	}
	if sel.Kind != domain.ChatGroup {
		return nil, ErrNotGroup
	}
	return s.backend.GroupInfo(ctx, sel.ID)
}

// StartPolling begins the background refresh; starting twice is a no-op,
// so there is never more than one timer per service.
func (s *Service) StartPolling() {
	s.runner.Start()
}

// StopPolling halts the refresh loop; once it returns, no further fetches
// happen until StartPolling is called again.
func (s *Service) StopPolling() {
	s.runner.Stop()
}

func (s *Service) Polling() bool {
	return s.runner.Running()
}

// tick is one poll cycle: refresh the open chat's messages (if any), then
// always both conversation lists.
func (s *Service) tick(ctx context.Context) {
	log := observability.LoggerFromContext(ctx)

	if !s.store.ActiveChat().IsZero() {
		msgs, err := s.fetchCurrent(ctx)
		switch {
		case err == nil:
			s.listenerMu.RLock()
			cb := s.onMessages
			s.listenerMu.RUnlock()
			if cb != nil {
				cb(msgs)
			}
		case errors.Is(err, ErrSuperseded), errors.Is(err, ErrNoChatOpen):
			// Selection moved underneath the tick; nothing to deliver.
		default:
			log.WithError(err).Warn("chat poll: message refresh failed")
		}
	}

	lists, err := s.Lists(ctx)
	if err != nil {
		log.WithError(err).Warn("chat poll: list refresh failed")
		return
	}
	s.listenerMu.RLock()
	cb := s.onLists
	s.listenerMu.RUnlock()
	if cb != nil {
		cb(*lists)
	}
}

// fetchCurrent fetches messages for the active selection under the
// generation discipline: the result is dropped unless this fetch is newer
// than every committed one and the selection has not changed since it was
// issued.
func (s *Service) fetchCurrent(ctx context.Context) ([]domain.Message, error) {
	sel := s.store.ActiveChat()
	if sel.IsZero() {
		return nil, ErrNoChatOpen
	}
	gen := s.gen.Add(1)

	msgs, err := s.backend.ListMessages(ctx, sel.Kind, sel.ID)
	if err != nil {
		return nil, err
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if s.store.ActiveChat() != sel || gen <= s.committed {
		return nil, ErrSuperseded
	}
	s.committed = gen
	return msgs, nil
}
