package chat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-console/internal/adapters/clock"
	"crm-console/internal/app/chat"
	"crm-console/internal/domain"
	"crm-console/internal/state"
)

type chatKey struct {
	kind domain.ChatKind
	id   domain.ChatID
}

// fakeBackend is an in-memory chat backend with counters and an optional
// hook for stalling ListMessages mid-flight.
type fakeBackend struct {
	mu       sync.Mutex
	direct   []domain.Conversation
	groups   []domain.Conversation
	messages map[chatKey][]domain.Message

	listCalls    int
	messageCalls int
	readMarks    []chatKey
	sent         []string
	created      int

	// onListMessages runs outside the lock before the fetch returns, so a
	// test can block one request while another overtakes it.
	onListMessages func(kind domain.ChatKind, id domain.ChatID)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{messages: make(map[chatKey][]domain.Message)}
}

func (f *fakeBackend) ListDirectChats(ctx context.Context) ([]domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]domain.Conversation(nil), f.direct...), nil
}

func (f *fakeBackend) ListGroupChats(ctx context.Context) ([]domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Conversation(nil), f.groups...), nil
}

func (f *fakeBackend) ListMessages(ctx context.Context, kind domain.ChatKind, id domain.ChatID) ([]domain.Message, error) {
	f.mu.Lock()
	hook := f.onListMessages
	f.messageCalls++
	f.mu.Unlock()

	if hook != nil {
		hook(kind, id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Message(nil), f.messages[chatKey{kind, id}]...), nil
}

func (f *fakeBackend) SendMessage(ctx context.Context, kind domain.ChatKind, id domain.ChatID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, content)
	key := chatKey{kind, id}
	f.messages[key] = append(f.messages[key], domain.Message{
		ID:      domain.MessageID(len(f.sent)),
		ChatID:  id,
		Content: content,
		IsOwn:   true,
	})
	return nil
}

func (f *fakeBackend) MarkChatRead(ctx context.Context, kind domain.ChatKind, id domain.ChatID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readMarks = append(f.readMarks, chatKey{kind, id})
	return nil
}

func (f *fakeBackend) CreateDirectChat(ctx context.Context, userID domain.UserID) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	conv := domain.Conversation{ID: domain.ChatID(100 + f.created), Kind: domain.ChatDirect}
	f.direct = append(f.direct, conv)
	return &conv, nil
}

func (f *fakeBackend) CreateGroupChat(ctx context.Context, name, description string, memberIDs []domain.UserID) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	conv := domain.Conversation{ID: domain.ChatID(200 + f.created), Kind: domain.ChatGroup, Name: name, MemberCount: len(memberIDs)}
	f.groups = append(f.groups, conv)
	return &conv, nil
}

func (f *fakeBackend) GroupInfo(ctx context.Context, id domain.ChatID) (*domain.GroupInfo, error) {
	return &domain.GroupInfo{ID: id, Name: "g"}, nil
}

func (f *fakeBackend) counts() (lists, msgs int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.messageCalls
}

func newService(t *testing.T, backend *fakeBackend) (*chat.Service, *state.Store, *clock.Fake) {
	t.Helper()
	store := state.NewStore()
	clk := clock.NewFake(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	svc := chat.NewService(backend, store, clk, 5*time.Second)
	return svc, store, clk
}

func selection(kind domain.ChatKind, id domain.ChatID) domain.ChatSelection {
	return domain.ChatSelection{ID: id, Kind: kind, Name: "test"}
}

func TestOpenChatFetchesAndMarksRead(t *testing.T) {
	backend := newFakeBackend()
	key := chatKey{domain.ChatDirect, 7}
	backend.messages[key] = []domain.Message{{ID: 1, ChatID: 7, Content: "hello"}}

	svc, store, _ := newService(t, backend)

	msgs, err := svc.OpenChat(context.Background(), selection(domain.ChatDirect, 7))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)

	assert.Equal(t, []chatKey{key}, backend.readMarks)
	assert.Equal(t, domain.ChatID(7), store.ActiveChat().ID)
}

func TestSendMessageRequiresContentAndOpenChat(t *testing.T) {
	backend := newFakeBackend()
	svc, _, _ := newService(t, backend)

	_, err := svc.SendMessage(context.Background(), "   ")
	require.ErrorIs(t, err, chat.ErrEmptyMessage)

	_, err = svc.SendMessage(context.Background(), "hi")
	require.ErrorIs(t, err, chat.ErrNoChatOpen)

	// Nothing reached the backend.
	assert.Empty(t, backend.sent)
	_, msgCalls := backend.counts()
	assert.Zero(t, msgCalls)
}

func TestSendMessageRefetchesInsteadOfAppending(t *testing.T) {
	backend := newFakeBackend()
	svc, _, _ := newService(t, backend)

	_, err := svc.OpenChat(context.Background(), selection(domain.ChatGroup, 3))
	require.NoError(t, err)

	msgs, err := svc.SendMessage(context.Background(), "  trimmed  ")
	require.NoError(t, err)

	require.Equal(t, []string{"trimmed"}, backend.sent)
	// The returned list is the backend's state after the send, not a local
	// append.
	require.Len(t, msgs, 1)
	assert.Equal(t, "trimmed", msgs[0].Content)
}

func TestStartGroupValidatesClientSide(t *testing.T) {
	backend := newFakeBackend()
	svc, _, _ := newService(t, backend)
	ctx := context.Background()

	_, err := svc.StartGroup(ctx, "  ", "", []domain.UserID{1})
	require.ErrorIs(t, err, chat.ErrGroupNameRequired)

	_, err = svc.StartGroup(ctx, "ops", "", nil)
	require.ErrorIs(t, err, chat.ErrMembersRequired)

	_, err = svc.StartDirect(ctx, 0)
	require.ErrorIs(t, err, chat.ErrPeerRequired)

	// No backend call was made for any rejected form.
	assert.Zero(t, backend.created)

	lists, err := svc.StartGroup(ctx, "ops", "standup", []domain.UserID{1, 2})
	require.NoError(t, err)
	require.Len(t, lists.Groups, 1)
	assert.Equal(t, 2, lists.Groups[0].MemberCount)
}

// A queued fetch for chat A must not overwrite chat B's messages after the
// user has moved on to B.
func TestStaleFetchForPreviousChatIsDiscarded(t *testing.T) {
	backend := newFakeBackend()
	backend.messages[chatKey{domain.ChatDirect, 1}] = []domain.Message{{ID: 1, Content: "from A"}}
	backend.messages[chatKey{domain.ChatDirect, 2}] = []domain.Message{{ID: 2, Content: "from B"}}

	svc, _, _ := newService(t, backend)
	ctx := context.Background()

	release := make(chan struct{})
	var once sync.Once
	backend.onListMessages = func(kind domain.ChatKind, id domain.ChatID) {
		// Stall only the first fetch (chat A); let B's through.
		if id == 1 {
			once.Do(func() { <-release })
		}
	}

	type result struct {
		msgs []domain.Message
		err  error
	}
	aDone := make(chan result, 1)
	go func() {
		msgs, err := svc.OpenChat(ctx, selection(domain.ChatDirect, 1))
		aDone <- result{msgs, err}
	}()

	// Wait until A's fetch is in flight, then open B.
	require.Eventually(t, func() bool {
		_, calls := backend.counts()
		return calls >= 1
	}, time.Second, time.Millisecond)

	msgsB, err := svc.OpenChat(ctx, selection(domain.ChatDirect, 2))
	require.NoError(t, err)
	require.Len(t, msgsB, 1)
	assert.Equal(t, "from B", msgsB[0].Content)

	// Release A's response: it must come back superseded, never as data.
	close(release)
	res := <-aDone
	require.ErrorIs(t, res.err, chat.ErrSuperseded)
	assert.Nil(t, res.msgs)
}

func TestPollingTicksAndStops(t *testing.T) {
	backend := newFakeBackend()
	backend.messages[chatKey{domain.ChatDirect, 1}] = []domain.Message{{ID: 1, Content: "hi"}}

	svc, _, clk := newService(t, backend)
	ctx := context.Background()

	var mu sync.Mutex
	var delivered [][]domain.Message
	var listDeliveries int
	svc.SetListeners(
		func(msgs []domain.Message) {
			mu.Lock()
			defer mu.Unlock()
			delivered = append(delivered, msgs)
		},
		func(chat.Lists) {
			mu.Lock()
			defer mu.Unlock()
			listDeliveries++
		},
	)

	_, err := svc.OpenChat(ctx, selection(domain.ChatDirect, 1))
	require.NoError(t, err)

	svc.StartPolling()
	require.True(t, svc.Polling())
	// Starting again must not add a second timer.
	svc.StartPolling()

	clk.Advance(15 * time.Second)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(delivered) == 3 && listDeliveries == 3
	}, time.Second, time.Millisecond)

	svc.StopPolling()
	require.False(t, svc.Polling())
	// Stop is idempotent.
	svc.StopPolling()

	listsBefore, msgsBefore := backend.counts()
	clk.Advance(time.Minute)
	listsAfter, msgsAfter := backend.counts()
	assert.Equal(t, listsBefore, listsAfter, "no list fetch after Stop")
	assert.Equal(t, msgsBefore, msgsAfter, "no message fetch after Stop")
}

func TestPollTickWithoutOpenChatOnlyRefreshesLists(t *testing.T) {
	backend := newFakeBackend()
	svc, _, clk := newService(t, backend)

	var mu sync.Mutex
	msgDeliveries := 0
	listDeliveries := 0
	svc.SetListeners(
		func([]domain.Message) { mu.Lock(); msgDeliveries++; mu.Unlock() },
		func(chat.Lists) { mu.Lock(); listDeliveries++; mu.Unlock() },
	)

	svc.StartPolling()
	defer svc.StopPolling()

	clk.Advance(10 * time.Second)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return listDeliveries == 2
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, msgDeliveries)
}

func TestGroupInfoRequiresOpenGroup(t *testing.T) {
	backend := newFakeBackend()
	svc, _, _ := newService(t, backend)
	ctx := context.Background()

	_, err := svc.GroupInfo(ctx)
	require.ErrorIs(t, err, chat.ErrNoChatOpen)

	_, err = svc.OpenChat(ctx, selection(domain.ChatDirect, 1))
	require.NoError(t, err)
	_, err = svc.GroupInfo(ctx)
	require.ErrorIs(t, err, chat.ErrNotGroup)

	_, err = svc.OpenChat(ctx, selection(domain.ChatGroup, 9))
	require.NoError(t, err)
	info, err := svc.GroupInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ChatID(9), info.ID)
}
