package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-console/internal/adapters/api"
	"crm-console/internal/adapters/storage/memory"
	"crm-console/internal/apitest"
	"crm-console/internal/app/session"
	"crm-console/internal/state"
)

func newService(t *testing.T, token string) (*session.Service, *memory.TokenStore, *state.Store, func()) {
	t.Helper()
	_, ts := apitest.NewServer()
	tokens := memory.NewTokenStore(token)
	store := state.NewStore()
	client := api.NewClient(ts.URL, tokens)
	return session.NewService(client, tokens, store), tokens, store, ts.Close
}

func TestCheckAuthWithoutTokenSkipsBackend(t *testing.T) {
	svc, _, store, done := newService(t, "")
	defer done()

	ok, err := svc.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, store.Authenticated())
}

func TestLoginThenResume(t *testing.T) {
	svc, tokens, store, done := newService(t, "")
	defer done()
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "x")
	require.ErrorIs(t, err, session.ErrCredentialsRequired)

	user, err := svc.Login(ctx, " admin ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.True(t, store.Authenticated())
	assert.Equal(t, apitest.ValidToken, tokens.Token())

	ok, err := svc.CheckAuth(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckAuthWithStaleTokenClearsSession(t *testing.T) {
	svc, tokens, store, done := newService(t, "expired-token")
	defer done()

	ok, err := svc.CheckAuth(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, ok)
	assert.False(t, store.Authenticated())
	// The transport already discarded the token on the 401.
	assert.Empty(t, tokens.Token())
}

func TestLogoutAlwaysClearsLocalState(t *testing.T) {
	svc, tokens, store, done := newService(t, "")
	defer done()
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin", "secret")
	require.NoError(t, err)

	svc.Logout(ctx)
	assert.False(t, store.Authenticated())
	assert.Empty(t, tokens.Token())
}
