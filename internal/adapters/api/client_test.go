package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-console/internal/adapters/api"
	"crm-console/internal/adapters/storage/memory"
	"crm-console/internal/apitest"
	"crm-console/internal/domain"
)

func TestUnauthorizedClearsTokenAndFiresHook(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	tokens := memory.NewTokenStore("stale-token")
	hookFired := 0
	client := api.NewClient(ts.URL, tokens, api.WithUnauthorizedHook(func() { hookFired++ }))

	var out map[string]any
	err := client.Request(context.Background(), http.MethodGet, "/tasks", nil, &out)

	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, tokens.Token(), "token must be cleared")
	assert.Equal(t, 1, hookFired)
	assert.Nil(t, out, "no payload on 401")
}

func TestNoContentIsNotADecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := api.NewClient(ts.URL, memory.NewTokenStore("tok"))

	var out map[string]any
	err := client.Request(context.Background(), http.MethodDelete, "/tasks/1", nil, &out)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestErrorBodyMessageIsSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"name already taken"}`))
	}))
	defer ts.Close()

	client := api.NewClient(ts.URL, memory.NewTokenStore("tok"))

	err := client.Request(context.Background(), http.MethodPost, "/customers", map[string]string{"name": "x"}, nil)
	require.Error(t, err)
	assert.Equal(t, "name already taken", err.Error())
	assert.True(t, api.IsClientError(err))
}

func TestErrorWithoutBodyFallsBackToStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := api.NewClient(ts.URL, memory.NewTokenStore("tok"))

	err := client.Request(context.Background(), http.MethodGet, "/stats/dashboard", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "HTTP 502", err.Error())
	assert.False(t, api.IsClientError(err))
}

func TestBearerTokenIsAttached(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := api.NewClient(ts.URL, memory.NewTokenStore("abc123"))
	err := client.Request(context.Background(), http.MethodGet, "/auth/me", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestLoginPersistsTokenAndMeResumes(t *testing.T) {
	backend, ts := apitest.NewServer()
	defer ts.Close()
	_ = backend

	tokens := memory.NewTokenStore("")
	client := api.NewClient(ts.URL, tokens)
	ctx := context.Background()

	user, err := client.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, apitest.ValidToken, tokens.Token())

	resumed, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resumed.ID)
}

func TestLoginRejectedSurfacesBackendMessage(t *testing.T) {
	_, ts := apitest.NewServer()
	defer ts.Close()

	client := api.NewClient(ts.URL, memory.NewTokenStore(""))
	_, err := client.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid username or password", err.Error())
}

func TestListCustomersQueryEncoding(t *testing.T) {
	backend, ts := apitest.NewServer()
	defer ts.Close()

	client := api.NewClient(ts.URL, memory.NewTokenStore(apitest.ValidToken))
	_, err := client.ListCustomers(context.Background(), 1, 10, map[string]string{"search": "ACME", "company": ""})
	require.NoError(t, err)

	require.Len(t, backend.Requests, 1)
	// Empty filter values are skipped; params are sorted by Encode.
	assert.Equal(t, "GET /customers?page=1&per_page=10&search=ACME", backend.Requests[0])
}
