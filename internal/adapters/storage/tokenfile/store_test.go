package tokenfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-console/internal/adapters/storage/tokenfile"
)

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")

	store, err := tokenfile.New(path)
	require.NoError(t, err)
	assert.Empty(t, store.Token())

	require.NoError(t, store.SetToken("abc123"))
	assert.Equal(t, "abc123", store.Token())

	// A fresh store picks the token up from disk.
	reloaded, err := tokenfile.New(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", reloaded.Token())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, err := tokenfile.New(path)
	require.NoError(t, err)
	require.NoError(t, store.SetToken("tok"))

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}
