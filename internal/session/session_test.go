package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolveit/internal/complaint"
	rerrors "resolveit/internal/errors"
)

func testUser() complaint.User {
	return complaint.User{ID: 9, Name: "Ada", Email: "ada@example.com", Role: "ADMIN"}
}

// unsignedJWT builds a syntactically valid JWT with the given expiry and an
// empty signature.
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]interface{}{"sub": "ada@example.com", "exp": exp.Unix()})
	require.NoError(t, err)
	return fmt.Sprintf("%s.%s.", header, base64.RawURLEncoding.EncodeToString(payload))
}

func TestLoginPersistsAndRehydrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := NewStore(path)
	require.Nil(t, store.Current())

	require.NoError(t, store.Login("tok-123", testUser()))
	require.NotNil(t, store.Current())
	assert.Equal(t, "tok-123", store.Token())

	// A fresh store against the same path rehydrates the session.
	again := NewStore(path)
	require.NotNil(t, again.Current())
	assert.Equal(t, "tok-123", again.Token())
	assert.Equal(t, "ADMIN", again.Current().User.Role)
}

func TestLogoutClearsFileAndMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)
	require.NoError(t, store.Login("tok", testUser()))

	require.NoError(t, store.Logout())
	assert.Nil(t, store.Current())
	assert.Empty(t, store.Token())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "session file should be gone after logout")

	// Logout when already logged out is not an error.
	require.NoError(t, store.Logout())
}

func TestCheckDetectsExpiredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Login(unsignedJWT(t, now.Add(-time.Hour)), testUser()))
	err := store.Check(now)
	require.Error(t, err)
	assert.True(t, rerrors.IsSessionExpired(err))

	require.NoError(t, store.Login(unsignedJWT(t, now.Add(time.Hour)), testUser()))
	assert.NoError(t, store.Check(now))
}

func TestCheckTreatsOpaqueTokenAsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)
	require.NoError(t, store.Login("not-a-jwt", testUser()))

	assert.NoError(t, store.Check(time.Now()))
}

func TestCheckWhenLoggedOut(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	err := store.Check(time.Now())
	require.Error(t, err)
	assert.True(t, rerrors.IsSessionExpired(err))
}
