package session

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscan/nutriscan/internal/model"
)

func testSession() model.Session {
	return model.Session{
		Token: "tok-abc",
		User: model.User{
			ID:    42,
			Name:  "Alice",
			Email: "alice@example.com",
		},
	}
}

func TestLoginPersistsAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutriscan", "session.json")
	s := NewStore(path)

	require.False(t, s.IsAuthenticated())
	require.NoError(t, s.Login(testSession()))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-abc", s.CurrentToken())

	u := s.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "alice@example.com", u.Email)

	// a fresh store over the same file sees the same session
	s2 := NewStore(path)
	assert.True(t, s2.IsAuthenticated())
	assert.Equal(t, "tok-abc", s2.CurrentToken())
}

func TestLogoutIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path)

	require.NoError(t, s.Logout())

	require.NoError(t, s.Login(testSession()))
	require.NoError(t, s.Logout())
	require.NoError(t, s.Logout())

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.CurrentToken())
	assert.Nil(t, s.CurrentUser())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestReadsPickUpExternalChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path)
	require.NoError(t, s.Login(testSession()))

	// another client rewrites the file with a refreshed token
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok-new","user":{"id":42,"name":"Alice","email":"alice@example.com"}}`), 0o600))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Equal(t, "tok-new", s.CurrentToken())
}

func TestExternalLogoutIsObserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path)
	require.NoError(t, s.Login(testSession()))

	require.NoError(t, os.Remove(path))

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.CurrentToken())
}

func TestCookieAttributes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path)

	assert.Nil(t, s.Cookie())

	require.NoError(t, s.Login(testSession()))
	c := s.Cookie()
	require.NotNil(t, c)
	assert.Equal(t, "auth_token", c.Name)
	assert.Equal(t, "tok-abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	cleared := ExpiredCookie()
	assert.Equal(t, "auth_token", cleared.Name)
	assert.Negative(t, cleared.MaxAge)
}

func TestTokenInfoDecodesClaimsWithoutVerification(t *testing.T) {
	exp := time.Now().Add(29 * 24 * time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path)
	sess := testSession()
	sess.Token = raw
	require.NoError(t, s.Login(sess))

	info, err := s.TokenInfo()
	require.NoError(t, err)
	assert.Equal(t, "42", info.Subject)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.False(t, info.Expired(time.Now()))
	assert.True(t, info.Expired(exp.Add(time.Minute)))
}

func TestTokenInfoRejectsOpaqueTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path)
	require.NoError(t, s.Login(testSession()))

	_, err := s.TokenInfo()
	assert.Error(t, err)
}
