package gateway

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscan/nutriscan/internal/config"
	"github.com/nutriscan/nutriscan/internal/logging"
	"github.com/nutriscan/nutriscan/internal/session"
)

func newTestGateway(t *testing.T, apiBaseURL string) *httptest.Server {
	t.Helper()
	if apiBaseURL == "" {
		apiBaseURL = "http://127.0.0.1:1/api"
	}
	srv, err := New(&config.Config{APIBaseURL: apiBaseURL, GatewayAddr: ":0"}, logging.Nop())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func noRedirectClient(ts *httptest.Server) *http.Client {
	c := ts.Client()
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

func get(t *testing.T, client *http.Client, rawURL, cookie string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestProtectedPathsRedirectToLoginWithReturnTarget(t *testing.T) {
	ts := newTestGateway(t, "")
	client := noRedirectClient(ts)

	paths := []string{
		"/dashboard", "/journal", "/scan", "/trends",
		"/settings", "/onboarding-profile", "/add",
		"/journal/2026-08-30", "/settings/profile",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp := get(t, client, ts.URL+path, "")
			assert.Equal(t, http.StatusFound, resp.StatusCode)

			loc, err := url.Parse(resp.Header.Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/login", loc.Path)
			assert.Equal(t, path, loc.Query().Get("redirect"))
		})
	}
}

func TestAuthenticatedUsersBounceOffPublicPages(t *testing.T) {
	ts := newTestGateway(t, "")
	client := noRedirectClient(ts)

	for _, path := range []string{"/", "/login"} {
		t.Run(path, func(t *testing.T) {
			resp := get(t, client, ts.URL+path, "tok-abc")
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
		})
	}
}

func TestPublicPagesServeWithoutSession(t *testing.T) {
	ts := newTestGateway(t, "")
	client := noRedirectClient(ts)

	for _, path := range []string{"/", "/login"} {
		resp := get(t, client, ts.URL+path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestProtectedPagesServeWithSession(t *testing.T) {
	ts := newTestGateway(t, "")
	client := noRedirectClient(ts)

	resp := get(t, client, ts.URL+"/dashboard", "tok-abc")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestUnlistedPathsAreUntouchedByTheGuard(t *testing.T) {
	ts := newTestGateway(t, "")
	client := noRedirectClient(ts)

	assert.Equal(t, http.StatusOK, get(t, client, ts.URL+"/healthz", "").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, client, ts.URL+"/healthz", "tok").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, client, ts.URL+"/manifest.webmanifest", "tok").StatusCode)
}

func TestCreateSessionSetsCookie(t *testing.T) {
	ts := newTestGateway(t, "")

	resp, err := ts.Client().Post(ts.URL+"/session", "application/json",
		strings.NewReader(`{"token":"tok-xyz"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var found *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			found = c
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "tok-xyz", found.Value)
	assert.Equal(t, "/", found.Path)
	assert.Equal(t, 30*24*60*60, found.MaxAge)
}

func TestCreateSessionRejectsMissingToken(t *testing.T) {
	ts := newTestGateway(t, "")

	resp, err := ts.Client().Post(ts.URL+"/session", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteSessionClearsCookie(t *testing.T) {
	ts := newTestGateway(t, "")

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/session", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var found *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			found = c
		}
	}
	require.NotNil(t, found)
	assert.Empty(t, found.Value)
	assert.Negative(t, found.MaxAge)
}

func TestProxyForwardsToBackendWithBearerFromCookie(t *testing.T) {
	var gotPath, gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer backend.Close()

	ts := newTestGateway(t, backend.URL+"/api")
	resp := get(t, noRedirectClient(ts), ts.URL+"/api/journal", "tok-abc")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/api/journal", gotPath)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}
