package demoapp

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conduit-e2e/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T, seed bool) *httptest.Server {
	t.Helper()
	s, err := New(Options{Seed: seed, BcryptCost: bcrypt.MinCost}, logger.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postUser(t *testing.T, url string, user map[string]string) (int, map[string]any) {
	t.Helper()
	body, err := json.Marshal(map[string]any{"user": user})
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t, false)

	status, out := postUser(t, srv.URL+"/api/users", map[string]string{
		"username": "testuser1700000000000",
		"email":    "testuser1700000000000@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusCreated, status)
	user := out["user"].(map[string]any)
	assert.Equal(t, "testuser1700000000000", user["username"])
	assert.NotEmpty(t, user["token"])
	assert.NotContains(t, user, "password")
}

func TestRegister_Duplicate(t *testing.T) {
	srv := newTestServer(t, true)

	status, out := postUser(t, srv.URL+"/api/users", map[string]string{
		"username": "someone",
		"email":    SeedEmail,
		"password": "password123",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, map[string]any{"email": []any{"has already been taken"}}, out["errors"])
}

func TestRegister_Validation(t *testing.T) {
	srv := newTestServer(t, false)

	status, out := postUser(t, srv.URL+"/api/users", map[string]string{
		"username": "",
		"email":    "invalid-email-1700000000000",
		"password": "",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, map[string]any{
		"username": []any{"can't be blank"},
		"email":    []any{"is invalid"},
		"password": []any{"can't be blank"},
	}, out["errors"])
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, true)

	status, out := postUser(t, srv.URL+"/api/users/login", map[string]string{"email": SeedEmail, "password": SeedPassword})
	require.Equal(t, http.StatusOK, status)
	token := out["user"].(map[string]any)["token"].(string)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/user", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Token "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := newTestServer(t, true)

	status, out := postUser(t, srv.URL+"/api/users/login", map[string]string{"email": "nobody@example.com", "password": "wrong-password"})

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, map[string]any{"email or password": []any{"is invalid"}}, out["errors"])
}

func TestCurrentUser_Unauthorized(t *testing.T) {
	srv := newTestServer(t, false)

	for _, header := range []string{"", "Bearer abc", "Token not-a-jwt"} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/user", nil)
		require.NoError(t, err)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
	}
}

func TestServe_Shutdown(t *testing.T) {
	s, err := New(Options{BcryptCost: bcrypt.MinCost}, logger.NewNop())
	require.NoError(t, err)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
