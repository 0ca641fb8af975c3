// Package testutil runs the full HTTP stack over the in-memory store for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector/config"
	"github.com/oksasatya/devconnector/internal/container"
	"github.com/oksasatya/devconnector/internal/router"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		AppName:            "devconnector-test",
		Env:                "test",
		StoreDriver:        "memory",
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		JWTTTL:             time.Hour,
		CORSAllowedOrigins: "http://localhost:3000",
		GitHubAPIURL:       "http://127.0.0.1:1", // unroutable unless a test overrides it
		MetricsEnabled:     true,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server    *httptest.Server
	Container *container.Container
	Config    *config.Config
}

// NewTestServer starts the API over a fresh in-memory store. Options may
// adjust config or the container before the routes are built.
func NewTestServer(t *testing.T, opts ...func(*container.Container)) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig()
	c := container.NewInMemory(cfg, helpers.NewNopLogger())
	for _, opt := range opts {
		opt(c)
	}

	server := httptest.NewServer(router.NewEngine(c))
	t.Cleanup(server.Close)
	return &TestServer{Server: server, Container: c, Config: cfg}
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return ts.Server.URL + "/api" + path
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the body into v.
func (r *Response) Decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), "failed to unmarshal response: %s", string(r.Body))
}

// Do sends a JSON request; token is sent as x-auth-token when non-empty.
func (ts *TestServer) Do(t *testing.T, method, path, token string, body any) *Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.APIURL(path), rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.Send(t, req, token)
}

// Send executes req and reads the whole response.
func (ts *TestServer) Send(t *testing.T, req *http.Request, token string) *Response {
	t.Helper()
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	resp, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: b}
}

// Register creates a user through the API and returns its token.
func (ts *TestServer) Register(t *testing.T, name, email, password string) string {
	t.Helper()
	resp := ts.Do(t, http.MethodPost, "/users", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.Status, "register: %s", string(resp.Body))
	var out struct {
		Token string `json:"token"`
	}
	resp.Decode(t, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// UserID resolves the id behind token via GET /api/auth.
func (ts *TestServer) UserID(t *testing.T, token string) string {
	t.Helper()
	resp := ts.Do(t, http.MethodGet, "/auth", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	var u struct {
		ID string `json:"id"`
	}
	resp.Decode(t, &u)
	return u.ID
}
