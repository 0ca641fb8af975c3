package application_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	app "github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

func fakeGitHub(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch strings.ToLower(r.URL.Path) {
		case "/users/octocat/repos":
			assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[{"name":"spoon-knife"}]`))
		case "/users/broken/repos":
			_, _ = w.Write([]byte(`<html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubRepos(t *testing.T) {
	var calls atomic.Int32
	srv := fakeGitHub(t, &calls)
	svc := app.NewGitHubService(srv.URL, "gh-token", nil, time.Minute, helpers.NewNopLogger())
	ctx := context.Background()

	body, err := svc.Repos(ctx, "octocat")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"spoon-knife"}]`, string(body))

	_, err = svc.Repos(ctx, "nobody")
	assert.ErrorIs(t, err, app.ErrGitHubNotFound)

	_, err = svc.Repos(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, app.ErrGitHubNotFound)

	_, err = svc.Repos(ctx, "  ")
	assert.ErrorIs(t, err, app.ErrGitHubNotFound)
	assert.EqualValues(t, 3, calls.Load())
}

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb, err := helpers.NewRedisClient(ctx, fmt.Sprintf("%s:%s", host, port.Port()), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestGitHubRepos_Cached(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	rdb := startRedis(t)

	var calls atomic.Int32
	srv := fakeGitHub(t, &calls)
	svc := app.NewGitHubService(srv.URL, "gh-token", rdb, time.Minute, helpers.NewNopLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		body, err := svc.Repos(ctx, "OctoCat")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"name":"spoon-knife"}]`, string(body))
	}
	assert.EqualValues(t, 1, calls.Load())

	ttl, err := rdb.TTL(ctx, "github:repos:octocat").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// misses are not cached
	_, err = svc.Repos(ctx, "nobody")
	require.ErrorIs(t, err, app.ErrGitHubNotFound)
	_, err = svc.Repos(ctx, "nobody")
	require.ErrorIs(t, err, app.ErrGitHubNotFound)
	assert.EqualValues(t, 3, calls.Load())
}
