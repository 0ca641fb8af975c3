package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/pkg/helpers"
)

// GitHubService proxies a user's latest public repositories, cached in Redis when available.
type GitHubService struct {
	client *resty.Client
	Cache  *redis.Client // optional
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewGitHubService(baseURL, token string, cache *redis.Client, ttl time.Duration, logger *logrus.Logger) *GitHubService {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("User-Agent", "devconnector").
		SetTimeout(10 * time.Second)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &GitHubService{client: c, Cache: cache, TTL: ttl, Logger: logger}
}

func githubKey(username string) string {
	return "github:repos:" + strings.ToLower(username)
}

// Repos returns GitHub's JSON array for the user's five oldest-created repositories.
func (s *GitHubService) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrGitHubNotFound
	}

	if s.Cache != nil && s.TTL > 0 {
		var cached json.RawMessage
		found, err := helpers.RedisGetJSON(ctx, s.Cache, githubKey(username), &cached)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("github cache read failed")
		}
		if found {
			githubLookupsTotal.WithLabelValues("cache").Inc()
			return cached, nil
		}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("username", username).
		SetQueryParams(map[string]string{"per_page": "5", "sort": "created:asc"}).
		Get("/users/{username}/repos")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, ErrGitHubNotFound
	}
	body := json.RawMessage(resp.Body())
	if !json.Valid(body) {
		return nil, errors.New("github returned invalid json")
	}
	githubLookupsTotal.WithLabelValues("upstream").Inc()

	if s.Cache != nil && s.TTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Cache, githubKey(username), body, s.TTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("github cache write failed")
		}
	}
	return body, nil
}
