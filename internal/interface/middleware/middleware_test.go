package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector/pkg/helpers"
)

func newEngine(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), Metrics(), AccessLog(helpers.NewNopLogger()))
	r.GET("/private", Auth(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(CtxUserIDKey)})
	})
	return r
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	other := helpers.NewJWTManager("other", time.Hour)
	good, _, err := jwt.Issue("u-1", "a@x.com")
	require.NoError(t, err)
	forged, _, err := other.Issue("u-1", "a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
		body   map[string]string
	}{
		{"missing", "", http.StatusUnauthorized, map[string]string{"msg": "No token, authorization denied"}},
		{"garbage", "abc", http.StatusUnauthorized, map[string]string{"msg": "Token is not valid"}},
		{"wrong secret", forged, http.StatusUnauthorized, map[string]string{"msg": "Token is not valid"}},
		{"valid", good, http.StatusOK, map[string]string{"uid": "u-1"}},
	}
	r := newEngine(jwt)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.token != "" {
				req.Header.Set(TokenHeader, tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newEngine(helpers.NewJWTManager("secret", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
}
