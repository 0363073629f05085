package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolroom/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "production",
		FrontendURL: "https://pool.example.com",
		JWTSecret:   "test-secret",
	}
}

func TestControlTokenRoundTrip(t *testing.T) {
	token, exp, err := IssueControlToken("secret", "session-1", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	sessionID, err := ParseControlToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", sessionID)

	_, err = ParseControlToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := IssueControlToken("secret", "session-1", -time.Minute)
	require.NoError(t, err)
	_, err = ParseControlToken("secret", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session": SessionID(c)})
	})
	r.GET("/x", handlers...)
	return r
}

func TestControlAuth(t *testing.T) {
	cfg := testConfig()
	r := newRouter(ControlAuth(cfg))
	token, _, err := IssueControlToken(cfg.JWTSecret, "abc", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"bearer", "Bearer " + token, "", http.StatusOK},
		{"query", "", "?token=" + token, http.StatusOK},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"session":"abc"`)
			}
		})
	}
}

func TestAdminAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := testConfig()
	cfg.AdminKeyHash = string(hash)
	r := newRouter(AdminAuth(cfg))

	send := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if key != "" {
			req.Header.Set(AdminKeyHeader, key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send(""))
	assert.Equal(t, http.StatusUnauthorized, send("wrong"))
	assert.Equal(t, http.StatusOK, send("letmein"))

	cfg.AdminKeyHash = ""
	assert.Equal(t, http.StatusForbidden, send("letmein"))
}

func TestWebSocketCORSCheck(t *testing.T) {
	cfg := testConfig()
	r := newRouter(WebSocketCORSCheck(cfg))

	upgrade := func(origin string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, upgrade("https://pool.example.com"))
	assert.Equal(t, http.StatusForbidden, upgrade("https://evil.example.com"))
	assert.Equal(t, http.StatusOK, upgrade(""), "non-browser clients have no origin")

	cfg.Environment = "development"
	assert.Equal(t, http.StatusOK, upgrade("http://localhost:3000"))
	assert.Equal(t, http.StatusForbidden, upgrade("https://pool.example.com"))
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(testConfig()))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://pool.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://pool.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
