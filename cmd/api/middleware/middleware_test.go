package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/metrics"
	"techsphere/config"
	"techsphere/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func newProvider(t *testing.T) (*auth.LocalProvider, string) {
	t.Helper()
	p, err := auth.NewLocalProvider(config.AuthConfig{JWTSecret: "s"})
	require.NoError(t, err)
	token, err := p.Sign(models.User{UID: "u1", DisplayName: "Kim"})
	require.NoError(t, err)
	return p, token
}

func TestRequireAuth(t *testing.T) {
	provider, token := newProvider(t)

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized, wantError: "No token provided"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantError: "No token provided"},
		{name: "bad token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantError: "Invalid or expired token"},
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/me", RequireAuth(provider), func(c *gin.Context) {
				id, ok := auth.IdentityFrom(c)
				require.True(t, ok)
				c.String(http.StatusOK, id.UID)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if testCase.header != "" {
				req.Header.Set("Authorization", testCase.header)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, testCase.wantStatus, rr.Code)
			if testCase.wantError != "" {
				assert.Equal(t, testCase.wantError, decodeError(t, rr))
			} else {
				assert.Equal(t, "u1", rr.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	provider, token := newProvider(t)

	r := gin.New()
	r.GET("/who", OptionalAuth(provider), func(c *gin.Context) {
		if id, ok := auth.IdentityFrom(c); ok {
			c.String(http.StatusOK, id.UID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	for header, want := range map[string]string{
		"":                "anonymous",
		"Bearer garbage":  "anonymous",
		"Bearer " + token: "u1",
	} {
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, want, rr.Body.String())
	}
}

type stubLimiter struct {
	res *redis_rate.Result
	err error
}

func (s stubLimiter) Allow(context.Context, string, redis_rate.Limit) (*redis_rate.Result, error) {
	return s.res, s.err
}

func TestRateLimitRejectsWithRetryAfter(t *testing.T) {
	m := metrics.NewTestManager()
	limiter := stubLimiter{res: &redis_rate.Result{Allowed: 0, RetryAfter: 1500 * time.Millisecond}}

	r := gin.New()
	r.GET("/api/x", RateLimit(limiter, NewLimit(100, 15*time.Minute), m), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/x", nil))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("Retry-After"))
	assert.Equal(t, "Too many requests from this IP, please try again later.", decodeError(t, rr))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterRateLimited))
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := gin.New()
	r.GET("/api/x", RateLimit(stubLimiter{err: errors.New("redis down")}, NewLimit(1, time.Minute), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMemoryLimiterPerKey(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	limit := NewLimit(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "ip-a", limit)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Allowed, "request %d", i)
		assert.Equal(t, 2-i, res.Remaining)
	}

	now = now.Add(20 * time.Second)
	res, err := l.Allow(ctx, "ip-a", limit)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Allowed)
	assert.Equal(t, 40*time.Second, res.RetryAfter)

	// other clients are unaffected
	res, err = l.Allow(ctx, "ip-b", limit)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Allowed)

	// the whole quota comes back once the window ends
	now = now.Add(40 * time.Second)
	for i := 0; i < 3; i++ {
		res, err = l.Allow(ctx, "ip-a", limit)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Allowed, "request %d", i)
	}
}

func TestMemoryLimiterAdmitsExactlyQuotaPerWindow(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	limit := NewLimit(100, 15*time.Minute)

	allowed := 0
	for i := 0; i < int((15 * time.Minute).Seconds()); i++ {
		res, err := l.Allow(context.Background(), "ip-a", limit)
		require.NoError(t, err)
		allowed += res.Allowed
		now = now.Add(time.Second)
	}

	assert.Equal(t, 100, allowed)
}

func TestMemoryLimiterSweepsEndedWindows(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	limit := NewLimit(3, time.Minute)

	_, _ = l.Allow(context.Background(), "ip-a", limit)
	now = now.Add(2 * time.Minute)
	_, _ = l.Allow(context.Background(), "ip-b", limit)

	assert.NotContains(t, l.windows, "ip-a")
	assert.Contains(t, l.windows, "ip-b")
}

func TestRedisLimiter(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewRedisLimiter(db)
	limit := NewLimit(2, time.Minute)
	key := "ratelimit:203.0.113.7"
	hash := fixedWindowScript.Hash()

	mock.ExpectEvalSha(hash, []string{key}, int64(60000)).SetVal([]interface{}{int64(2), int64(30000)})
	res, err := l.Allow(context.Background(), key, limit)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	mock.ExpectEvalSha(hash, []string{key}, int64(60000)).SetVal([]interface{}{int64(3), int64(29500)})
	res, err = l.Allow(context.Background(), key, limit)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Allowed)
	assert.Equal(t, 29500*time.Millisecond, res.RetryAfter)

	mock.ExpectEvalSha(hash, []string{key}, int64(60000)).SetErr(errors.New("connection refused"))
	_, err = l.Allow(context.Background(), key, limit)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/echo", BodyLimit(8), func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusBadRequest)
			return
		}
		c.String(http.StatusOK, string(b))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "small", rr.Body.String())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("much too large")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "Request entity too large", decodeError(t, rr))

	// unknown length is cut off while reading
	req := httptest.NewRequest(http.MethodPost, "/echo", io.MultiReader(strings.NewReader("much too "), strings.NewReader("large")))
	req.ContentLength = -1
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestRecovery(t *testing.T) {
	testCases := []struct {
		name       string
		production bool
		wantError  string
	}{
		{name: "development exposes message", production: false, wantError: "kaboom"},
		{name: "production hides message", production: true, wantError: "Internal server error"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			m := metrics.NewTestManager()
			r := gin.New()
			r.Use(Recovery(testCase.production, m))
			r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Equal(t, testCase.wantError, decodeError(t, rr))
			assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterHandleRequestPanic))
		})
	}
}

func TestRequestTraceKeepsBodyAndSetsHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestTrace())
	r.POST("/echo", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(b))
	})

	payload := strings.Repeat("x", 3000)
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(payload))
	req.Header.Set("X-Request-Id", "req-42")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, payload, rr.Body.String())
	assert.Equal(t, "req-42", rr.Header().Get("X-Request-Id"))
}

func TestRequestMetrics(t *testing.T) {
	m := metrics.NewTestManager()
	r := gin.New()
	r.Use(RequestMetrics(m))
	r.GET("/api/blogs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/blogs/abc", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "/api/blogs/:id", "200")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.GaugeRequests))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:3000"))
	r.GET("/api/blogs", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/blogs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
