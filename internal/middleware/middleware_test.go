package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/pkg/jwt"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newManager() *jwt.Manager {
	return jwt.NewManager("test-secret", 900, 3600)
}

func whoAmI(c *gin.Context) {
	actor := GetActor(c)
	if actor == nil {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, actor.Username)
}

func TestJWTAuth(t *testing.T) {
	m := newManager()
	r := gin.New()
	r.GET("/me", JWTAuth(m), whoAmI)

	token, err := m.GenerateAccessToken("5", "amy@example.com", "amy")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("5")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		cookie string
		status int
		body   string
	}{
		{"bearer", "Bearer " + token, "", http.StatusOK, "amy"},
		{"cookie", "", token, http.StatusOK, "amy"},
		{"missing", "", "", http.StatusUnauthorized, "Missing authorization header"},
		{"bad format", "Token " + token, "", http.StatusUnauthorized, "Invalid token"},
		{"refresh token", "Bearer " + refresh, "", http.StatusUnauthorized, "Invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.body)
		})
	}
}

func TestOptionalJWTAuth(t *testing.T) {
	m := newManager()
	r := gin.New()
	r.GET("/", OptionalJWTAuth(m), whoAmI)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestGetUserID_Anonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Zero(t, GetUserID(c))
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 8)
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestRateLimit_NoRedisPasses(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, DefaultRateLimitConfig()))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimitKey(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	cfg.PerUser = true

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "pickboard:ratelimit:ip:10.0.0.1", rateLimitKey(c, cfg))

	SetActor(c, &domain.Actor{ID: 42})
	assert.Equal(t, "pickboard:ratelimit:user:42", rateLimitKey(c, cfg))

	cfg.PerUser = false
	assert.Equal(t, "pickboard:ratelimit:ip:10.0.0.1", rateLimitKey(c, cfg))
}

func TestRateLimit_RedisErrorPasses(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	r := gin.New()
	r.Use(RateLimit(client, DefaultRateLimitConfig()))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestApplyLimit_Allowed(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	assert.True(t, applyLimit(c, DefaultRateLimitConfig(), []int64{1, 5, 0}))
	assert.False(t, c.IsAborted())
	assert.Equal(t, "120", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Remaining"))
	assert.Empty(t, w.Header().Get("Retry-After"))
}

func TestApplyLimit_Rejected(t *testing.T) {
	cases := []struct {
		waitMs int64
		retry  string
	}{
		{1500, "1"},
		{200, "1"},
		{0, "1"},
		{42000, "42"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		assert.False(t, applyLimit(c, DefaultRateLimitConfig(), []int64{0, 0, tc.waitMs}))
		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, tc.retry, w.Header().Get("Retry-After"))
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.Contains(t, w.Body.String(), "Too many requests")
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func csrfRouter(sessionOnly bool) *gin.Engine {
	r := gin.New()
	r.Use(EnsureCSRFCookie(false), CSRFProtection(sessionOnly))
	r.GET("/form", func(c *gin.Context) { c.String(http.StatusOK, GetCSRFToken(c)) })
	r.POST("/form", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestCSRF_FormRoundTrip(t *testing.T) {
	r := csrfRouter(false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	token := w.Body.String()
	require.NotEmpty(t, token)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	post := func(value string) int {
		form := url.Values{CSRFField: {value}}
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookies[0])
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, post(token))
	assert.Equal(t, http.StatusForbidden, post("wrong"))
}

func TestCSRF_SessionOnly(t *testing.T) {
	r := csrfRouter(true)

	// no session cookie: JSON clients pass
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/form", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	// session cookie without token: rejected
	req := httptest.NewRequest(http.MethodPost, "/form", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "x"})
	req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "t"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// bearer clients pass
	req = httptest.NewRequest(http.MethodPost, "/form", nil)
	req.Header.Set("Authorization", "Bearer x")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
