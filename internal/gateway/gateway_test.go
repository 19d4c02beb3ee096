package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/promptacademy/backend/domain"
	"github.com/promptacademy/backend/internal/ratelimit"
	"github.com/promptacademy/backend/internal/routes"
	"github.com/promptacademy/backend/internal/session"
	"github.com/promptacademy/backend/internal/token"
)

type testEnv struct {
	gw      *Gateway
	codec   *token.Codec
	handler fasthttp.RequestHandler

	// identity observed by the downstream handler on the last forwarded request
	forwarded bool
	userID    string
	role      string
	email     string
}

func newTestEnv(t *testing.T, maxRequests int) *testEnv {
	t.Helper()

	codec, err := token.NewCodec("gateway-test-secret", "promptacademy-test")
	require.NoError(t, err)

	env := &testEnv{codec: codec}
	env.gw = New(
		routes.DefaultClassifier(),
		codec,
		session.NewCookieManager(15*time.Minute, 7*24*time.Hour, false),
		ratelimit.New(maxRequests, time.Minute),
		zap.NewNop(),
	)
	env.handler = env.gw.Wrap(func(ctx *fasthttp.RequestCtx) {
		env.forwarded = true
		env.userID = string(ctx.Request.Header.Peek(HeaderUserID))
		env.role = string(ctx.Request.Header.Peek(HeaderUserRole))
		env.email = string(ctx.Request.Header.Peek(HeaderUserEmail))
		ctx.SetStatusCode(fasthttp.StatusOK)
	})
	return env
}

type requestOpts struct {
	cookie  string
	ip      string
	headers map[string]string
}

func (e *testEnv) do(t *testing.T, uri string, opts requestOpts) *fasthttp.RequestCtx {
	t.Helper()
	e.forwarded = false
	e.userID, e.role, e.email = "", "", ""

	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(uri)
	req.SetHost("example.com")
	if opts.cookie != "" {
		req.Header.SetCookie(session.AccessCookie, opts.cookie)
	}
	if opts.ip != "" {
		req.Header.Set("X-Forwarded-For", opts.ip)
	}
	for name, value := range opts.headers {
		req.Header.Set(name, value)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	e.handler(ctx)
	return ctx
}

func (e *testEnv) issue(t *testing.T, role domain.Role, ttl time.Duration) string {
	t.Helper()
	raw, err := e.codec.Issue(domain.SessionClaims{
		SubjectID: "user-123",
		Email:     "alice@example.com",
		Role:      role,
	}, ttl)
	require.NoError(t, err)
	return raw
}

func TestPublicPageForwardsWithoutCredential(t *testing.T) {
	env := newTestEnv(t, 100)

	ctx := env.do(t, "/", requestOpts{})
	assert.True(t, env.forwarded)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}

func TestLivenessProbeForwardsWithoutCredential(t *testing.T) {
	env := newTestEnv(t, 100)

	ctx := env.do(t, "/health", requestOpts{})
	assert.True(t, env.forwarded)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Response.Header.Peek(fasthttp.HeaderLocation))
}

func TestProtectedPageWithoutCookieRedirects(t *testing.T) {
	env := newTestEnv(t, 100)

	ctx := env.do(t, "/dashboard", requestOpts{})
	assert.False(t, env.forwarded)
	assert.Equal(t, fasthttp.StatusFound, ctx.Response.StatusCode())
	location := string(ctx.Response.Header.Peek(fasthttp.HeaderLocation))
	assert.Contains(t, location, "/login?redirect=%2Fdashboard")
}

func TestExpiredTokenOnPageRouteRedirects(t *testing.T) {
	env := newTestEnv(t, 100)
	expired := env.issue(t, domain.RoleUser, -time.Minute)

	ctx := env.do(t, "/dashboard", requestOpts{cookie: expired})
	assert.False(t, env.forwarded)
	assert.Equal(t, fasthttp.StatusFound, ctx.Response.StatusCode())
}

func TestMissingTokenOnAPIRouteReturns401(t *testing.T) {
	env := newTestEnv(t, 100)

	ctx := env.do(t, "/api/users/profile", requestOpts{ip: "203.0.113.9"})
	assert.False(t, env.forwarded)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	var body map[string]string
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, map[string]string{"message": "Unauthorized"}, body)
}

func TestUserRoleOnAdminAPIReturns403(t *testing.T) {
	env := newTestEnv(t, 100)
	userToken := env.issue(t, domain.RoleUser, time.Hour)

	ctx := env.do(t, "/api/admin/x", requestOpts{cookie: userToken})
	assert.False(t, env.forwarded)
	assert.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())

	var body map[string]string
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, "Unauthorized", body["message"])
}

func TestAdminTokenForwardedWithIdentityHeaders(t *testing.T) {
	env := newTestEnv(t, 100)
	adminToken := env.issue(t, domain.RoleAdmin, time.Hour)

	ctx := env.do(t, "/admin", requestOpts{cookie: adminToken})
	require.True(t, env.forwarded)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "user-123", env.userID)
	assert.Equal(t, "ADMIN", env.role)
	assert.Equal(t, "alice@example.com", env.email)
}

func TestProtectedAPIAcceptsAnyAuthenticatedRole(t *testing.T) {
	env := newTestEnv(t, 100)
	userToken := env.issue(t, domain.RoleUser, time.Hour)

	_ = env.do(t, "/api/users/profile", requestOpts{cookie: userToken})
	require.True(t, env.forwarded)
	assert.Equal(t, "USER", env.role)
}

func TestInboundIdentityHeadersAreStripped(t *testing.T) {
	env := newTestEnv(t, 100)

	_ = env.do(t, "/", requestOpts{headers: map[string]string{
		HeaderUserID:    "spoofed-id",
		HeaderUserRole:  "ADMIN",
		HeaderUserEmail: "spoof@example.com",
	}})
	require.True(t, env.forwarded)
	assert.Empty(t, env.userID)
	assert.Empty(t, env.role)
	assert.Empty(t, env.email)
}

func TestPublicAPIThrottledPerIP(t *testing.T) {
	env := newTestEnv(t, 2)

	for i := 0; i < 2; i++ {
		ctx := env.do(t, "/api/search?q=go", requestOpts{ip: "203.0.113.7"})
		require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), "request %d", i+1)
	}

	ctx := env.do(t, "/api/search?q=go", requestOpts{ip: "203.0.113.7"})
	assert.False(t, env.forwarded)
	assert.Equal(t, fasthttp.StatusTooManyRequests, ctx.Response.StatusCode())
	assert.NotEmpty(t, string(ctx.Response.Header.Peek(fasthttp.HeaderRetryAfter)))

	var body struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retryAfter"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, "Too many requests", body.Error)
	assert.GreaterOrEqual(t, body.RetryAfter, 1)
	assert.LessOrEqual(t, body.RetryAfter, 60)

	// a different source address has its own window
	other := env.do(t, "/api/search?q=go", requestOpts{ip: "198.51.100.4"})
	assert.Equal(t, fasthttp.StatusOK, other.Response.StatusCode())
}

func TestFailedAuthAPICallersStillCharged(t *testing.T) {
	env := newTestEnv(t, 1)

	first := env.do(t, "/api/users/profile", requestOpts{cookie: "garbage", ip: "203.0.113.8"})
	assert.Equal(t, fasthttp.StatusUnauthorized, first.Response.StatusCode())

	second := env.do(t, "/api/users/profile", requestOpts{cookie: "garbage", ip: "203.0.113.8"})
	assert.Equal(t, fasthttp.StatusTooManyRequests, second.Response.StatusCode())
}

func TestAuthenticatedAPIThrottledPerAccountNotIP(t *testing.T) {
	env := newTestEnv(t, 1)
	userToken := env.issue(t, domain.RoleUser, time.Hour)

	first := env.do(t, "/api/users/profile", requestOpts{cookie: userToken, ip: "203.0.113.1"})
	require.Equal(t, fasthttp.StatusOK, first.Response.StatusCode())

	// same account from a different address still hits the same bucket
	second := env.do(t, "/api/users/profile", requestOpts{cookie: userToken, ip: "203.0.113.2"})
	assert.Equal(t, fasthttp.StatusTooManyRequests, second.Response.StatusCode())
}

func TestRoleCheckPrecedesRateLimiting(t *testing.T) {
	env := newTestEnv(t, 1)
	userToken := env.issue(t, domain.RoleUser, time.Hour)

	for i := 0; i < 3; i++ {
		ctx := env.do(t, "/api/admin/x", requestOpts{cookie: userToken})
		assert.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode(), "request %d", i+1)
	}
}

func TestNonAPIPublicRoutesAreNeverThrottled(t *testing.T) {
	env := newTestEnv(t, 1)

	for i := 0; i < 5; i++ {
		ctx := env.do(t, "/", requestOpts{ip: "203.0.113.3"})
		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), "request %d", i+1)
	}
}
