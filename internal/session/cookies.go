// Package session manages the pair of auth cookies carried by browsers:
// a short-lived access token and a longer-lived refresh token.
package session

import (
	"time"

	"github.com/valyala/fasthttp"
)

const (
	// AccessCookie carries the access token used for per-request authorization.
	AccessCookie = "auth-token"
	// RefreshCookie carries the refresh token, read only by the refresh endpoint.
	RefreshCookie = "refresh-token"
)

// CookieManager writes and reads the auth cookie pair with fixed security
// attributes: http-only, SameSite=Strict, site-wide path, and Secure when
// running in production.
type CookieManager struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
	now        func() time.Time
}

// NewCookieManager builds a manager whose cookie expiries match the token TTLs.
func NewCookieManager(accessTTL, refreshTTL time.Duration, secure bool) *CookieManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &CookieManager{
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		secure:     secure,
		now:        time.Now,
	}
}

// SetAccess attaches the access-token cookie to the response.
func (m *CookieManager) SetAccess(ctx *fasthttp.RequestCtx, token string) {
	m.set(ctx, AccessCookie, token, m.now().Add(m.accessTTL))
}

// SetRefresh attaches the refresh-token cookie to the response.
func (m *CookieManager) SetRefresh(ctx *fasthttp.RequestCtx, token string) {
	m.set(ctx, RefreshCookie, token, m.now().Add(m.refreshTTL))
}

// ClearAll expires both cookies immediately.
func (m *CookieManager) ClearAll(ctx *fasthttp.RequestCtx) {
	epoch := time.Unix(0, 0)
	m.set(ctx, AccessCookie, "", epoch)
	m.set(ctx, RefreshCookie, "", epoch)
}

// ReadAccessToken returns the access token supplied by the request, if any.
// Absence is not an error at this layer.
func (m *CookieManager) ReadAccessToken(ctx *fasthttp.RequestCtx) (string, bool) {
	return read(ctx, AccessCookie)
}

// ReadRefreshToken returns the refresh token supplied by the request, if any.
func (m *CookieManager) ReadRefreshToken(ctx *fasthttp.RequestCtx) (string, bool) {
	return read(ctx, RefreshCookie)
}

func (m *CookieManager) set(ctx *fasthttp.RequestCtx, name, value string, expires time.Time) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(name)
	cookie.SetValue(value)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(m.secure)
	cookie.SetSameSite(fasthttp.CookieSameSiteStrictMode)
	cookie.SetExpire(expires)

	ctx.Response.Header.SetCookie(cookie)
}

func read(ctx *fasthttp.RequestCtx, name string) (string, bool) {
	value := ctx.Request.Header.Cookie(name)
	if len(value) == 0 {
		return "", false
	}
	return string(value), true
}
