// Package gateway fronts every inbound request: it establishes caller
// identity from the signed session cookie, enforces role-based access, and
// throttles request volume before anything reaches a handler.
package gateway

import (
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/promptacademy/backend/domain"
	"github.com/promptacademy/backend/internal/ratelimit"
	"github.com/promptacademy/backend/internal/routes"
	"github.com/promptacademy/backend/internal/session"
	"github.com/promptacademy/backend/internal/token"
	"github.com/promptacademy/backend/pkg/httpcontext"
)

// Identity headers asserted towards downstream handlers. They are set only
// after successful verification and are stripped from every inbound request
// first, so handlers can trust them unconditionally.
const (
	HeaderUserID    = "x-user-id"
	HeaderUserRole  = "x-user-role"
	HeaderUserEmail = "x-user-email"
)

const loginPath = "/login"

// Gateway wires the route classifier, token codec, cookie manager, and rate
// limiter into a single admission decision per request. It holds no mutable
// state of its own; only the limiter's table changes under traffic.
type Gateway struct {
	classifier *routes.Classifier
	codec      *token.Codec
	cookies    *session.CookieManager
	limiter    *ratelimit.Limiter
	logger     *zap.Logger
	now        func() time.Time
}

// New builds a gateway from its collaborators.
func New(
	classifier *routes.Classifier,
	codec *token.Codec,
	cookies *session.CookieManager,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		classifier: classifier,
		codec:      codec,
		cookies:    cookies,
		limiter:    limiter,
		logger:     logger,
		now:        time.Now,
	}
}

// Wrap returns a handler that runs the full admission state machine and, on
// success, forwards to next with identity asserted via headers.
func (g *Gateway) Wrap(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		stripIdentityHeaders(ctx)

		path := string(ctx.Path())
		access := g.classifier.Classify(path)
		isAPI := routes.IsAPI(path)

		if access.Public {
			// public API routes are still throttled per source address
			if isAPI && !g.admit(ctx, path, ratelimit.IPKey(httpcontext.ClientIP(ctx))) {
				return
			}
			next(ctx)
			return
		}

		claims, err := g.authenticate(ctx)
		if err != nil {
			if isAPI {
				// a failed-auth caller must not bypass throttling
				if !g.admit(ctx, path, ratelimit.IPKey(httpcontext.ClientIP(ctx))) {
					return
				}
				g.logger.Info("request rejected",
					zap.String("path", path),
					zap.String("reason", "invalid or missing token"),
				)
				writeUnauthorized(ctx, fasthttp.StatusUnauthorized)
				return
			}
			g.redirectToLogin(ctx)
			return
		}

		if len(access.RequiredRoles) > 0 && !claims.Role.In(access.RequiredRoles) {
			g.logger.Info("request rejected",
				zap.String("path", path),
				zap.String("subject", claims.SubjectID),
				zap.String("role", string(claims.Role)),
				zap.String("reason", "role denied"),
			)
			writeUnauthorized(ctx, fasthttp.StatusForbidden)
			return
		}

		if isAPI && !g.admit(ctx, path, ratelimit.UserKey(claims.SubjectID)) {
			return
		}

		assertIdentity(ctx, claims)
		next(ctx)
	}
}

// authenticate reads and verifies the access-token cookie.
func (g *Gateway) authenticate(ctx *fasthttp.RequestCtx) (domain.SessionClaims, error) {
	raw, ok := g.cookies.ReadAccessToken(ctx)
	if !ok {
		return domain.SessionClaims{}, domain.ErrNoToken
	}
	return g.codec.Verify(raw)
}

// admit charges the request against key and writes the 429 response when the
// window is exhausted. The charge is not rolled back if the client aborts.
func (g *Gateway) admit(ctx *fasthttp.RequestCtx, path, key string) bool {
	decision := g.limiter.Admit(key, g.now())
	if decision.Allowed {
		return true
	}
	g.logger.Error("rate limit exceeded",
		zap.String("path", path),
		zap.String("key", key),
		zap.Int("count", decision.Count),
		zap.Int("retry_after", decision.RetryAfter),
	)
	writeRateExceeded(ctx, decision.RetryAfter)
	return false
}

func (g *Gateway) redirectToLogin(ctx *fasthttp.RequestCtx) {
	target := loginPath + "?redirect=" + url.QueryEscape(string(ctx.RequestURI()))
	ctx.Redirect(target, fasthttp.StatusFound)
}

func stripIdentityHeaders(ctx *fasthttp.RequestCtx) {
	ctx.Request.Header.Del(HeaderUserID)
	ctx.Request.Header.Del(HeaderUserRole)
	ctx.Request.Header.Del(HeaderUserEmail)
}

func assertIdentity(ctx *fasthttp.RequestCtx, claims domain.SessionClaims) {
	ctx.Request.Header.Set(HeaderUserID, claims.SubjectID)
	ctx.Request.Header.Set(HeaderUserRole, string(claims.Role))
	ctx.Request.Header.Set(HeaderUserEmail, claims.Email)
}
