package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/promptacademy/backend/internal/ratelimit"
	"github.com/promptacademy/backend/pkg/httpcontext"
)

// AdminHandler serves the ADMIN-only API surface. The gateway guarantees
// the role before any of these run.
type AdminHandler struct {
	baseHandler
	limiter   *ratelimit.Limiter
	startedAt time.Time
}

func NewAdminHandler(limiter *ratelimit.Limiter, adapter *httpcontext.Adapter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		baseHandler: newBaseHandler(adapter, logger),
		limiter:     limiter,
		startedAt:   time.Now(),
	}
}

type adminStats struct {
	RequestedBy   string  `json:"requested_by"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	RateLimitKeys int     `json:"rate_limit_keys"`
	ServerTimeUTC string  `json:"server_time_utc"`
}

// Stats reports process-level gateway statistics.
func (h *AdminHandler) Stats(ctx *fasthttp.RequestCtx) {
	userID, _, _ := identity(ctx)

	h.respondSuccess(ctx, http.StatusOK, adminStats{
		RequestedBy:   userID,
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		RateLimitKeys: h.limiter.Len(),
		ServerTimeUTC: time.Now().UTC().Format(time.RFC3339),
	})
}
