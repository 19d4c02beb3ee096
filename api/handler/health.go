package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/promptacademy/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	startedAt time.Time
}

func NewHealthHandler(adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		startedAt:   time.Now(),
	}
}

// Check reports liveness. The gateway holds no external connections, so
// a responding process is a healthy one.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"timestamp":      time.Now().UTC(),
		"uptime_seconds": time.Since(h.startedAt).Seconds(),
	})
}
