package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/promptacademy/backend/pkg/httpcontext"
)

// PageHandler terminates browser navigation routes. Actual page rendering
// belongs to the frontend layer; these handlers only acknowledge that a
// request made it through the gateway so the forward and redirect paths of
// the state machine have a destination.
type PageHandler struct {
	baseHandler
}

func NewPageHandler(adapter *httpcontext.Adapter, logger *zap.Logger) *PageHandler {
	return &PageHandler{baseHandler: newBaseHandler(adapter, logger)}
}

func (h *PageHandler) Home(ctx *fasthttp.RequestCtx) {
	h.page(ctx, "home")
}

func (h *PageHandler) Login(ctx *fasthttp.RequestCtx) {
	h.page(ctx, "login")
}

func (h *PageHandler) Signup(ctx *fasthttp.RequestCtx) {
	h.page(ctx, "signup")
}

func (h *PageHandler) ForgotPassword(ctx *fasthttp.RequestCtx) {
	h.page(ctx, "forgot-password")
}

// Dashboard is only reachable with a verified USER or ADMIN identity.
func (h *PageHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	userID, role, _ := identity(ctx)
	h.respondSuccess(ctx, http.StatusOK, map[string]string{
		"page":    "dashboard",
		"user_id": userID,
		"role":    role,
	})
}

// Admin is only reachable with a verified ADMIN identity.
func (h *PageHandler) Admin(ctx *fasthttp.RequestCtx) {
	userID, role, _ := identity(ctx)
	h.respondSuccess(ctx, http.StatusOK, map[string]string{
		"page":    "admin",
		"user_id": userID,
		"role":    role,
	})
}

func (h *PageHandler) page(ctx *fasthttp.RequestCtx, name string) {
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"page": name})
}
