package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/promptacademy/backend/api/transport"
	"github.com/promptacademy/backend/domain"
	"github.com/promptacademy/backend/pkg/httpcontext"
	authUC "github.com/promptacademy/backend/usecase/auth"
)

// ProfileHandler serves the signed-in caller's account view. It trusts the
// identity headers asserted by the gateway and never reads credentials
// itself.
type ProfileHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewProfileHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Get resolves the asserted subject to its stored account.
func (h *ProfileHandler) Get(ctx *fasthttp.RequestCtx) {
	userID, _, _ := identity(ctx)
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.CurrentUser(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, userPayload(user))
}
