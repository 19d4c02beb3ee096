package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/promptacademy/backend/api/transport"
	"github.com/promptacademy/backend/domain"
	"github.com/promptacademy/backend/internal/session"
	"github.com/promptacademy/backend/pkg/httpcontext"
	authUC "github.com/promptacademy/backend/usecase/auth"
)

// AuthHandler exposes the credential flows. Login, signup, and refresh are
// public routes; logout and me sit behind the gateway.
type AuthHandler struct {
	baseHandler
	uc      *authUC.UseCase
	cookies *session.CookieManager
}

func NewAuthHandler(uc *authUC.UseCase, cookies *session.CookieManager, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		cookies:     cookies,
	}
}

// Login exchanges email/password for the cookie pair.
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Email == "" || req.Password == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, pair, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.cookies.SetAccess(ctx, pair.Access)
	h.cookies.SetRefresh(ctx, pair.Refresh)
	h.respondSuccess(ctx, http.StatusOK, userPayload(user))
}

// Signup registers an account and logs it straight in.
func (h *AuthHandler) Signup(ctx *fasthttp.RequestCtx) {
	var req transport.SignupRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Email == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, pair, err := h.uc.Signup(stdCtx, req.Email, req.Password, req.Name)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.cookies.SetAccess(ctx, pair.Access)
	h.cookies.SetRefresh(ctx, pair.Refresh)
	h.respondSuccess(ctx, http.StatusCreated, userPayload(user))
}

// Refresh trades a valid refresh cookie for a fresh access cookie.
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	refreshToken, ok := h.cookies.ReadRefreshToken(ctx)
	if !ok {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "no refresh token", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, access, err := h.uc.Refresh(stdCtx, refreshToken)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.cookies.SetAccess(ctx, access)
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "token refreshed"})
}

// Logout clears both cookies and records the event.
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	userID, role, email := identity(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.uc.Logout(stdCtx, domain.SessionClaims{
		SubjectID: userID,
		Role:      domain.Role(role),
		Email:     email,
	})

	h.cookies.ClearAll(ctx)
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me echoes the verified caller's account.
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	userID, _, _ := identity(ctx)
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "not authenticated", nil))
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
