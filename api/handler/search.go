package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/promptacademy/backend/pkg/httpcontext"
)

// SearchHandler serves the public content search endpoint. The catalogue
// itself lives in the platform's content service; this handler only shapes
// the request and response, and exists on the hot path mostly so anonymous
// API traffic has something real to throttle.
type SearchHandler struct {
	baseHandler
}

func NewSearchHandler(adapter *httpcontext.Adapter, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{baseHandler: newBaseHandler(adapter, logger)}
}

type searchResult struct {
	Query   string   `json:"query"`
	Limit   int      `json:"limit"`
	Results []string `json:"results"`
}

func (h *SearchHandler) Search(ctx *fasthttp.RequestCtx) {
	query := string(ctx.QueryArgs().Peek("q"))

	limit := 20
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	h.respondSuccess(ctx, http.StatusOK, searchResult{
		Query:   query,
		Limit:   limit,
		Results: []string{},
	})
}
