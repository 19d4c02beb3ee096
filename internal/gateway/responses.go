package gateway

import (
	"encoding/json"
	"strconv"

	"github.com/valyala/fasthttp"
)

// Client-facing rejection bodies. Deliberately generic: the 401 and 403
// payloads are identical so callers cannot tell a missing credential from an
// insufficient one, and nothing from the failed check leaks out.

type unauthorizedBody struct {
	Message string `json:"message"`
}

type rateExceededBody struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

func writeUnauthorized(ctx *fasthttp.RequestCtx, status int) {
	writeJSON(ctx, status, unauthorizedBody{Message: "Unauthorized"})
}

func writeRateExceeded(ctx *fasthttp.RequestCtx, retryAfter int) {
	ctx.Response.Header.Set(fasthttp.HeaderRetryAfter, strconv.Itoa(retryAfter))
	writeJSON(ctx, fasthttp.StatusTooManyRequests, rateExceededBody{
		Error:      "Too many requests",
		RetryAfter: retryAfter,
	})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}
