package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/pagecraft/pagecraft/internal/perrors"
)

// exposeStacktrace is set once at server startup and never mutated afterwards.
// Production deployments keep stack traces out of response bodies.
var exposeStacktrace = true

func Configure(production bool) {
	exposeStacktrace = !production
}

type errorBody struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details any      `json:"details,omitempty"`
	Stack   []string `json:"stack,omitempty"`
}

// WriteJSON sets the `content-type` to `application/json` and writes data with
// the given status code.
func WriteJSON(ctx *fasthttp.RequestCtx, status int, data any) {
	ctx.Response.Header.Set("content-type", "application/json")
	ctx.SetStatusCode(status)

	if data == nil {
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Unable to json encode response", slog.Any("error", err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}

	ctx.SetBody(body)
}

// WriteError maps a pipeline or handler failure to the JSON failure body
// {"error": ..., "code": ..., "details": ...}. Errors that are not perrors.Err
// are treated as unexpected internal failures.
func WriteError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	var perr perrors.Err
	if !errors.As(err, &perr) {
		perr = perrors.NewErrInternalServerError("Internal server error", err).(perrors.Err)
	}

	perr.Print(stdCtx)

	body := errorBody{
		Error:   perr.Message,
		Code:    perr.Code.Code,
		Details: perr.Details,
	}
	if exposeStacktrace {
		body.Stack = perr.Stacktrace
	}

	WriteJSON(ctx, perr.HttpStatus(), body)
}

// NoContent writes an empty 204 response.
func NoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusNoContent)
	ctx.Response.ResetBody()
}
