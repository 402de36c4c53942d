package response

import (
	"context"
	"errors"
	"net/http"
	"testing"

	json "github.com/bytedance/sonic"
	"github.com/pagecraft/pagecraft/internal/perrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestWriteJSON(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}

	WriteJSON(ctx, http.StatusCreated, map[string]string{"slug": "homepage"})

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.Peek("content-type")))
	assert.JSONEq(t, `{"slug":"homepage"}`, string(ctx.Response.Body()))
}

func TestWriteJSONNilBody(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}

	WriteJSON(ctx, http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Response.Body())
}

func TestWriteErrorBodyShape(t *testing.T) {
	Configure(false)
	defer Configure(false)

	ctx := &fasthttp.RequestCtx{}
	cause := errors.New("sql: no rows in result set")

	WriteError(ctx, context.Background(), perrors.NewErrNotFound("Page not found", cause))

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())

	var body map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, "Page not found", body["error"])
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.NotContains(t, body, "details")
	assert.Contains(t, body, "stack")

	// The wrapped cause never reaches the response body
	assert.NotContains(t, string(ctx.Response.Body()), cause.Error())
}

func TestWriteErrorHidesStackInProduction(t *testing.T) {
	Configure(true)
	defer Configure(false)

	ctx := &fasthttp.RequestCtx{}
	WriteError(ctx, context.Background(), perrors.NewErrBadRequest("Invalid request body", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.NotContains(t, body, "stack")
}

func TestWriteErrorUnknownError(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}

	WriteError(ctx, context.Background(), errors.New("unexpected"))

	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())

	var body map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body["code"])
}

func TestWriteErrorDetails(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}

	WriteError(ctx, context.Background(), perrors.NewErrForbidden("Insufficient permissions", nil, map[string]any{
		"required": []string{"admin", "owner"},
		"current":  "viewer",
	}))

	var body struct {
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, "viewer", body.Details["current"])
}

func TestNoContent(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}

	NoContent(ctx)

	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Response.Body())
}
