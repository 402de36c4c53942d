package controllers

import (
	"context"
	"errors"
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/services/profile"
	"github.com/valyala/fasthttp"
)

// Role sets used by the route guards. Reads are open to every member of the
// tenant; content mutations need editor or better; the admin surface is
// super_admin only.
var (
	readerRoles = []profile.Role{profile.RoleViewer, profile.RoleEditor, profile.RoleAdmin, profile.RoleOwner, profile.RoleSuperAdmin}
	editorRoles = []profile.Role{profile.RoleEditor, profile.RoleAdmin, profile.RoleOwner, profile.RoleSuperAdmin}
	adminRoles  = []profile.Role{profile.RoleAdmin, profile.RoleOwner, profile.RoleSuperAdmin}
)

type middleware = func(fasthttp.RequestHandler) fasthttp.RequestHandler

// chain applies middlewares left to right around the handler
func chain(h fasthttp.RequestHandler, mws ...middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// requestContext returns the baseline context for handlers, carrying the
// extracted trace context when the outer middleware stored one.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return traceCtx
	}
	return context.Background()
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamUUID(ctx *fasthttp.RequestCtx, key string) (uuid.UUID, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(val)
}

func stringQuery(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func boolQuery(ctx *fasthttp.RequestCtx, key string) bool {
	return string(ctx.QueryArgs().Peek(key)) == "true"
}
