package authz

import (
	"context"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/api/authenticator"
	"github.com/pagecraft/pagecraft/internal/services/profile"
	"github.com/valyala/fasthttp"
)

const requestContextKey = "requestContext"

// RequestContext is the per-request authorization state produced by the
// pipeline: who the caller is and which tenant their data access is scoped to.
// It is constructed once, treated as immutable, and discarded with the request.
type RequestContext struct {
	Identity *authenticator.Identity
	Profile  *profile.Profile
	TenantID uuid.UUID // uuid.Nil when the request has no tenant context
}

// WithTenant returns a copy of the context scoped to the given tenant.
func (rc *RequestContext) WithTenant(tenantID uuid.UUID) *RequestContext {
	return &RequestContext{
		Identity: rc.Identity,
		Profile:  rc.Profile,
		TenantID: tenantID,
	}
}

// Authenticated reports whether the pipeline resolved a profile.
func (rc *RequestContext) Authenticated() bool {
	return rc != nil && rc.Profile != nil
}

// UserID returns the caller's user id, or "" for anonymous requests.
func (rc *RequestContext) UserID() string {
	if rc == nil || rc.Profile == nil {
		return ""
	}
	return rc.Profile.ID
}

func setRequestContext(ctx *fasthttp.RequestCtx, rc *RequestContext) {
	ctx.SetUserValue(requestContextKey, rc)
}

// FromRequest returns the pipeline's RequestContext, or nil when no auth
// middleware ran for this route.
func FromRequest(ctx *fasthttp.RequestCtx) *RequestContext {
	rc, _ := ctx.UserValue(requestContextKey).(*RequestContext)
	return rc
}

// requestContext returns the baseline context for downstream calls, carrying
// the extracted trace context when the outer middleware stored one.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return traceCtx
	}
	return context.Background()
}
