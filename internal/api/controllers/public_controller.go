package controllers

import (
	"errors"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/pagecraft/pagecraft/internal/api/authz"
	"github.com/pagecraft/pagecraft/internal/api/response"
	"github.com/pagecraft/pagecraft/internal/pagecache"
	"github.com/pagecraft/pagecraft/internal/perrors"
	"github.com/pagecraft/pagecraft/internal/services"
	event2 "github.com/pagecraft/pagecraft/internal/services/event"
	page2 "github.com/pagecraft/pagecraft/internal/services/page"
	registration2 "github.com/pagecraft/pagecraft/internal/services/registration"
	tenant2 "github.com/pagecraft/pagecraft/internal/services/tenant"
	"github.com/valyala/fasthttp"
)

// RegisterPublicRoutes mounts the unauthenticated public site surface. All
// lookups are published-only; cache may be nil when Redis is not configured.
func RegisterPublicRoutes(r *router.Router, svc *services.Services, cache *pagecache.PageCache, resolver *authz.Resolver) {
	// Published homepage of a tenant
	r.GET("/api/public/{tenantSlug}/homepage", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		t, ok := publicTenant(ctx, svc)
		if !ok {
			return
		}

		if cache != nil {
			if p, err := cache.GetHomepage(stdCtx, t.ID); err == nil {
				response.WriteJSON(ctx, http.StatusOK, p)
				return
			}
		}

		p, err := svc.Page.GetPublishedHomepage(stdCtx, t.ID)
		if err != nil {
			if errors.Is(err, page2.ErrPageNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Page not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to load page", err))
			return
		}

		if cache != nil {
			cache.SetHomepage(stdCtx, p)
		}

		response.WriteJSON(ctx, http.StatusOK, p)
	})

	// Published page by slug
	r.GET("/api/public/{tenantSlug}/pages/{slug}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		t, ok := publicTenant(ctx, svc)
		if !ok {
			return
		}

		slug, err := pathParam(ctx, "slug")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid page slug", err))
			return
		}

		if cache != nil {
			if p, err := cache.GetBySlug(stdCtx, t.ID, slug); err == nil {
				response.WriteJSON(ctx, http.StatusOK, p)
				return
			}
		}

		p, err := svc.Page.GetPublishedBySlug(stdCtx, t.ID, slug)
		if err != nil {
			if errors.Is(err, page2.ErrPageNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Page not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to load page", err))
			return
		}

		if cache != nil {
			cache.Set(stdCtx, p)
		}

		response.WriteJSON(ctx, http.StatusOK, p)
	})

	// Published event by slug, with speakers
	r.GET("/api/public/{tenantSlug}/events/{slug}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		t, ok := publicTenant(ctx, svc)
		if !ok {
			return
		}

		slug, err := pathParam(ctx, "slug")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid event slug", err))
			return
		}

		e, err := svc.Event.GetPublishedBySlug(stdCtx, t.ID, slug)
		if err != nil {
			if errors.Is(err, event2.ErrEventNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Event not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to load event", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, e)
	})

	// Public event registration. Auth is optional: anonymous registrations are
	// fine, but a logged-in attendee is linked to their account.
	r.POST("/api/public/registrations", resolver.Optional(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var body registration2.CreateRegistrationRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		if rc := authz.FromRequest(ctx); rc.Authenticated() {
			userID := rc.UserID()
			body.UserID = &userID
		}

		created, err := svc.Registration.Register(stdCtx, &body)
		if err != nil {
			switch {
			case errors.Is(err, registration2.ErrEventRequired),
				errors.Is(err, registration2.ErrEmailRequired),
				errors.Is(err, registration2.ErrFullNameRequired):
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
			case errors.Is(err, event2.ErrEventNotFound):
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Event not found", err))
			case errors.Is(err, registration2.ErrRegistrationClosed),
				errors.Is(err, registration2.ErrDeadlinePassed),
				errors.Is(err, registration2.ErrEventFull):
				response.WriteError(ctx, stdCtx, perrors.NewErrForbidden(err.Error(), err))
			case errors.Is(err, registration2.ErrDuplicateRegistration):
				response.WriteError(ctx, stdCtx, perrors.NewErrConflict(err.Error(), err))
			default:
				response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to register", err))
			}
			return
		}

		response.WriteJSON(ctx, http.StatusCreated, created)
	}))
}

// publicTenant resolves the tenant slug of a public route. On failure it
// writes the error response and returns false.
func publicTenant(ctx *fasthttp.RequestCtx, svc *services.Services) (*tenant2.Tenant, bool) {
	stdCtx := requestContext(ctx)

	slug, err := pathParam(ctx, "tenantSlug")
	if err != nil {
		response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid tenant slug", err))
		return nil, false
	}

	t, err := svc.Tenant.GetBySlug(stdCtx, slug)
	if err != nil {
		if errors.Is(err, tenant2.ErrTenantNotFound) {
			response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Tenant not found", err))
			return nil, false
		}
		response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to resolve tenant", err))
		return nil, false
	}

	return t, true
}
