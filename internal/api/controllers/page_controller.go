package controllers

import (
	"errors"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/pagecraft/pagecraft/internal/api/authz"
	"github.com/pagecraft/pagecraft/internal/api/response"
	"github.com/pagecraft/pagecraft/internal/perrors"
	"github.com/pagecraft/pagecraft/internal/services"
	page2 "github.com/pagecraft/pagecraft/internal/services/page"
	"github.com/valyala/fasthttp"
)

func RegisterPageRoutes(r *router.Router, svc *services.Services, resolver *authz.Resolver) {
	read := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(readerRoles...)}
	write := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(editorRoles...)}

	// List pages
	r.GET("/api/pages", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		pages, err := svc.Page.List(stdCtx, rc.TenantID)
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to list pages", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, pages)
	}, read...))

	// Get page
	r.GET("/api/pages/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid page id", err))
			return
		}

		p, err := svc.Page.Get(stdCtx, rc.TenantID, id)
		if err != nil {
			if errors.Is(err, page2.ErrPageNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Page not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to get page", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, p)
	}, read...))

	// Create page
	r.POST("/api/pages", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		var body page2.CreatePageRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		created, err := svc.Page.Create(stdCtx, rc.TenantID, rc.UserID(), &body)
		if err != nil {
			switch {
			case errors.Is(err, page2.ErrNameRequired), errors.Is(err, page2.ErrSlugRequired):
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
			case errors.Is(err, page2.ErrSlugTaken):
				response.WriteError(ctx, stdCtx, perrors.NewErrConflict("A page with this slug already exists", err))
			default:
				response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to create page", err))
			}
			return
		}

		response.WriteJSON(ctx, http.StatusCreated, created)
	}, write...))

	// Update page
	r.PUT("/api/pages/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid page id", err))
			return
		}

		var body page2.UpdatePageRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Page.Update(stdCtx, rc.TenantID, id, rc.UserID(), &body)
		if err != nil {
			switch {
			case errors.Is(err, page2.ErrInvalidStatus):
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
			case errors.Is(err, page2.ErrPageNotFound):
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Page not found", err))
			case errors.Is(err, page2.ErrSlugTaken):
				response.WriteError(ctx, stdCtx, perrors.NewErrConflict("A page with this slug already exists", err))
			default:
				response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to update page", err))
			}
			return
		}

		response.WriteJSON(ctx, http.StatusOK, updated)
	}, write...))

	// Publish page
	r.POST("/api/pages/{id}/publish", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid page id", err))
			return
		}

		published, err := svc.Page.Publish(stdCtx, rc.TenantID, id, rc.UserID())
		if err != nil {
			if errors.Is(err, page2.ErrPageNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Page not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to publish page", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, published)
	}, write...))

	// Delete page
	r.DELETE("/api/pages/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid page id", err))
			return
		}

		if err := svc.Page.Delete(stdCtx, rc.TenantID, id); err != nil {
			if errors.Is(err, page2.ErrPageNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Page not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to delete page", err))
			return
		}

		response.NoContent(ctx)
	}, write...))
}
