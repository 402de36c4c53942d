package controllers

import (
	"errors"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/pagecraft/pagecraft/internal/api/authz"
	"github.com/pagecraft/pagecraft/internal/api/response"
	"github.com/pagecraft/pagecraft/internal/perrors"
	"github.com/pagecraft/pagecraft/internal/services"
	template2 "github.com/pagecraft/pagecraft/internal/services/template"
	"github.com/valyala/fasthttp"
)

func RegisterTemplateRoutes(r *router.Router, svc *services.Services, resolver *authz.Resolver) {
	read := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(readerRoles...)}
	write := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(editorRoles...)}

	// List templates (own plus public catalog), optional ?category= filter
	r.GET("/api/templates", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		templates, err := svc.Template.List(stdCtx, rc.TenantID, stringQuery(ctx, "category"))
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to list templates", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, templates)
	}, read...))

	// Get template
	r.GET("/api/templates/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid template id", err))
			return
		}

		t, err := svc.Template.Get(stdCtx, rc.TenantID, id)
		if err != nil {
			if errors.Is(err, template2.ErrTemplateNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Template not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to get template", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, t)
	}, read...))

	// Create template
	r.POST("/api/templates", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		var body template2.CreateTemplateRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		created, err := svc.Template.Create(stdCtx, rc.TenantID, rc.UserID(), &body)
		if err != nil {
			if errors.Is(err, template2.ErrNameRequired) {
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to create template", err))
			return
		}

		response.WriteJSON(ctx, http.StatusCreated, created)
	}, write...))

	// Duplicate a template into a tenant-owned copy
	r.POST("/api/templates/{id}/duplicate", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid template id", err))
			return
		}

		copied, err := svc.Template.Duplicate(stdCtx, rc.TenantID, id, rc.UserID())
		if err != nil {
			if errors.Is(err, template2.ErrTemplateNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Template not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to duplicate template", err))
			return
		}

		response.WriteJSON(ctx, http.StatusCreated, copied)
	}, write...))

	// Delete a tenant-owned template
	r.DELETE("/api/templates/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid template id", err))
			return
		}

		if err := svc.Template.Delete(stdCtx, rc.TenantID, id); err != nil {
			if errors.Is(err, template2.ErrTemplateNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Template not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to delete template", err))
			return
		}

		response.NoContent(ctx)
	}, write...))
}
