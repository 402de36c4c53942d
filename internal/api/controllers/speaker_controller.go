package controllers

import (
	"errors"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/pagecraft/pagecraft/internal/api/authz"
	"github.com/pagecraft/pagecraft/internal/api/response"
	"github.com/pagecraft/pagecraft/internal/perrors"
	"github.com/pagecraft/pagecraft/internal/services"
	speaker2 "github.com/pagecraft/pagecraft/internal/services/speaker"
	"github.com/valyala/fasthttp"
)

func RegisterSpeakerRoutes(r *router.Router, svc *services.Services, resolver *authz.Resolver) {
	read := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(readerRoles...)}
	write := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(editorRoles...)}

	// List speakers, optional ?featured=true filter
	r.GET("/api/speakers", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		speakers, err := svc.Speaker.List(stdCtx, rc.TenantID, boolQuery(ctx, "featured"))
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to list speakers", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, speakers)
	}, read...))

	// Get speaker
	r.GET("/api/speakers/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid speaker id", err))
			return
		}

		sp, err := svc.Speaker.Get(stdCtx, rc.TenantID, id)
		if err != nil {
			if errors.Is(err, speaker2.ErrSpeakerNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Speaker not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to get speaker", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, sp)
	}, read...))

	// Create speaker
	r.POST("/api/speakers", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		var body speaker2.CreateSpeakerRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		created, err := svc.Speaker.Create(stdCtx, rc.TenantID, &body)
		if err != nil {
			if errors.Is(err, speaker2.ErrNameRequired) {
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to create speaker", err))
			return
		}

		response.WriteJSON(ctx, http.StatusCreated, created)
	}, write...))

	// Update speaker
	r.PUT("/api/speakers/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid speaker id", err))
			return
		}

		var body speaker2.UpdateSpeakerRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Speaker.Update(stdCtx, rc.TenantID, id, &body)
		if err != nil {
			if errors.Is(err, speaker2.ErrSpeakerNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Speaker not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to update speaker", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, updated)
	}, write...))

	// Delete speaker
	r.DELETE("/api/speakers/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid speaker id", err))
			return
		}

		if err := svc.Speaker.Delete(stdCtx, rc.TenantID, id); err != nil {
			if errors.Is(err, speaker2.ErrSpeakerNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Speaker not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to delete speaker", err))
			return
		}

		response.NoContent(ctx)
	}, write...))
}
