package controllers

import (
	"errors"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/pagecraft/pagecraft/internal/api/authz"
	"github.com/pagecraft/pagecraft/internal/api/response"
	"github.com/pagecraft/pagecraft/internal/perrors"
	"github.com/pagecraft/pagecraft/internal/services"
	event2 "github.com/pagecraft/pagecraft/internal/services/event"
	registration2 "github.com/pagecraft/pagecraft/internal/services/registration"
	"github.com/valyala/fasthttp"
)

func RegisterRegistrationRoutes(r *router.Router, svc *services.Services, resolver *authz.Resolver) {
	manage := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(editorRoles...)}

	// List an event's registrations, optional ?status= filter
	r.GET("/api/events/{id}/registrations", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		eventID, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid event id", err))
			return
		}

		registrations, err := svc.Registration.ListByEvent(stdCtx, rc.TenantID, eventID,
			registration2.RegistrationStatus(stringQuery(ctx, "status")))
		if err != nil {
			switch {
			case errors.Is(err, registration2.ErrInvalidStatus):
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
			case errors.Is(err, event2.ErrEventNotFound):
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Event not found", err))
			default:
				response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to list registrations", err))
			}
			return
		}

		response.WriteJSON(ctx, http.StatusOK, registrations)
	}, manage...))

	// Transition a registration's status
	r.PATCH("/api/registrations/{id}/status", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid registration id", err))
			return
		}

		var body registration2.UpdateStatusRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Registration.UpdateStatus(stdCtx, rc.TenantID, id, body.Status)
		if err != nil {
			switch {
			case errors.Is(err, registration2.ErrInvalidStatus):
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
			case errors.Is(err, registration2.ErrRegistrationNotFound), errors.Is(err, event2.ErrEventNotFound):
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Registration not found", err))
			default:
				response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to update registration", err))
			}
			return
		}

		response.WriteJSON(ctx, http.StatusOK, updated)
	}, manage...))

	// Cancel a registration
	r.POST("/api/registrations/{id}/cancel", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid registration id", err))
			return
		}

		cancelled, err := svc.Registration.Cancel(stdCtx, rc.TenantID, id)
		if err != nil {
			if errors.Is(err, registration2.ErrRegistrationNotFound) || errors.Is(err, event2.ErrEventNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Registration not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to cancel registration", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, cancelled)
	}, manage...))
}
