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
	"github.com/valyala/fasthttp"
)

func RegisterEventRoutes(r *router.Router, svc *services.Services, resolver *authz.Resolver) {
	read := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(readerRoles...)}
	write := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(editorRoles...)}

	// List events, optional ?status= filter
	r.GET("/api/events", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		events, err := svc.Event.List(stdCtx, rc.TenantID, event2.EventStatus(stringQuery(ctx, "status")))
		if err != nil {
			if errors.Is(err, event2.ErrInvalidStatus) {
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to list events", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, events)
	}, read...))

	// Get event with speakers
	r.GET("/api/events/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid event id", err))
			return
		}

		e, err := svc.Event.Get(stdCtx, rc.TenantID, id)
		if err != nil {
			if errors.Is(err, event2.ErrEventNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Event not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to get event", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, e)
	}, read...))

	// Create event
	r.POST("/api/events", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		var body event2.CreateEventRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		created, err := svc.Event.Create(stdCtx, rc.TenantID, rc.UserID(), &body)
		if err != nil {
			switch {
			case errors.Is(err, event2.ErrNameRequired),
				errors.Is(err, event2.ErrSlugRequired),
				errors.Is(err, event2.ErrStartDateRequired),
				errors.Is(err, event2.ErrInvalidLocationType):
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
			case errors.Is(err, event2.ErrSlugTaken):
				response.WriteError(ctx, stdCtx, perrors.NewErrConflict("An event with this slug already exists", err))
			default:
				response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to create event", err))
			}
			return
		}

		response.WriteJSON(ctx, http.StatusCreated, created)
	}, write...))

	// Update event
	r.PUT("/api/events/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid event id", err))
			return
		}

		var body event2.UpdateEventRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Event.Update(stdCtx, rc.TenantID, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, event2.ErrInvalidStatus),
				errors.Is(err, event2.ErrInvalidLocationType):
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
			case errors.Is(err, event2.ErrEventNotFound):
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Event not found", err))
			case errors.Is(err, event2.ErrSlugTaken):
				response.WriteError(ctx, stdCtx, perrors.NewErrConflict("An event with this slug already exists", err))
			default:
				response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to update event", err))
			}
			return
		}

		response.WriteJSON(ctx, http.StatusOK, updated)
	}, write...))

	// Publish event
	r.POST("/api/events/{id}/publish", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid event id", err))
			return
		}

		published, err := svc.Event.Publish(stdCtx, rc.TenantID, id)
		if err != nil {
			if errors.Is(err, event2.ErrEventNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Event not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to publish event", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, published)
	}, write...))

	// Delete event
	r.DELETE("/api/events/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid event id", err))
			return
		}

		if err := svc.Event.Delete(stdCtx, rc.TenantID, id); err != nil {
			if errors.Is(err, event2.ErrEventNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Event not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to delete event", err))
			return
		}

		response.NoContent(ctx)
	}, write...))

	// Assign speaker to event
	r.POST("/api/events/{id}/speakers", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid event id", err))
			return
		}

		var body event2.AddSpeakerRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		assigned, err := svc.Event.AddSpeaker(stdCtx, rc.TenantID, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, event2.ErrEventNotFound):
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Event not found", err))
			case errors.Is(err, event2.ErrSpeakerMissing):
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Speaker not found", err))
			case errors.Is(err, event2.ErrSpeakerAssigned):
				response.WriteError(ctx, stdCtx, perrors.NewErrConflict("Speaker is already assigned to this event", err))
			default:
				response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to assign speaker", err))
			}
			return
		}

		response.WriteJSON(ctx, http.StatusCreated, assigned)
	}, write...))

	// Remove speaker from event
	r.DELETE("/api/events/{id}/speakers/{speakerId}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid event id", err))
			return
		}

		speakerID, err := pathParamUUID(ctx, "speakerId")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid speaker id", err))
			return
		}

		if err := svc.Event.RemoveSpeaker(stdCtx, rc.TenantID, id, speakerID); err != nil {
			if errors.Is(err, event2.ErrEventNotFound) || errors.Is(err, event2.ErrSpeakerNotOnEvent) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Event speaker not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to remove speaker", err))
			return
		}

		response.NoContent(ctx)
	}, write...))
}
