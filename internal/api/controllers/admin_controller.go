package controllers

import (
	"errors"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/api/authz"
	"github.com/pagecraft/pagecraft/internal/api/response"
	"github.com/pagecraft/pagecraft/internal/perrors"
	"github.com/pagecraft/pagecraft/internal/services"
	"github.com/pagecraft/pagecraft/internal/services/audit"
	"github.com/pagecraft/pagecraft/internal/services/profile"
	tenant2 "github.com/pagecraft/pagecraft/internal/services/tenant"
	"github.com/valyala/fasthttp"
)

type assignTenantRequest struct {
	TenantID uuid.UUID `json:"tenant_id"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// RegisterAdminRoutes mounts the platform administration surface. Every route
// is super_admin only and none requires a tenant context.
func RegisterAdminRoutes(r *router.Router, svc *services.Services, resolver *authz.Resolver) {
	super := []middleware{resolver.Required, resolver.RequireRoles(profile.RoleSuperAdmin)}

	// List tenants
	r.GET("/api/admin/tenants", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		tenants, err := svc.Tenant.List(stdCtx)
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to list tenants", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, tenants)
	}, super...))

	// Create tenant
	r.POST("/api/admin/tenants", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var body tenant2.CreateTenantRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		created, err := svc.Tenant.Create(stdCtx, &body)
		if err != nil {
			if errors.Is(err, tenant2.ErrSlugTaken) {
				response.WriteError(ctx, stdCtx, perrors.NewErrConflict("A tenant with this slug already exists", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to create tenant", err))
			return
		}

		response.WriteJSON(ctx, http.StatusCreated, created)
	}, super...))

	// Get tenant
	r.GET("/api/admin/tenants/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid tenant id", err))
			return
		}

		t, err := svc.Tenant.GetByID(stdCtx, id)
		if err != nil {
			if errors.Is(err, tenant2.ErrTenantNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Tenant not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to get tenant", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, t)
	}, super...))

	// Delete tenant
	r.DELETE("/api/admin/tenants/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid tenant id", err))
			return
		}

		if err := svc.Tenant.Delete(stdCtx, id); err != nil {
			if errors.Is(err, tenant2.ErrTenantNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Tenant not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to delete tenant", err))
			return
		}

		response.NoContent(ctx)
	}, super...))

	// List users
	r.GET("/api/admin/users", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		users, err := svc.Profile.List(stdCtx)
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to list users", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, users)
	}, super...))

	// Bind a user to a tenant
	r.POST("/api/admin/users/{id}/tenant", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		userID, err := pathParam(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid user id", err))
			return
		}

		var body assignTenantRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		if _, err := svc.Tenant.GetByID(stdCtx, body.TenantID); err != nil {
			if errors.Is(err, tenant2.ErrTenantNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Tenant not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to assign tenant", err))
			return
		}

		updated, err := svc.Profile.AssignTenant(stdCtx, userID, body.TenantID)
		if err != nil {
			if errors.Is(err, profile.ErrProfileNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("User not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to assign tenant", err))
			return
		}

		svc.Audit.RecordAuthEvent(stdCtx, audit.Event{
			Action:   audit.ActionTenantAssign,
			UserID:   updated.ID,
			Email:    updated.Email,
			TenantID: body.TenantID.String(),
			Detail:   "assigned by " + rc.UserID(),
		})

		response.WriteJSON(ctx, http.StatusOK, updated)
	}, super...))

	// Change a user's role
	r.PATCH("/api/admin/users/{id}/role", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		userID, err := pathParam(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid user id", err))
			return
		}

		var body updateRoleRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		role, err := profile.ParseRole(body.Role)
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid role", err))
			return
		}

		updated, err := svc.Profile.UpdateRole(stdCtx, userID, role)
		if err != nil {
			if errors.Is(err, profile.ErrProfileNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("User not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to update role", err))
			return
		}

		svc.Audit.RecordAuthEvent(stdCtx, audit.Event{
			Action: audit.ActionRoleChange,
			UserID: updated.ID,
			Email:  updated.Email,
			Detail: "role set to " + string(role) + " by " + rc.UserID(),
		})

		response.WriteJSON(ctx, http.StatusOK, updated)
	}, super...))
}
