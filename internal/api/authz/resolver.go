package authz

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/api/authenticator"
	"github.com/pagecraft/pagecraft/internal/api/response"
	"github.com/pagecraft/pagecraft/internal/perrors"
	"github.com/pagecraft/pagecraft/internal/services/audit"
	"github.com/pagecraft/pagecraft/internal/services/profile"
	"github.com/valyala/fasthttp"
)

// TenantHeader carries the tenant override for super admins.
const TenantHeader = "x-tenant-id"

// ProfileStore loads the internal profile for a verified identity. A missing
// row must be reported as profile.ErrProfileNotFound.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*profile.Profile, error)
}

// TenantStore provides the oldest tenant id for the super-admin fallback.
type TenantStore interface {
	FirstTenantID(ctx context.Context) (uuid.UUID, error)
}

// Config is the injected policy surface of the pipeline: the recovery identity
// set and the default-tenant fallback switch. Both default to off.
type Config struct {
	RecoveryEmails []string
	TenantFallback bool
}

// Resolver runs the request authorization pipeline: identity resolution,
// profile loading, tenant resolution and role guarding. Each stage fails fast
// with a terminal response; the two documented fallbacks (recovery profile,
// default tenant) are isolated in named methods and audited.
type Resolver struct {
	verifier authenticator.TokenVerifier
	profiles ProfileStore
	tenants  TenantStore
	audit    audit.Recorder

	recoveryEmails map[string]struct{}
	tenantFallback bool
}

func NewResolver(verifier authenticator.TokenVerifier, profiles ProfileStore, tenants TenantStore, recorder audit.Recorder, conf Config) *Resolver {
	recovery := make(map[string]struct{}, len(conf.RecoveryEmails))
	for _, email := range conf.RecoveryEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			recovery[email] = struct{}{}
		}
	}

	if recorder == nil {
		recorder = audit.LogRecorder{}
	}

	return &Resolver{
		verifier:       verifier,
		profiles:       profiles,
		tenants:        tenants,
		audit:          recorder,
		recoveryEmails: recovery,
		tenantFallback: conf.TenantFallback,
	}
}

// bearerToken extracts the credential from the Authorization header.
// Anything that is not of the form "Bearer <token>" counts as absent.
func bearerToken(ctx *fasthttp.RequestCtx) (string, bool) {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", false
	}

	return token, true
}

// Required authenticates the request or terminates it with 401. On success the
// populated RequestContext is attached for downstream handlers.
func (r *Resolver) Required(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		token, ok := bearerToken(ctx)
		if !ok {
			response.WriteError(ctx, stdCtx, perrors.NewErrUnauthenticated("Missing or invalid authorization header", nil))
			return
		}

		identity, err := r.verifier.Verify(stdCtx, token)
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrUnauthenticated("Invalid or expired token", err))
			return
		}

		prof, err := r.profiles.GetByID(stdCtx, identity.UserID)
		if err != nil {
			if !errors.Is(err, profile.ErrProfileNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Authentication failed", err))
				return
			}

			prof = r.recoveryProfile(stdCtx, identity)
			if prof == nil {
				response.WriteError(ctx, stdCtx, perrors.NewErrUnauthenticated("User profile not found", err))
				return
			}
		}

		tenantID, err := r.effectiveTenant(ctx, stdCtx, prof)
		if err != nil {
			response.WriteError(ctx, stdCtx, err)
			return
		}

		setRequestContext(ctx, &RequestContext{
			Identity: identity,
			Profile:  prof,
			TenantID: tenantID,
		})
		next(ctx)
	}
}

// Optional resolves an identity when a valid credential is present and
// otherwise lets the request through anonymously. It never terminates the
// pipeline and never applies the recovery or override fallbacks.
func (r *Resolver) Optional(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := &RequestContext{}

		if token, ok := bearerToken(ctx); ok {
			if identity, err := r.verifier.Verify(stdCtx, token); err == nil {
				if prof, err := r.profiles.GetByID(stdCtx, identity.UserID); err == nil {
					rc.Identity = identity
					rc.Profile = prof
					if prof.TenantID.Valid {
						rc.TenantID = prof.TenantID.UUID
					}
				}
			}
		}

		setRequestContext(ctx, rc)
		next(ctx)
	}
}

// effectiveTenant applies the tenant resolution rule: a super admin may
// override the tenant scope with the x-tenant-id header; everyone else is
// pinned to their bound tenant and the header is ignored entirely.
func (r *Resolver) effectiveTenant(ctx *fasthttp.RequestCtx, stdCtx context.Context, prof *profile.Profile) (uuid.UUID, error) {
	header := string(ctx.Request.Header.Peek(TenantHeader))

	if prof.Role == profile.RoleSuperAdmin && header != "" {
		tenantID, err := uuid.Parse(header)
		if err != nil {
			return uuid.Nil, perrors.NewErrBadRequest("Invalid x-tenant-id header", err)
		}

		r.audit.RecordAuthEvent(stdCtx, audit.Event{
			Action:   audit.ActionTenantOverride,
			UserID:   prof.ID,
			Email:    prof.Email,
			TenantID: tenantID.String(),
		})

		return tenantID, nil
	}

	if prof.TenantID.Valid {
		return prof.TenantID.UUID, nil
	}

	return uuid.Nil, nil
}

// recoveryProfile synthesizes a transient super_admin profile for a verified
// identity whose profile row is missing. It applies only to the configured
// recovery emails, exists to keep a deployment's initial super admin operable
// when profile provisioning failed, and is never persisted.
func (r *Resolver) recoveryProfile(ctx context.Context, identity *authenticator.Identity) *profile.Profile {
	email := strings.ToLower(identity.Email)
	if _, ok := r.recoveryEmails[email]; !ok {
		return nil
	}

	slog.WarnContext(ctx, "Profile row missing, using recovery super admin profile",
		slog.String("user_id", identity.UserID),
		slog.String("email", identity.Email))

	r.audit.RecordAuthEvent(ctx, audit.Event{
		Action: audit.ActionRecoveryProfile,
		UserID: identity.UserID,
		Email:  identity.Email,
	})

	return &profile.Profile{
		ID:       identity.UserID,
		Email:    identity.Email,
		FullName: "Recovery Admin",
		Role:     profile.RoleSuperAdmin,
	}
}

// RequireTenant rejects requests that resolved without a tenant context.
// Tenant-scoped routes must run it after Required.
func (r *Resolver) RequireTenant(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		rc := FromRequest(ctx)
		if !rc.Authenticated() {
			response.WriteError(ctx, stdCtx, perrors.NewErrUnauthenticated("Authentication required", nil))
			return
		}

		if rc.TenantID == uuid.Nil {
			if rc.Profile.Role == profile.RoleSuperAdmin && r.tenantFallback {
				if tenantID, err := r.resolveDefaultTenantForSuperAdmin(stdCtx, rc); err == nil {
					setRequestContext(ctx, rc.WithTenant(tenantID))
					next(ctx)
					return
				}
			}

			response.WriteError(ctx, stdCtx, perrors.NewErrNoTenant("No tenant associated with this user", nil))
			return
		}

		next(ctx)
	}
}

// resolveDefaultTenantForSuperAdmin assigns the oldest tenant to a tenant-less
// super admin hitting a tenant-scoped route. This is a convenience fallback
// behind the SUPER_ADMIN_TENANT_FALLBACK flag, not a security boundary; the
// tenant choice is arbitrary and the assignment is logged and audited.
func (r *Resolver) resolveDefaultTenantForSuperAdmin(ctx context.Context, rc *RequestContext) (uuid.UUID, error) {
	tenantID, err := r.tenants.FirstTenantID(ctx)
	if err != nil {
		slog.WarnContext(ctx, "No default tenant available for super admin", slog.Any("error", err))
		return uuid.Nil, err
	}

	slog.WarnContext(ctx, "Super admin on tenant route without tenant, assigned default",
		slog.String("user_id", rc.Profile.ID),
		slog.String("tenant_id", tenantID.String()))

	r.audit.RecordAuthEvent(ctx, audit.Event{
		Action:   audit.ActionTenantFallback,
		UserID:   rc.Profile.ID,
		Email:    rc.Profile.Email,
		TenantID: tenantID.String(),
	})

	return tenantID, nil
}

// RequireRoles guards a route with an allowed-role set. The rejection body
// names the required roles and the caller's role; that is intentional and safe
// to expose.
func (r *Resolver) RequireRoles(allowed ...profile.Role) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	allowedSet := make(map[profile.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			stdCtx := requestContext(ctx)

			rc := FromRequest(ctx)
			if !rc.Authenticated() {
				response.WriteError(ctx, stdCtx, perrors.NewErrUnauthenticated("Authentication required", nil))
				return
			}

			if _, ok := allowedSet[rc.Profile.Role]; !ok {
				response.WriteError(ctx, stdCtx, perrors.NewErrForbidden("Insufficient permissions", nil, map[string]any{
					"required": allowed,
					"current":  rc.Profile.Role,
				}))
				return
			}

			next(ctx)
		}
	}
}
