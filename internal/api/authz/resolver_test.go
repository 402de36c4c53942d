package authz

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/api/authenticator"
	"github.com/pagecraft/pagecraft/internal/services/audit"
	"github.com/pagecraft/pagecraft/internal/services/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type fakeVerifier struct {
	identity *authenticator.Identity
	err      error
}

func (v *fakeVerifier) Verify(ctx context.Context, token string) (*authenticator.Identity, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.identity, nil
}

type fakeProfiles struct {
	profiles map[string]*profile.Profile
	err      error
}

func (s *fakeProfiles) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

type fakeTenants struct {
	first uuid.UUID
	err   error
}

func (s *fakeTenants) FirstTenantID(ctx context.Context) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return s.first, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingSink) RecordAuthEvent(ctx context.Context, event audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

type errorPayload struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) errorPayload {
	t.Helper()

	var payload errorPayload
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &payload))
	return payload
}

func newRequest(authorization, tenantHeader string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/api/pages")
	if authorization != "" {
		ctx.Request.Header.Set("Authorization", authorization)
	}
	if tenantHeader != "" {
		ctx.Request.Header.Set(TenantHeader, tenantHeader)
	}
	return ctx
}

func editorProfile(tenantID uuid.UUID) *profile.Profile {
	return &profile.Profile{
		ID:       "user-1",
		Email:    "editor@acme.test",
		FullName: "Edith Editor",
		Role:     profile.RoleEditor,
		TenantID: uuid.NullUUID{UUID: tenantID, Valid: true},
	}
}

func superAdminProfile() *profile.Profile {
	return &profile.Profile{
		ID:    "admin-1",
		Email: "root@platform.test",
		Role:  profile.RoleSuperAdmin,
	}
}

func newTestResolver(verifier authenticator.TokenVerifier, profiles ProfileStore, tenants TenantStore, conf Config) (*Resolver, *recordingSink) {
	sink := &recordingSink{}
	return NewResolver(verifier, profiles, tenants, sink, conf), sink
}

func TestRequiredMissingHeader(t *testing.T) {
	r, _ := newTestResolver(&fakeVerifier{}, &fakeProfiles{}, &fakeTenants{}, Config{})

	called := false
	ctx := newRequest("", "")
	r.Required(func(*fasthttp.RequestCtx) { called = true })(ctx)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, ctx).Code)
}

func TestRequiredMalformedHeader(t *testing.T) {
	r, _ := newTestResolver(&fakeVerifier{}, &fakeProfiles{}, &fakeTenants{}, Config{})

	for _, header := range []string{"Token abc", "Bearer", "Bearer   "} {
		ctx := newRequest(header, "")
		called := false
		r.Required(func(*fasthttp.RequestCtx) { called = true })(ctx)

		assert.False(t, called, "header %q must not authenticate", header)
		assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	}
}

func TestRequiredInvalidToken(t *testing.T) {
	r, _ := newTestResolver(&fakeVerifier{err: errors.New("expired")}, &fakeProfiles{}, &fakeTenants{}, Config{})

	ctx := newRequest("Bearer bad", "")
	r.Required(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	assert.Equal(t, "Invalid or expired token", decodeError(t, ctx).Error)
}

func TestRequiredProfileMissing(t *testing.T) {
	verifier := &fakeVerifier{identity: &authenticator.Identity{UserID: "ghost", Email: "ghost@acme.test"}}
	r, sink := newTestResolver(verifier, &fakeProfiles{profiles: map[string]*profile.Profile{}}, &fakeTenants{}, Config{})

	ctx := newRequest("Bearer tok", "")
	r.Required(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	assert.Equal(t, "User profile not found", decodeError(t, ctx).Error)
	assert.Empty(t, sink.actions())
}

func TestRequiredProfileStoreError(t *testing.T) {
	verifier := &fakeVerifier{identity: &authenticator.Identity{UserID: "user-1"}}
	r, _ := newTestResolver(verifier, &fakeProfiles{err: errors.New("db down")}, &fakeTenants{}, Config{})

	ctx := newRequest("Bearer tok", "")
	r.Required(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)

	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
}

func TestRequiredRecoveryProfile(t *testing.T) {
	verifier := &fakeVerifier{identity: &authenticator.Identity{UserID: "boot-1", Email: "Admin@Example.com"}}
	r, sink := newTestResolver(verifier, &fakeProfiles{profiles: map[string]*profile.Profile{}}, &fakeTenants{}, Config{
		RecoveryEmails: []string{"admin@example.com"},
	})

	var rc *RequestContext
	ctx := newRequest("Bearer tok", "")
	r.Required(func(c *fasthttp.RequestCtx) { rc = FromRequest(c) })(ctx)

	require.NotNil(t, rc)
	assert.Equal(t, profile.RoleSuperAdmin, rc.Profile.Role)
	assert.Equal(t, "boot-1", rc.Profile.ID)
	assert.Equal(t, uuid.Nil, rc.TenantID)
	assert.Equal(t, []string{audit.ActionRecoveryProfile}, sink.actions())
}

func TestRequiredRecoveryProfileNotConfigured(t *testing.T) {
	verifier := &fakeVerifier{identity: &authenticator.Identity{UserID: "x", Email: "someone@else.test"}}
	r, _ := newTestResolver(verifier, &fakeProfiles{profiles: map[string]*profile.Profile{}}, &fakeTenants{}, Config{
		RecoveryEmails: []string{"admin@example.com"},
	})

	ctx := newRequest("Bearer tok", "")
	r.Required(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestRequiredTenantFromProfile(t *testing.T) {
	tenantID := uuid.New()
	prof := editorProfile(tenantID)
	verifier := &fakeVerifier{identity: &authenticator.Identity{UserID: prof.ID, Email: prof.Email}}
	r, _ := newTestResolver(verifier, &fakeProfiles{profiles: map[string]*profile.Profile{prof.ID: prof}}, &fakeTenants{}, Config{})

	var rc *RequestContext
	ctx := newRequest("Bearer tok", "")
	r.Required(func(c *fasthttp.RequestCtx) { rc = FromRequest(c) })(ctx)

	require.NotNil(t, rc)
	assert.Equal(t, tenantID, rc.TenantID)
}

func TestRequiredSuperAdminTenantOverride(t *testing.T) {
	prof := superAdminProfile()
	override := uuid.New()
	verifier := &fakeVerifier{identity: &authenticator.Identity{UserID: prof.ID, Email: prof.Email}}
	r, sink := newTestResolver(verifier, &fakeProfiles{profiles: map[string]*profile.Profile{prof.ID: prof}}, &fakeTenants{}, Config{})

	var rc *RequestContext
	ctx := newRequest("Bearer tok", override.String())
	r.Required(func(c *fasthttp.RequestCtx) { rc = FromRequest(c) })(ctx)

	require.NotNil(t, rc)
	assert.Equal(t, override, rc.TenantID)
	assert.Equal(t, []string{audit.ActionTenantOverride}, sink.actions())
}

func TestRequiredSuperAdminInvalidOverride(t *testing.T) {
	prof := superAdminProfile()
	verifier := &fakeVerifier{identity: &authenticator.Identity{UserID: prof.ID, Email: prof.Email}}
	r, _ := newTestResolver(verifier, &fakeProfiles{profiles: map[string]*profile.Profile{prof.ID: prof}}, &fakeTenants{}, Config{})

	ctx := newRequest("Bearer tok", "not-a-uuid")
	r.Required(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, "BAD_REQUEST", decodeError(t, ctx).Code)
}

func TestRequiredOverrideIgnoredForNonSuperAdmin(t *testing.T) {
	tenantID := uuid.New()
	prof := editorProfile(tenantID)
	verifier := &fakeVerifier{identity: &authenticator.Identity{UserID: prof.ID, Email: prof.Email}}
	r, sink := newTestResolver(verifier, &fakeProfiles{profiles: map[string]*profile.Profile{prof.ID: prof}}, &fakeTenants{}, Config{})

	var rc *RequestContext
	ctx := newRequest("Bearer tok", uuid.NewString())
	r.Required(func(c *fasthttp.RequestCtx) { rc = FromRequest(c) })(ctx)

	require.NotNil(t, rc)
	assert.Equal(t, tenantID, rc.TenantID, "x-tenant-id must be ignored for non super admins")
	assert.Empty(t, sink.actions())
}

func TestOptionalAnonymous(t *testing.T) {
	r, _ := newTestResolver(&fakeVerifier{err: errors.New("nope")}, &fakeProfiles{}, &fakeTenants{}, Config{})

	for _, header := range []string{"", "Bearer bad"} {
		ctx := newRequest(header, "")
		var rc *RequestContext
		r.Optional(func(c *fasthttp.RequestCtx) { rc = FromRequest(c) })(ctx)

		require.NotNil(t, rc, "optional must always call the handler")
		assert.False(t, rc.Authenticated())
	}
}

func TestOptionalAuthenticated(t *testing.T) {
	tenantID := uuid.New()
	prof := editorProfile(tenantID)
	verifier := &fakeVerifier{identity: &authenticator.Identity{UserID: prof.ID, Email: prof.Email}}
	r, _ := newTestResolver(verifier, &fakeProfiles{profiles: map[string]*profile.Profile{prof.ID: prof}}, &fakeTenants{}, Config{})

	var rc *RequestContext
	ctx := newRequest("Bearer tok", "")
	r.Optional(func(c *fasthttp.RequestCtx) { rc = FromRequest(c) })(ctx)

	require.True(t, rc.Authenticated())
	assert.Equal(t, tenantID, rc.TenantID)
}

func TestRequireTenantUnauthenticated(t *testing.T) {
	r, _ := newTestResolver(&fakeVerifier{}, &fakeProfiles{}, &fakeTenants{}, Config{})

	ctx := newRequest("", "")
	r.RequireTenant(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestRequireTenantNoTenant(t *testing.T) {
	r, _ := newTestResolver(&fakeVerifier{}, &fakeProfiles{}, &fakeTenants{}, Config{})

	prof := editorProfile(uuid.Nil)
	prof.TenantID = uuid.NullUUID{}

	ctx := newRequest("", "")
	setRequestContext(ctx, &RequestContext{Profile: prof})

	r.RequireTenant(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)

	assert.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())
	payload := decodeError(t, ctx)
	assert.Equal(t, "NO_TENANT", payload.Code)
	assert.Equal(t, "No tenant associated with this user", payload.Error)
}

func TestRequireTenantSuperAdminFallbackDisabled(t *testing.T) {
	r, sink := newTestResolver(&fakeVerifier{}, &fakeProfiles{}, &fakeTenants{first: uuid.New()}, Config{})

	ctx := newRequest("", "")
	setRequestContext(ctx, &RequestContext{Profile: superAdminProfile()})

	r.RequireTenant(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)

	assert.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())
	assert.Equal(t, "NO_TENANT", decodeError(t, ctx).Code)
	assert.Empty(t, sink.actions())
}

func TestRequireTenantSuperAdminFallbackEnabled(t *testing.T) {
	fallback := uuid.New()
	r, sink := newTestResolver(&fakeVerifier{}, &fakeProfiles{}, &fakeTenants{first: fallback}, Config{TenantFallback: true})

	ctx := newRequest("", "")
	setRequestContext(ctx, &RequestContext{Profile: superAdminProfile()})

	var rc *RequestContext
	r.RequireTenant(func(c *fasthttp.RequestCtx) { rc = FromRequest(c) })(ctx)

	require.NotNil(t, rc)
	assert.Equal(t, fallback, rc.TenantID)
	assert.Equal(t, []string{audit.ActionTenantFallback}, sink.actions())
}

func TestRequireTenantFallbackNotForRegularRoles(t *testing.T) {
	r, _ := newTestResolver(&fakeVerifier{}, &fakeProfiles{}, &fakeTenants{first: uuid.New()}, Config{TenantFallback: true})

	prof := editorProfile(uuid.Nil)
	prof.TenantID = uuid.NullUUID{}

	ctx := newRequest("", "")
	setRequestContext(ctx, &RequestContext{Profile: prof})

	r.RequireTenant(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)

	assert.Equal(t, "NO_TENANT", decodeError(t, ctx).Code)
}

func TestRequireTenantFallbackNoTenantsExist(t *testing.T) {
	r, _ := newTestResolver(&fakeVerifier{}, &fakeProfiles{}, &fakeTenants{err: errors.New("no rows")}, Config{TenantFallback: true})

	ctx := newRequest("", "")
	setRequestContext(ctx, &RequestContext{Profile: superAdminProfile()})

	r.RequireTenant(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)

	assert.Equal(t, "NO_TENANT", decodeError(t, ctx).Code)
}

func TestRequireRoles(t *testing.T) {
	r, _ := newTestResolver(&fakeVerifier{}, &fakeProfiles{}, &fakeTenants{}, Config{})
	guard := r.RequireRoles(profile.RoleAdmin, profile.RoleOwner, profile.RoleSuperAdmin)

	// Allowed role passes through
	ctx := newRequest("", "")
	prof := editorProfile(uuid.New())
	prof.Role = profile.RoleAdmin
	setRequestContext(ctx, &RequestContext{Profile: prof})

	called := false
	guard(func(*fasthttp.RequestCtx) { called = true })(ctx)
	assert.True(t, called)

	// Disallowed role is rejected with the role sets in the details
	ctx = newRequest("", "")
	setRequestContext(ctx, &RequestContext{Profile: editorProfile(uuid.New())})

	guard(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)
	assert.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())

	payload := decodeError(t, ctx)
	assert.Equal(t, "FORBIDDEN", payload.Code)
	assert.Equal(t, "editor", payload.Details["current"])
	assert.Contains(t, payload.Details["required"], "admin")

	// Unauthenticated is 401, not 403
	ctx = newRequest("", "")
	guard(func(*fasthttp.RequestCtx) { t.Fatal("handler must not run") })(ctx)
	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestWithTenantCopies(t *testing.T) {
	orig := &RequestContext{Profile: superAdminProfile()}
	tenantID := uuid.New()

	scoped := orig.WithTenant(tenantID)

	assert.Equal(t, uuid.Nil, orig.TenantID)
	assert.Equal(t, tenantID, scoped.TenantID)
	assert.Same(t, orig.Profile, scoped.Profile)
}
