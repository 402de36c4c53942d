package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	json "github.com/bytedance/sonic"
	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/api/authenticator"
	"github.com/pagecraft/pagecraft/internal/api/authz"
	"github.com/pagecraft/pagecraft/internal/services"
	"github.com/pagecraft/pagecraft/internal/services/event"
	"github.com/pagecraft/pagecraft/internal/services/profile"
	"github.com/pagecraft/pagecraft/internal/services/registration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type stubVerifier struct {
	identities map[string]*authenticator.Identity
}

func (v *stubVerifier) Verify(ctx context.Context, token string) (*authenticator.Identity, error) {
	identity, ok := v.identities[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return identity, nil
}

type stubProfiles struct {
	profiles map[string]*profile.Profile
}

func (s *stubProfiles) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

type stubTenants struct{}

func (stubTenants) FirstTenantID(ctx context.Context) (uuid.UUID, error) {
	return uuid.Nil, nil
}

type stubEvents struct {
	published *event.Event
}

func (s *stubEvents) GetPublishedByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	return s.published, nil
}

func (s *stubEvents) Get(ctx context.Context, tenantID, id uuid.UUID) (*event.Event, error) {
	return s.published, nil
}

// capturingStore records the create request so the test can inspect what the
// handler handed to the service layer.
type capturingStore struct {
	created *registration.CreateRegistrationRequest
}

func (s *capturingStore) Create(ctx context.Context, req *registration.CreateRegistrationRequest) (*registration.Registration, error) {
	s.created = req
	return &registration.Registration{
		ID:      uuid.New(),
		EventID: req.EventID,
		UserID:  req.UserID,
		Email:   req.Email,
	}, nil
}

func (s *capturingStore) ExistsByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (bool, error) {
	return false, nil
}

func (s *capturingStore) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	return 0, nil
}

func (s *capturingStore) ListByEvent(ctx context.Context, eventID uuid.UUID, status registration.RegistrationStatus) ([]*registration.Registration, error) {
	return nil, nil
}

func (s *capturingStore) GetByID(ctx context.Context, id uuid.UUID) (*registration.Registration, error) {
	return nil, registration.ErrRegistrationNotFound
}

func (s *capturingStore) UpdateStatus(ctx context.Context, id uuid.UUID, status registration.RegistrationStatus) (*registration.Registration, error) {
	return nil, registration.ErrRegistrationNotFound
}

func newRegistrationHandler(t *testing.T) (fasthttp.RequestHandler, *capturingStore, *event.Event) {
	t.Helper()

	evt := &event.Event{
		ID:                  uuid.New(),
		TenantID:            uuid.New(),
		Status:              event.StatusPublished,
		RegistrationEnabled: true,
	}

	store := &capturingStore{}
	svc := &services.Services{
		Registration: registration.NewRegistrationService(store, &stubEvents{published: evt}),
	}

	verifier := &stubVerifier{identities: map[string]*authenticator.Identity{
		"tok":   {UserID: "user-1", Email: "attendee@acme.test"},
		"ghost": {UserID: "ghost", Email: "ghost@acme.test"},
	}}
	profiles := &stubProfiles{profiles: map[string]*profile.Profile{
		"user-1": {ID: "user-1", Email: "attendee@acme.test", Role: profile.RoleViewer},
	}}
	resolver := authz.NewResolver(verifier, profiles, stubTenants{}, nil, authz.Config{})

	r := router.New()
	RegisterPublicRoutes(r, svc, nil, resolver)

	return r.Handler, store, evt
}

func postRegistration(t *testing.T, handler fasthttp.RequestHandler, eventID uuid.UUID, authorization string) *fasthttp.RequestCtx {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"event_id":  eventID,
		"email":     "attendee@acme.test",
		"full_name": "Avery Attendee",
	})
	require.NoError(t, err)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/api/public/registrations")
	ctx.Request.Header.SetContentType("application/json")
	if authorization != "" {
		ctx.Request.Header.Set("Authorization", authorization)
	}
	ctx.Request.SetBody(body)

	handler(ctx)
	return ctx
}

func TestPublicRegistrationAnonymous(t *testing.T) {
	handler, store, evt := newRegistrationHandler(t)

	ctx := postRegistration(t, handler, evt.ID, "")

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	require.NotNil(t, store.created)
	assert.Nil(t, store.created.UserID)
}

func TestPublicRegistrationRecordsIdentity(t *testing.T) {
	handler, store, evt := newRegistrationHandler(t)

	ctx := postRegistration(t, handler, evt.ID, "Bearer tok")

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	require.NotNil(t, store.created)
	require.NotNil(t, store.created.UserID)
	assert.Equal(t, "user-1", *store.created.UserID)

	var body struct {
		UserID *string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	require.NotNil(t, body.UserID)
	assert.Equal(t, "user-1", *body.UserID)
}

func TestPublicRegistrationUnknownProfileStaysAnonymous(t *testing.T) {
	handler, store, evt := newRegistrationHandler(t)

	// Valid token, but no profile row: the registration still goes through
	// without an account link.
	ctx := postRegistration(t, handler, evt.ID, "Bearer ghost")

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	require.NotNil(t, store.created)
	assert.Nil(t, store.created.UserID)
}
