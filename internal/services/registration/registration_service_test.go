package registration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/services/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	published *event.Event
	err       error
}

func (f *fakeEvents) GetPublishedByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.published, nil
}

func (f *fakeEvents) Get(ctx context.Context, tenantID, id uuid.UUID) (*event.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.published, nil
}

func publishedEvent() *event.Event {
	return &event.Event{
		ID:                  uuid.New(),
		TenantID:            uuid.New(),
		Status:              event.StatusPublished,
		RegistrationEnabled: true,
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewRegistrationService(nil, &fakeEvents{})

	cases := []struct {
		req  CreateRegistrationRequest
		want error
	}{
		{CreateRegistrationRequest{Email: "a@b.test", FullName: "A"}, ErrEventRequired},
		{CreateRegistrationRequest{EventID: uuid.New(), FullName: "A"}, ErrEmailRequired},
		{CreateRegistrationRequest{EventID: uuid.New(), Email: "   ", FullName: "A"}, ErrEmailRequired},
		{CreateRegistrationRequest{EventID: uuid.New(), Email: "a@b.test"}, ErrFullNameRequired},
	}

	for _, tc := range cases {
		_, err := svc.Register(context.Background(), &tc.req)
		assert.ErrorIs(t, err, tc.want)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := NewRegistrationService(nil, &fakeEvents{err: event.ErrEventNotFound})

	req := CreateRegistrationRequest{
		EventID:  uuid.New(),
		Email:    "  Visitor@Example.COM ",
		FullName: "  Visitor  ",
	}

	// The lookup fails, but normalization happens before it
	_, err := svc.Register(context.Background(), &req)
	require.ErrorIs(t, err, event.ErrEventNotFound)
	assert.Equal(t, "visitor@example.com", req.Email)
	assert.Equal(t, "Visitor", req.FullName)
}

func TestRegisterEventNotPublished(t *testing.T) {
	svc := NewRegistrationService(nil, &fakeEvents{err: event.ErrEventNotFound})

	_, err := svc.Register(context.Background(), &CreateRegistrationRequest{
		EventID:  uuid.New(),
		Email:    "a@b.test",
		FullName: "A",
	})
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestRegisterClosed(t *testing.T) {
	evt := publishedEvent()
	evt.RegistrationEnabled = false
	svc := NewRegistrationService(nil, &fakeEvents{published: evt})

	_, err := svc.Register(context.Background(), &CreateRegistrationRequest{
		EventID:  evt.ID,
		Email:    "a@b.test",
		FullName: "A",
	})
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestRegisterDeadlinePassed(t *testing.T) {
	evt := publishedEvent()
	deadline := event.DateTime{Time: time.Now().Add(-time.Hour)}
	evt.RegistrationDeadline = &deadline
	svc := NewRegistrationService(nil, &fakeEvents{published: evt})

	_, err := svc.Register(context.Background(), &CreateRegistrationRequest{
		EventID:  evt.ID,
		Email:    "a@b.test",
		FullName: "A",
	})
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestListByEventInvalidStatus(t *testing.T) {
	svc := NewRegistrationService(nil, &fakeEvents{})

	_, err := svc.ListByEvent(context.Background(), uuid.New(), uuid.New(), "done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusInvalid(t *testing.T) {
	svc := NewRegistrationService(nil, &fakeEvents{})

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), "whatever")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
