package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() *CreateEventRequest {
	return &CreateEventRequest{
		Name:      "Launch Day",
		Slug:      "launch-day",
		StartDate: DateTime{Time: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)},
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc := NewEventService(nil)

	tests := []struct {
		name    string
		mutate  func(*CreateEventRequest)
		wantErr error
	}{
		{"missing name", func(r *CreateEventRequest) { r.Name = "  " }, ErrNameRequired},
		{"missing slug", func(r *CreateEventRequest) { r.Slug = "" }, ErrSlugRequired},
		{"missing start date", func(r *CreateEventRequest) { r.StartDate = DateTime{} }, ErrStartDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), uuid.New(), "user-1", req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateRejectsUnknownLocationType(t *testing.T) {
	svc := NewEventService(nil)

	req := validCreateRequest()
	req.LocationType = LocationType("on_the_moon")

	_, err := svc.Create(context.Background(), uuid.New(), "user-1", req)
	require.ErrorIs(t, err, ErrInvalidLocationType)
}

func TestUpdateRejectsUnknownLocationType(t *testing.T) {
	svc := NewEventService(nil)

	lt := LocationType("outdoors")
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), &UpdateEventRequest{LocationType: &lt})
	require.ErrorIs(t, err, ErrInvalidLocationType)
}

func TestUpdateRejectsUnknownEventStatus(t *testing.T) {
	svc := NewEventService(nil)

	st := EventStatus("archived")
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), &UpdateEventRequest{Status: &st})
	require.ErrorIs(t, err, ErrInvalidStatus)
}
