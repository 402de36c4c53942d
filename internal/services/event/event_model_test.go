package event

import (
	"testing"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeUnmarshalRFC3339(t *testing.T) {
	var d DateTime
	require.NoError(t, d.UnmarshalJSON([]byte(`"2026-09-15T18:30:00Z"`)))
	assert.Equal(t, time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC), d.Time)
}

func TestDateTimeUnmarshalBareDate(t *testing.T) {
	var d DateTime
	require.NoError(t, d.UnmarshalJSON([]byte(`"2026-09-15"`)))
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), d.Time)
}

func TestDateTimeUnmarshalEmpty(t *testing.T) {
	for _, raw := range []string{`null`, `""`} {
		var d DateTime
		require.NoError(t, d.UnmarshalJSON([]byte(raw)))
		assert.True(t, d.IsZero())
	}
}

func TestDateTimeUnmarshalInvalid(t *testing.T) {
	var d DateTime
	assert.Error(t, d.UnmarshalJSON([]byte(`"15/09/2026"`)))
	assert.Error(t, d.UnmarshalJSON([]byte(`"tomorrow"`)))
}

func TestDateTimeMarshal(t *testing.T) {
	d := DateTime{Time: time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC)}
	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2026-09-15T18:30:00Z"`, string(out))
}

func TestDateTimeInRequestPayload(t *testing.T) {
	var req CreateEventRequest
	require.NoError(t, json.Unmarshal([]byte(`{
        "name": "DevConf",
        "slug": "devconf",
        "start_date": "2026-09-15",
        "registration_deadline": "2026-09-01T12:00:00Z"
    }`), &req))

	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), req.StartDate.Time)
	require.NotNil(t, req.RegistrationDeadline)
	assert.Equal(t, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), req.RegistrationDeadline.Time)
	assert.Nil(t, req.EndDate)
}

func TestDateTimeScan(t *testing.T) {
	now := time.Now()

	var d DateTime
	require.NoError(t, d.Scan(now))
	assert.Equal(t, now, d.Time)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan("2026-09-15"))
}
