package perrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWrapsCause(t *testing.T) {
	cause := errors.New("pq: connection refused")

	err := NewErrInternalServerError("Failed to load page", cause)

	var perr Err
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Failed to load page", perr.Message)
	assert.Equal(t, "pq: connection refused", perr.Err)
	assert.Equal(t, http.StatusInternalServerError, perr.HttpStatus())
	assert.NotEmpty(t, perr.Stacktrace)
}

func TestNewWithoutCause(t *testing.T) {
	err := NewErrUnauthenticated("Missing or invalid authorization header", nil)

	var perr Err
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, perr.Message, perr.Err)
}

func TestDetails(t *testing.T) {
	err := NewErrForbidden("Insufficient permissions", nil, map[string]any{
		"required": []string{"admin"},
		"current":  "viewer",
	})

	var perr Err
	require.ErrorAs(t, err, &perr)
	require.NotNil(t, perr.Details)

	details := perr.Details.(map[string]any)
	assert.Equal(t, "viewer", details["current"])
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewErrBadRequest("bad", nil), "BAD_REQUEST", http.StatusBadRequest},
		{NewErrUnauthenticated("unauthenticated", nil), "UNAUTHENTICATED", http.StatusUnauthorized},
		{NewErrForbidden("forbidden", nil), "FORBIDDEN", http.StatusForbidden},
		{NewErrNoTenant("no tenant", nil), "NO_TENANT", http.StatusForbidden},
		{NewErrNotFound("not found", nil), "NOT_FOUND", http.StatusNotFound},
		{NewErrConflict("conflict", nil), "CONFLICT", http.StatusConflict},
		{NewErrInternalServerError("boom", nil), "INTERNAL_SERVER_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		var perr Err
		require.ErrorAs(t, tc.err, &perr)
		assert.Equal(t, tc.code, perr.Code.Code)
		assert.Equal(t, tc.status, perr.HttpStatus())
	}
}
