package authenticator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pagecraft/pagecraft/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localAuthenticator(t *testing.T, issuer string) *Authenticator {
	t.Helper()

	a, err := New(&config.Config{
		JWT_SECRET:   "test-secret",
		JWT_ISSUER:   issuer,
		STATE_SECRET: "state-secret",
	})
	require.NoError(t, err)
	require.False(t, a.OIDCEnabled())
	return a
}

func TestNewRequiresSecretWithoutOIDC(t *testing.T) {
	_, err := New(&config.Config{})
	assert.Error(t, err)
}

func TestLocalTokenRoundTrip(t *testing.T) {
	a := localAuthenticator(t, "pagecraft")

	token, err := a.GenerateToken("user-1", "editor@acme.test", time.Hour)
	require.NoError(t, err)

	identity, err := a.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "editor@acme.test", identity.Email)
}

func TestLocalTokenExpired(t *testing.T) {
	a := localAuthenticator(t, "pagecraft")

	token, err := a.GenerateToken("user-1", "editor@acme.test", -time.Minute)
	require.NoError(t, err)

	_, err = a.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestLocalTokenWrongIssuer(t *testing.T) {
	issued := localAuthenticator(t, "somewhere-else")
	verifying := localAuthenticator(t, "pagecraft")

	token, err := issued.GenerateToken("user-1", "editor@acme.test", time.Hour)
	require.NoError(t, err)

	_, err = verifying.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestLocalTokenWrongSecret(t *testing.T) {
	a := localAuthenticator(t, "pagecraft")

	other, err := New(&config.Config{JWT_SECRET: "different", JWT_ISSUER: "pagecraft"})
	require.NoError(t, err)

	token, err := other.GenerateToken("user-1", "editor@acme.test", time.Hour)
	require.NoError(t, err)

	_, err = a.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestLocalTokenNoSubject(t *testing.T) {
	a := localAuthenticator(t, "pagecraft")

	token, err := a.GenerateToken("", "editor@acme.test", time.Hour)
	require.NoError(t, err)

	_, err = a.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestSignedStateRoundTrip(t *testing.T) {
	a := localAuthenticator(t, "pagecraft")

	now := time.Now()
	state := OAuthState{
		CSRF:      "csrf-token",
		Redirect:  "/dashboard",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(10 * time.Minute).Unix(),
	}

	signed, err := a.GetSignedState(state)
	require.NoError(t, err)

	verified, err := a.VerifySignedState(signed)
	require.NoError(t, err)
	assert.Equal(t, state, *verified)
}

func TestSignedStateTampered(t *testing.T) {
	a := localAuthenticator(t, "pagecraft")

	signed, err := a.GetSignedState(OAuthState{
		CSRF:      "csrf-token",
		ExpiresAt: time.Now().Add(10 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	// Flip a character in the encoded state
	tampered := []byte(signed)
	if tampered[0] == 'A' {
		tampered[0] = 'B'
	} else {
		tampered[0] = 'A'
	}

	_, err = a.VerifySignedState(string(tampered))
	assert.Error(t, err)

	_, err = a.VerifySignedState(strings.Repeat("x", 8))
	assert.Error(t, err)
}

func TestSignedStateExpired(t *testing.T) {
	a := localAuthenticator(t, "pagecraft")

	signed, err := a.GetSignedState(OAuthState{
		CSRF:      "csrf-token",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = a.VerifySignedState(signed)
	assert.EqualError(t, err, "state expired")
}
