package authenticator

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/bytedance/sonic"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pagecraft/pagecraft/internal/config"
	"golang.org/x/oauth2"
)

// Identity is the normalized external identity resolved from an access token.
// Facts only, no authorization decisions.
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier resolves a raw bearer token to a verified identity.
// Verification is delegated entirely to the token issuer (shared-secret HS256
// or the OIDC provider's JWKS); it is never reimplemented downstream.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type Authenticator struct {
	*oidc.Provider
	oauth2.Config

	stateSecret  string
	issuer       string
	jwksProvider *jwks.CachingProvider
	audience     string

	jwtSecret []byte
	jwtIssuer string

	oidcEnabled bool
}

func New(conf *config.Config) (*Authenticator, error) {
	a := &Authenticator{
		stateSecret: conf.STATE_SECRET,
		audience:    "pagecraft-api",
		jwtSecret:   []byte(conf.JWT_SECRET),
		jwtIssuer:   conf.JWT_ISSUER,
	}

	if conf.OIDC_ISSUER == "" {
		if len(a.jwtSecret) == 0 {
			return nil, errors.New("JWT_SECRET is required when no OIDC issuer is configured")
		}
		return a, nil
	}

	issuer := conf.OIDC_ISSUER

	provider, err := oidc.NewProvider(context.Background(), issuer)
	if err != nil {
		return nil, err
	}

	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return nil, err
	}

	a.Provider = provider
	a.Config = oauth2.Config{
		ClientID:     conf.OIDC_CLIENT_ID,
		ClientSecret: conf.OIDC_CLIENT_SECRET,
		RedirectURL:  conf.OIDC_CALLBACK_URL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	a.issuer = issuer
	a.jwksProvider = jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	a.oidcEnabled = true

	return a, nil
}

func (a *Authenticator) OIDCEnabled() bool {
	return a.oidcEnabled
}

func (a *Authenticator) Audience() string {
	return a.audience
}

// emailClaims carries the email claim of an access token.
type emailClaims struct {
	Email string `json:"email"`
}

func (c *emailClaims) Validate(ctx context.Context) error {
	return nil
}

// Verify resolves the raw access token to an identity. In OIDC mode the token
// is validated against the provider's JWKS; otherwise it is an HS256 token
// signed with the shared secret.
func (a *Authenticator) Verify(ctx context.Context, token string) (*Identity, error) {
	if a.oidcEnabled {
		return a.verifyRemote(ctx, token)
	}
	return a.verifyLocal(token)
}

func (a *Authenticator) verifyRemote(ctx context.Context, token string) (*Identity, error) {
	jwtValidator, err := validator.New(
		a.jwksProvider.KeyFunc,
		validator.RS256,
		a.issuer,
		[]string{a.audience},
		validator.WithCustomClaims(func() validator.CustomClaims { return &emailClaims{} }),
	)
	if err != nil {
		return nil, err
	}

	payload, err := jwtValidator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	claims, ok := payload.(*validator.ValidatedClaims)
	if !ok {
		return nil, errors.New("unexpected claims payload")
	}

	identity := &Identity{UserID: claims.RegisteredClaims.Subject}
	if custom, ok := claims.CustomClaims.(*emailClaims); ok {
		identity.Email = custom.Email
	}

	return identity, nil
}

type localClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func (a *Authenticator) verifyLocal(token string) (*Identity, error) {
	claims := &localClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.jwtIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("access token has no subject")
	}

	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// GenerateToken issues an HS256 access token for a locally authenticated user.
func (a *Authenticator) GenerateToken(userID, email string, ttl time.Duration) (string, error) {
	if len(a.jwtSecret) == 0 {
		return "", errors.New("local token issuing is disabled")
	}

	now := time.Now()
	claims := &localClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    a.jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
}

// VerifyIDToken verifies that an *oauth2.Token is a valid *oidc.IDToken.
func (a *Authenticator) VerifyIDToken(ctx context.Context, token *oauth2.Token) (*oidc.IDToken, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token field in oauth2 token")
	}

	oidcConfig := &oidc.Config{
		ClientID: a.ClientID,
	}

	return a.Verifier(oidcConfig).Verify(ctx, rawIDToken)
}

type OAuthState struct {
	CSRF      string `json:"csrf"`
	Redirect  string `json:"redirect"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func (a *Authenticator) GetSignedState(state OAuthState) (string, error) {
	payload, err := sonic.Marshal(state)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	sig := mac.Sum(nil)

	combined := append(payload, sig...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

func (a *Authenticator) VerifySignedState(encodedState string) (*OAuthState, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedState)
	if err != nil {
		return nil, errors.New("invalid base64")
	}

	if len(raw) < sha256.Size {
		return nil, errors.New("state too short")
	}

	payload := raw[:len(raw)-sha256.Size]
	sig := raw[len(raw)-sha256.Size:]

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	expectedSig := mac.Sum(nil)
	if !hmac.Equal(sig, expectedSig) {
		return nil, errors.New("invalid state signature")
	}

	var state OAuthState
	if err := sonic.Unmarshal(payload, &state); err != nil {
		return nil, errors.New("invalid state payload")
	}

	if time.Now().Unix() > state.ExpiresAt {
		return nil, errors.New("state expired")
	}

	return &state, nil
}
