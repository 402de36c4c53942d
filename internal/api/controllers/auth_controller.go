package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/api/authenticator"
	"github.com/pagecraft/pagecraft/internal/api/authz"
	"github.com/pagecraft/pagecraft/internal/api/response"
	"github.com/pagecraft/pagecraft/internal/perrors"
	"github.com/pagecraft/pagecraft/internal/services"
	"github.com/pagecraft/pagecraft/internal/services/profile"
	"github.com/valyala/fasthttp"
)

const accessTokenTTL = 24 * time.Hour

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int64            `json:"expires_in"`
	User        *profile.Profile `json:"user"`
}

func RegisterAuthRoutes(r *router.Router, svc *services.Services, auth *authenticator.Authenticator, resolver *authz.Resolver) {
	// Login with email and password, returns a local access token
	r.POST("/api/auth/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var body loginRequest
		if err := parseBody(ctx, &body); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		prof, err := svc.Profile.Authenticate(stdCtx, body.Email, body.Password)
		if err != nil {
			if errors.Is(err, profile.ErrInvalidCredentials) || errors.Is(err, profile.ErrProfileNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrUnauthenticated("Invalid email or password", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Login failed", err))
			return
		}

		token, err := auth.GenerateToken(prof.ID, prof.Email, accessTokenTTL)
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Login failed", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, tokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(accessTokenTTL.Seconds()),
			User:        prof,
		})
	})

	// Exchange a still-valid token for a fresh one
	r.POST("/api/auth/refresh", resolver.Required(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		token, err := auth.GenerateToken(rc.Profile.ID, rc.Profile.Email, accessTokenTTL)
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Token refresh failed", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, tokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(accessTokenTTL.Seconds()),
			User:        rc.Profile,
		})
	}))

	// Current caller's profile and resolved tenant
	r.GET("/api/auth/me", resolver.Required(func(ctx *fasthttp.RequestCtx) {
		rc := authz.FromRequest(ctx)

		var tenantID *uuid.UUID
		if rc.TenantID != uuid.Nil {
			tenantID = &rc.TenantID
		}

		response.WriteJSON(ctx, http.StatusOK, map[string]any{
			"user":      rc.Profile,
			"tenant_id": tenantID,
		})
	}))

	// Hosted login via the OIDC provider
	r.GET("/api/auth/oidc/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if !auth.OIDCEnabled() {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("OIDC login is not configured", nil))
			return
		}

		now := time.Now()
		state, err := auth.GetSignedState(authenticator.OAuthState{
			CSRF:      uuid.NewString(),
			Redirect:  stringQuery(ctx, "redirect"),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(10 * time.Minute).Unix(),
		})
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to start login", err))
			return
		}

		ctx.Redirect(auth.AuthCodeURL(state), http.StatusFound)
	})

	// OIDC callback: exchanges the code and returns the provider's tokens
	r.GET("/api/auth/oidc/callback", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if !auth.OIDCEnabled() {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("OIDC login is not configured", nil))
			return
		}

		state, err := auth.VerifySignedState(stringQuery(ctx, "state"))
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid login state", err))
			return
		}

		code := stringQuery(ctx, "code")
		if code == "" {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Missing authorization code", nil))
			return
		}

		oauthToken, err := auth.Exchange(stdCtx, code)
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrUnauthenticated("Code exchange failed", err))
			return
		}

		idToken, err := auth.VerifyIDToken(stdCtx, oauthToken)
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrUnauthenticated("Invalid ID token", err))
			return
		}

		var claims struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := idToken.Claims(&claims); err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to read ID token claims", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, map[string]any{
			"access_token": oauthToken.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   int64(time.Until(oauthToken.Expiry).Seconds()),
			"redirect":     state.Redirect,
			"user": map[string]any{
				"id":    idToken.Subject,
				"email": claims.Email,
				"name":  claims.Name,
			},
		})
	})
}
