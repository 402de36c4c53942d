package api

import (
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/pagecraft/pagecraft/internal/api/authenticator"
	"github.com/pagecraft/pagecraft/internal/api/authz"
	"github.com/pagecraft/pagecraft/internal/api/controllers"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/propagation"
)

var tracePropagator = propagation.TraceContext{}

func (s *Server) initRoutes() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	auth, err := authenticator.New(s.conf)
	if err != nil {
		log.Fatal(err)
	}

	resolver := authz.NewResolver(auth, s.services.Profile, s.services.Tenant, s.services.Audit, authz.Config{
		RecoveryEmails: s.conf.RECOVERY_ADMIN_EMAILS,
		TenantFallback: s.conf.SUPER_ADMIN_TENANT_FALLBACK,
	})

	controllers.RegisterAuthRoutes(r, s.services, auth, resolver)
	controllers.RegisterPageRoutes(r, s.services, resolver)
	controllers.RegisterEventRoutes(r, s.services, resolver)
	controllers.RegisterSpeakerRoutes(r, s.services, resolver)
	controllers.RegisterRegistrationRoutes(r, s.services, resolver)
	controllers.RegisterTemplateRoutes(r, s.services, resolver)
	controllers.RegisterAssetRoutes(r, s.services, resolver)
	controllers.RegisterAdminRoutes(r, s.services, resolver)
	controllers.RegisterPublicRoutes(r, s.services, s.cache, resolver)

	return s.withMiddlewares(r.Handler)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		s.applyCORS(ctx)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		uri := ctx.URI()
		requestURI := string(uri.FullURI())
		slog.Info("Started processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(ctx, propagation.HeaderCarrier(h))
		ctx.SetUserValue("traceCtx", traceCtx)

		next(ctx)

		slog.Info("Finished processing",
			slog.String("method", string(ctx.Method())),
			slog.String("request_uri", requestURI),
			slog.Int("status", ctx.Response.StatusCode()),
			slog.Duration("duration", time.Since(start)))
	}
}

func (s *Server) applyCORS(ctx *fasthttp.RequestCtx) {
	origin := string(ctx.Request.Header.Peek("Origin"))
	if origin == "" {
		return
	}

	allowed := false
	for _, o := range s.conf.CORS_ORIGINS {
		if o == "*" || strings.EqualFold(o, origin) {
			allowed = true
			break
		}
	}
	if !allowed {
		return
	}

	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", origin)
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", "Authorization,Content-Type,x-tenant-id")
	headers.Set("Access-Control-Allow-Credentials", "true")
}
