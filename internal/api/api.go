package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/pagecache"
	"github.com/pagecraft/pagecraft/internal/pubsub"
	"github.com/pagecraft/pagecraft/internal/services"
	"github.com/valyala/fasthttp"

	"github.com/pagecraft/pagecraft/internal/api/response"
	"github.com/pagecraft/pagecraft/internal/config"
	"github.com/pagecraft/pagecraft/internal/migrations"
)

// Server is the HTTP server with access to the service layer.
type Server struct {
	srv      *fasthttp.Server
	addr     string
	conf     *config.Config
	services *services.Services
	cache    *pagecache.PageCache
	changes  *pubsub.PubSub
}

// New runs pending migrations, wires the services and builds the route table.
func New(conf *config.Config) *Server {
	m, err := migrations.NewMigrator()
	if err != nil {
		panic("unable to create migrator")
	}

	err = m.Up(0)
	if err != nil {
		panic("unable to run migrations")
	}

	response.Configure(conf.IsProduction())

	s := &Server{
		srv:      &fasthttp.Server{},
		addr:     fmt.Sprintf("0.0.0.0:%s", conf.PORT),
		conf:     conf,
		services: services.NewServices(conf),
	}

	if conf.REDIS_ADDR != "" {
		cache, err := pagecache.New(conf)
		if err != nil {
			slog.Warn("Page cache disabled", slog.Any("error", err))
		} else {
			s.cache = cache
			s.changes = pubsub.NewPubSub(conf)
			s.changes.Subscribe(s.invalidateCache)
		}
	}

	s.srv.Handler = s.initRoutes()

	return s
}

// invalidateCache drops cached pages when their rows change.
func (s *Server) invalidateCache(event pubsub.PageChangeEvent) {
	ctx := context.Background()

	if event.Operation == "RELOAD" {
		s.cache.Flush(ctx)
		return
	}

	tenantID, err := uuid.Parse(event.TenantID)
	if err != nil {
		slog.Warn("Invalid tenant id in page change event", slog.String("tenant_id", event.TenantID))
		return
	}

	s.cache.Invalidate(ctx, tenantID, event.Slug)
}

// Start the rest server
func (s *Server) Start() {
	if s.changes != nil {
		if err := s.changes.Start(); err != nil {
			slog.Warn("Failed to start page change listener", slog.Any("error", err))
		}
	}

	slog.Info("Starting REST server...")
	go func() {
		if err := s.srv.ListenAndServe(s.addr); err != nil {
			slog.Error("Server shutdown", slog.Any("error", err))
		}
	}()
	slog.Info("REST server started!", slog.String("addr", s.addr))

	// Listen for OS interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block till we receive an interrupt
	<-c
	slog.Info("Received interrupt...")

	// Create a timeout
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s.shutdown(ctx)
}

// shutdown shuts down the rest server
func (s *Server) shutdown(ctx context.Context) {
	slog.Info("Gracefully shutting down REST server...")

	if s.changes != nil {
		s.changes.Stop()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("Failed to close page cache", slog.Any("error", err))
		}
	}

	if err := s.srv.Shutdown(); err != nil {
		slog.Error("Failed to shutdown the server", slog.Any("error", err))
	}
	slog.Info("REST server shutdown!")
}
