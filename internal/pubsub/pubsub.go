package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/pagecraft/pagecraft/internal/config"
)

// PageChangeEvent represents a page row change notification. A RELOAD
// operation with empty tenant and slug means notifications may have been
// missed and all cached pages must be dropped.
type PageChangeEvent struct {
	TenantID  string
	Slug      string
	Operation string // INSERT, UPDATE, DELETE, RELOAD
}

// PageChangeHandler is a callback function for page changes
type PageChangeHandler func(event PageChangeEvent)

// PubSub handles PostgreSQL LISTEN/NOTIFY for page changes. The public
// rendering cache subscribes to drop stale entries the moment a page row
// changes.
type PubSub struct {
	connStr  string
	listener *pq.Listener
	handlers []PageChangeHandler
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPubSub creates a new PubSub instance
func NewPubSub(conf *config.Config) *PubSub {
	connStr := fmt.Sprintf("postgresql://%v:%v@%v:%v/%v",
		conf.DB_USERNAME, conf.DB_PASSWORD, conf.DB_HOST, conf.DB_PORT, conf.DB_NAME)
	if conf.DISABLE_TLS == "true" {
		connStr = connStr + "?sslmode=disable"
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &PubSub{
		connStr:  connStr,
		handlers: make([]PageChangeHandler, 0),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Subscribe adds a handler for page change events
func (ps *PubSub) Subscribe(handler PageChangeHandler) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.handlers = append(ps.handlers, handler)
}

// Start begins listening for notifications
func (ps *PubSub) Start() error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Error("PubSub listener error", slog.Any("error", err))
		}
		if ev == pq.ListenerEventConnectionAttemptFailed {
			slog.Warn("PubSub connection attempt failed, will retry")
		}
		if ev == pq.ListenerEventDisconnected {
			slog.Warn("PubSub disconnected, will attempt reconnect")
		}
		if ev == pq.ListenerEventReconnected {
			slog.Info("PubSub reconnected, flushing page cache")
			// Notifications may have been missed while disconnected
			ps.notifyHandlers(PageChangeEvent{Operation: "RELOAD"})
		}
	}

	ps.listener = pq.NewListener(ps.connStr, 10*time.Second, time.Minute, reportProblem)

	if err := ps.listener.Listen("page_changes"); err != nil {
		return fmt.Errorf("failed to listen on page_changes channel: %w", err)
	}

	slog.Info("PubSub started listening for page changes")

	go ps.processNotifications()

	return nil
}

// Stop closes the listener
func (ps *PubSub) Stop() {
	ps.cancel()
	if ps.listener != nil {
		ps.listener.Close()
	}
	slog.Info("PubSub stopped")
}

func (ps *PubSub) processNotifications() {
	for {
		select {
		case <-ps.ctx.Done():
			return
		case notification := <-ps.listener.Notify:
			if notification == nil {
				// Connection lost, will be handled by reportProblem callback
				continue
			}

			// Parse the payload: "tenant_id:slug:operation"
			parts := strings.SplitN(notification.Extra, ":", 3)
			if len(parts) != 3 {
				slog.Warn("Invalid notification payload", slog.String("payload", notification.Extra))
				continue
			}

			event := PageChangeEvent{
				TenantID:  parts[0],
				Slug:      parts[1],
				Operation: parts[2],
			}

			slog.Debug("Received page change notification",
				slog.String("tenant_id", event.TenantID),
				slog.String("slug", event.Slug),
				slog.String("operation", event.Operation))

			ps.notifyHandlers(event)
		}
	}
}

func (ps *PubSub) notifyHandlers(event PageChangeEvent) {
	ps.mu.RLock()
	handlers := make([]PageChangeHandler, len(ps.handlers))
	copy(handlers, ps.handlers)
	ps.mu.RUnlock()

	for _, handler := range handlers {
		// Run handlers in goroutines to avoid blocking the notification loop
		go handler(event)
	}
}
