package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Actions recorded on the authorization audit trail. These are exactly the
// intentional deviations of the pipeline plus the admin mutations that change
// who can see what.
const (
	ActionRecoveryProfile = "recovery_profile"
	ActionTenantOverride  = "tenant_override"
	ActionTenantFallback  = "tenant_fallback"
	ActionRoleChange      = "role_change"
	ActionTenantAssign    = "tenant_assign"
)

// Event is a single audit trail entry.
type Event struct {
	Timestamp time.Time
	Action    string
	UserID    string
	Email     string
	TenantID  string
	Detail    string
}

// Recorder sinks audit events. Recording must never fail a request.
type Recorder interface {
	RecordAuthEvent(ctx context.Context, event Event)
}

// AuditService writes audit events to ClickHouse.
type AuditService struct {
	conn driver.Conn
}

func NewAuditService(conn driver.Conn) (*AuditService, error) {
	s := &AuditService{conn: conn}

	err := conn.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS auth_audit (
            timestamp DateTime64(3),
            action    LowCardinality(String),
            user_id   String,
            email     String,
            tenant_id String,
            detail    String
        ) ENGINE = MergeTree()
        ORDER BY (timestamp, action)
    `)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// RecordAuthEvent inserts the event asynchronously. Failures are logged and
// swallowed so the audit trail never blocks or fails the request path.
func (s *AuditService) RecordAuthEvent(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	go func() {
		insertCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := s.conn.AsyncInsert(insertCtx, `
            INSERT INTO auth_audit (timestamp, action, user_id, email, tenant_id, detail)
            VALUES ($1, $2, $3, $4, $5, $6)
        `, false, event.Timestamp, event.Action, event.UserID, event.Email, event.TenantID, event.Detail)
		if err != nil {
			slog.Warn("Failed to record audit event",
				slog.String("action", event.Action),
				slog.Any("error", err))
		}
	}()
}

// LogRecorder is the fallback sink used when ClickHouse is not configured.
// Events still land on the structured log.
type LogRecorder struct{}

func (LogRecorder) RecordAuthEvent(ctx context.Context, event Event) {
	slog.InfoContext(ctx, "auth audit event",
		slog.String("action", event.Action),
		slog.String("user_id", event.UserID),
		slog.String("email", event.Email),
		slog.String("tenant_id", event.TenantID),
		slog.String("detail", event.Detail))
}
