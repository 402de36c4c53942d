package services

import (
	"log/slog"
	"os"

	"github.com/pagecraft/pagecraft/internal/config"
	"github.com/pagecraft/pagecraft/internal/db"
	"github.com/pagecraft/pagecraft/internal/services/asset"
	"github.com/pagecraft/pagecraft/internal/services/asset/disk_storage"
	"github.com/pagecraft/pagecraft/internal/services/audit"
	"github.com/pagecraft/pagecraft/internal/services/event"
	"github.com/pagecraft/pagecraft/internal/services/page"
	"github.com/pagecraft/pagecraft/internal/services/profile"
	"github.com/pagecraft/pagecraft/internal/services/registration"
	"github.com/pagecraft/pagecraft/internal/services/speaker"
	"github.com/pagecraft/pagecraft/internal/services/template"
	"github.com/pagecraft/pagecraft/internal/services/tenant"
)

type Services struct {
	Profile      *profile.ProfileService
	Tenant       *tenant.TenantService
	Page         *page.PageService
	Event        *event.EventService
	Speaker      *speaker.SpeakerService
	Registration *registration.RegistrationService
	Template     *template.TemplateService
	Asset        *asset.AssetService

	// Audit is never nil; without ClickHouse it degrades to the log sink.
	Audit audit.Recorder
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	var recorder audit.Recorder = audit.LogRecorder{}
	if conf.CLICKHOUSE_HOST != "" {
		chConn, err := audit.NewClickHouseConn(&audit.ClickHouseConfig{
			Host:     conf.CLICKHOUSE_HOST,
			Port:     conf.CLICKHOUSE_PORT,
			Database: conf.CLICKHOUSE_DATABASE,
			Username: conf.CLICKHOUSE_USERNAME,
			Password: conf.CLICKHOUSE_PASSWORD,
			UseTLS:   conf.CLICKHOUSE_USE_TLS,
		})
		if err != nil {
			slog.Warn("Failed to connect to ClickHouse for audit trail", slog.Any("error", err))
		} else if auditSvc, err := audit.NewAuditService(chConn); err != nil {
			slog.Warn("Failed to initialize audit table", slog.Any("error", err))
		} else {
			recorder = auditSvc
			slog.Info("Connected to ClickHouse for audit trail")
		}
	}

	if err := os.MkdirAll(conf.ASSET_DATA_PATH, 0755); err != nil {
		slog.Warn("Failed to create asset data directory",
			slog.String("path", conf.ASSET_DATA_PATH), slog.Any("error", err))
	}

	eventSvc := event.NewEventService(event.NewEventRepo(dbconn))

	return &Services{
		Profile:      profile.NewProfileService(profile.NewProfileRepo(dbconn)),
		Tenant:       tenant.NewTenantService(tenant.NewTenantRepo(dbconn)),
		Page:         page.NewPageService(page.NewPageRepo(dbconn)),
		Event:        eventSvc,
		Speaker:      speaker.NewSpeakerService(speaker.NewSpeakerRepo(dbconn)),
		Registration: registration.NewRegistrationService(registration.NewRegistrationRepo(dbconn), eventSvc),
		Template:     template.NewTemplateService(template.NewTemplateRepo(dbconn)),
		Asset: asset.NewAssetService(
			asset.NewAssetRepo(dbconn),
			disk_storage.NewDiskStorage(conf.ASSET_DATA_PATH),
			conf.ASSET_BASE_URL,
		),
		Audit: recorder,
	}
}
