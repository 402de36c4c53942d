package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	PORT string
	ENV  string

	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	// Local token verification / issuing (GoTrue-compatible HS256)
	JWT_SECRET string
	JWT_ISSUER string

	// Hosted login via an OIDC provider. When OIDC_ISSUER is empty, access tokens
	// are verified locally with JWT_SECRET instead of the provider's JWKS.
	OIDC_ISSUER        string
	OIDC_CLIENT_ID     string
	OIDC_CLIENT_SECRET string
	OIDC_CALLBACK_URL  string
	STATE_SECRET       string

	// Recovery identities allowed to operate with a synthesized super_admin
	// profile when their profile row is missing. Keep this list small.
	RECOVERY_ADMIN_EMAILS []string

	// When true, a tenant-less super_admin hitting a tenant-scoped route is
	// assigned the oldest tenant instead of failing with NO_TENANT.
	SUPER_ADMIN_TENANT_FALLBACK bool

	CORS_ORIGINS []string

	REDIS_ADDR     string
	REDIS_PASSWORD string

	// ClickHouse configuration for the authorization audit trail
	CLICKHOUSE_HOST     string
	CLICKHOUSE_PORT     int
	CLICKHOUSE_DATABASE string
	CLICKHOUSE_USERNAME string
	CLICKHOUSE_PASSWORD string
	CLICKHOUSE_USE_TLS  bool

	ASSET_DATA_PATH string
	ASSET_BASE_URL  string

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	return &Config{
		PORT: GetEnvOrDefault("PORT", "5000"),
		ENV:  GetEnvOrDefault("ENV", "development"),

		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: GetEnvOrDefault("JWT_ISSUER", "pagecraft"),

		OIDC_ISSUER:        os.Getenv("OIDC_ISSUER"),
		OIDC_CLIENT_ID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDC_CLIENT_SECRET: os.Getenv("OIDC_CLIENT_SECRET"),
		OIDC_CALLBACK_URL:  os.Getenv("OIDC_CALLBACK_URL"),
		STATE_SECRET:       os.Getenv("STATE_SECRET"),

		RECOVERY_ADMIN_EMAILS:       splitList(os.Getenv("RECOVERY_ADMIN_EMAILS")),
		SUPER_ADMIN_TENANT_FALLBACK: os.Getenv("SUPER_ADMIN_TENANT_FALLBACK") == "true",

		CORS_ORIGINS: splitList(GetEnvOrDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")),

		REDIS_ADDR:     os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),

		CLICKHOUSE_HOST:     os.Getenv("CLICKHOUSE_HOST"),
		CLICKHOUSE_PORT:     getEnvIntOrDefault("CLICKHOUSE_PORT", 8123),
		CLICKHOUSE_DATABASE: GetEnvOrDefault("CLICKHOUSE_DATABASE", "pagecraft"),
		CLICKHOUSE_USERNAME: GetEnvOrDefault("CLICKHOUSE_USERNAME", "default"),
		CLICKHOUSE_PASSWORD: os.Getenv("CLICKHOUSE_PASSWORD"),
		CLICKHOUSE_USE_TLS:  os.Getenv("CLICKHOUSE_USE_TLS") == "true",

		ASSET_DATA_PATH: GetEnvOrDefault("ASSET_DATA_PATH", "./data/assets"),
		ASSET_BASE_URL:  GetEnvOrDefault("ASSET_BASE_URL", "http://localhost:5000/api/assets/files"),

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

// IsProduction reports whether the server runs with production error reporting,
// which omits stack traces from responses.
func (c *Config) IsProduction() bool {
	return c.ENV == "production"
}

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
