package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the deal service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"deal-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"DEAL_API_PORT" envDefault:"8290"`
	LogLevel        string        `env:"DEAL_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database (required, no default)
	DBPostgresqlWriteDSN string `env:"DB_POSTGRESQL_WRITE_DSN,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Brand reply links
	ReplyTokenTTL   time.Duration `env:"REPLY_TOKEN_TTL" envDefault:"0"` // 0 = links do not expire
	ViewDedupWindow time.Duration `env:"VIEW_DEDUP_WINDOW" envDefault:"1h"`

	// Transactional email collaborator
	EmailAPIURL  string `env:"EMAIL_API_URL" envDefault:"https://api.resend.com"`
	EmailAPIKey  string `env:"EMAIL_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"deals@dealdesk.app"`
	EmailEnabled bool   `env:"EMAIL_ENABLED" envDefault:"true"`

	// Invoice generation collaborator
	InvoiceAPIURL string `env:"INVOICE_API_URL"`

	// Authentication (creator-side endpoints)
	AuthEnabled bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer  string `env:"AUTH_ISSUER"`
	AuthJWKSURL string `env:"AUTH_JWKS_URL"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.EmailAPIURL = strings.TrimSpace(cfg.EmailAPIURL)
	cfg.EmailAPIKey = strings.TrimSpace(cfg.EmailAPIKey)
	cfg.InvoiceAPIURL = strings.TrimSpace(cfg.InvoiceAPIURL)
	if cfg.ViewDedupWindow <= 0 {
		cfg.ViewDedupWindow = time.Hour
	}
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return cfg, nil
}

// GetDatabaseWriteDSN returns the write database connection string.
func (c *Config) GetDatabaseWriteDSN() string {
	return c.DBPostgresqlWriteDSN
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsProduction reports whether the service runs in the production environment.
// Debug tooling must stay disabled whenever this is true.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}
