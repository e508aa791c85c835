// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Camunda  CamundaConfig  `mapstructure:"camunda"`
	Database DatabaseConfig `mapstructure:"database"`
	Email    EmailConfig    `mapstructure:"email"`
	Bookings BookingsConfig `mapstructure:"bookings"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	Plaintext      bool   `mapstructure:"plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL            string `mapstructure:"url"` // Takes precedence over the discrete fields
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// Enabled reports whether enough is configured to open a connection.
func (p PostgresConfig) Enabled() bool {
	return p.URL != "" || p.Host != ""
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Email ---

// EmailConfig holds everything the transactional email chain reads.
type EmailConfig struct {
	DefaultFrom   string `mapstructure:"default_from"`
	TestRecipient string `mapstructure:"test_recipient"`

	// DowngradeProviderErrors turns provider failures on the raw HTTP path
	// into simulated successes so user flows never block on the provider.
	DowngradeProviderErrors bool `mapstructure:"downgrade_provider_errors"`
	SimulateLatency         bool `mapstructure:"simulate_latency"`
	MaxAttempts             int  `mapstructure:"max_attempts"`
	RetryBaseDelay          int  `mapstructure:"retry_base_delay"` // milliseconds
	Timeout                 int  `mapstructure:"timeout"`          // milliseconds

	Resend      ResendConfig     `mapstructure:"resend"`
	Development EnvironmentFlags `mapstructure:"development"`
	Production  EnvironmentFlags `mapstructure:"production"`
}

type ResendConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Endpoint       string `mapstructure:"endpoint"`
	DomainVerified bool   `mapstructure:"domain_verified"`
}

// EnvironmentFlags are the per-classification switches.
type EnvironmentFlags struct {
	SimulateEmails bool `mapstructure:"simulate_emails"`
	VerboseLogging bool `mapstructure:"verbose_logging"`
}

// BookingsConfig holds settings for the booking confirmation notifier.
type BookingsConfig struct {
	CacheTTL        int    `mapstructure:"cache_ttl"` // seconds
	DefaultLanguage string `mapstructure:"default_language"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
