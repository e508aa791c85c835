// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultFromAddress = "PLAN A <onboarding@resend.dev>"

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)

	env := environmentName()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// config.<env>.yaml is optional
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finalize(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setViperDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Booleans cannot be told apart from "unset" after unmarshalling, so their
// defaults live in viper.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("email.downgrade_provider_errors", true)
	v.SetDefault("email.simulate_latency", true)
	v.SetDefault("email.development.verbose_logging", true)
	v.SetDefault("camunda.plaintext", true)
}

func environmentName() string {
	for _, key := range []string{"APP_ENVIRONMENT", "NODE_ENV"} {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return string(ModeDevelopment)
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig copies the well-known deployment variables into the
// config. Strings only fill empty fields; boolean flags win when set.
func overrideEmptyConfig(cfg *Config) {
	if cfg.App.Environment == "" {
		cfg.App.Environment = environmentName()
	}

	setIfEmpty(&cfg.Email.Resend.APIKey, "RESEND_API_KEY")
	setIfEmpty(&cfg.Email.TestRecipient, "RESEND_TEST_EMAIL")
	setIfEmpty(&cfg.Database.Postgres.URL, "DATABASE_URL")
	setIfEmpty(&cfg.Database.Redis.Address, "REDIS_ADDRESS")
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		cfg.Email.DefaultFrom = val
	}

	setBool(&cfg.Email.Resend.DomainVerified, "RESEND_DOMAIN_VERIFIED")
	setBool(&cfg.Email.Development.SimulateEmails, "DEV_SIMULATE_EMAILS")
	setBool(&cfg.Email.Development.VerboseLogging, "DEV_VERBOSE_LOGGING")
	setBool(&cfg.Email.Production.SimulateEmails, "PROD_SIMULATE_EMAILS")
	setBool(&cfg.Email.Production.VerboseLogging, "PROD_VERBOSE_LOGGING")
}

func setIfEmpty(field *string, envKey string) {
	if *field != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func setBool(field *bool, envKey string) {
	val, ok := os.LookupEnv(envKey)
	if !ok || val == "" {
		return
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
		*field = b
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "plana-backend"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 5
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "require"
	}

	if cfg.Email.DefaultFrom == "" {
		cfg.Email.DefaultFrom = DefaultFromAddress
	}
	if cfg.Email.Resend.Endpoint == "" {
		cfg.Email.Resend.Endpoint = "https://api.resend.com"
	}
	if cfg.Email.MaxAttempts == 0 {
		cfg.Email.MaxAttempts = 3
	}
	if cfg.Email.RetryBaseDelay == 0 {
		cfg.Email.RetryBaseDelay = 1000
	}
	if cfg.Email.Timeout == 0 {
		cfg.Email.Timeout = 15000
	}

	if cfg.Bookings.CacheTTL == 0 {
		cfg.Bookings.CacheTTL = 300
	}
	if cfg.Bookings.DefaultLanguage == "" {
		cfg.Bookings.DefaultLanguage = "es"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}

	if _, err := mail.ParseAddress(cfg.Email.DefaultFrom); err != nil {
		return fmt.Errorf("email.default_from is not a valid address: %w", err)
	}
	if cfg.Email.TestRecipient != "" {
		if _, err := mail.ParseAddress(cfg.Email.TestRecipient); err != nil {
			return fmt.Errorf("email.test_recipient is not a valid address: %w", err)
		}
	}
	if cfg.Email.MaxAttempts < 1 {
		return fmt.Errorf("email.max_attempts must be positive")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
