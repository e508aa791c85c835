package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestClassifyEnvironment(t *testing.T) {
	tests := []struct {
		env  string
		want Mode
	}{
		{"production", ModeProduction},
		{"PROD", ModeProduction},
		{" production ", ModeProduction},
		{"development", ModeDevelopment},
		{"staging", ModeDevelopment},
		{"", ModeDevelopment},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEnvironment(tt.env))
		})
	}
}

func TestMode_Tag(t *testing.T) {
	assert.Equal(t, "[PROD]", ModeProduction.Tag())
	assert.Equal(t, "[DEV]", ModeDevelopment.Tag())
}

func TestConfig_EmailClassifiers(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
		Email: EmailConfig{
			TestRecipient: "owner@plana.ar",
			Resend:        ResendConfig{APIKey: "re_123456"},
			Development:   EnvironmentFlags{SimulateEmails: true, VerboseLogging: true},
			Production:    EnvironmentFlags{SimulateEmails: false, VerboseLogging: false},
		},
	}

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.ShouldSimulateEmails())
	assert.False(t, cfg.VerboseEmailLogging())
	assert.True(t, cfg.HasEmailCredential())
	assert.True(t, cfg.EmailTestModeActive())

	cfg.App.Environment = "development"
	assert.True(t, cfg.ShouldSimulateEmails())
	assert.True(t, cfg.VerboseEmailLogging())

	cfg.Email.Resend.DomainVerified = true
	assert.False(t, cfg.EmailTestModeActive())
}

func TestValidAPIKey(t *testing.T) {
	assert.True(t, ValidAPIKey("re_abc"))
	assert.False(t, ValidAPIKey(""))
	assert.False(t, ValidAPIKey("re_"))
	assert.False(t, ValidAPIKey("sk_live_abc"))
}

func TestLoadFromFile_DefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "production")
	t.Setenv("RESEND_API_KEY", "re_from_env")
	t.Setenv("RESEND_TEST_EMAIL", "owner@plana.ar")
	t.Setenv("PROD_SIMULATE_EMAILS", "true")
	t.Setenv("RESEND_DOMAIN_VERIFIED", "false")

	path := writeConfig(t, `
app:
  name: plana-test
email:
  production:
    verbose_logging: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "plana-test", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, "re_from_env", cfg.Email.Resend.APIKey)
	assert.Equal(t, "owner@plana.ar", cfg.Email.TestRecipient)
	assert.Equal(t, DefaultFromAddress, cfg.Email.DefaultFrom)
	assert.Equal(t, "https://api.resend.com", cfg.Email.Resend.Endpoint)
	assert.Equal(t, 3, cfg.Email.MaxAttempts)
	assert.Equal(t, 1000, cfg.Email.RetryBaseDelay)
	assert.True(t, cfg.Email.DowngradeProviderErrors)
	assert.True(t, cfg.Email.Production.SimulateEmails)
	assert.True(t, cfg.Email.Production.VerboseLogging)
	assert.True(t, cfg.ShouldSimulateEmails())
	assert.True(t, cfg.EmailTestModeActive())
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "es", cfg.Bookings.DefaultLanguage)
}

func TestLoadFromFile_StrictPolicy(t *testing.T) {
	path := writeConfig(t, `
email:
  downgrade_provider_errors: false
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.False(t, cfg.Email.DowngradeProviderErrors)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("PLANA_TEST_FROM", "Reservas <reservas@plana.ar>")

	path := writeConfig(t, `
email:
  default_from: ${PLANA_TEST_FROM}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Reservas <reservas@plana.ar>", cfg.Email.DefaultFrom)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{
			name: "camunda enabled without broker",
			body: `
camunda:
  enabled: true
`,
			errMsg: "camunda.broker_address",
		},
		{
			name: "malformed test recipient",
			body: `
email:
  test_recipient: not-an-address
`,
			errMsg: "email.test_recipient",
		},
		{
			name: "negative attempts",
			body: `
email:
  max_attempts: -1
`,
			errMsg: "email.max_attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "plana", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=plana sslmode=disable", p.GetDSN())
	assert.True(t, p.Enabled())

	p.URL = "postgres://u:p@db/plana"
	assert.Equal(t, "postgres://u:p@db/plana", p.GetDSN())
	assert.False(t, PostgresConfig{}.Enabled())
}
