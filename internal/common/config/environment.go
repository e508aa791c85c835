package config

import "strings"

// Mode is the deployment classification used to branch retries and logging.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Tag returns the short log tag for the mode.
func (m Mode) Tag() string {
	if m == ModeProduction {
		return "[PROD]"
	}
	return "[DEV]"
}

// ClassifyEnvironment maps a raw environment string to a Mode. Anything that
// is not explicitly production is treated as development.
func ClassifyEnvironment(env string) Mode {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		return ModeProduction
	default:
		return ModeDevelopment
	}
}

// Mode classifies the configured application environment.
func (c *Config) Mode() Mode {
	return ClassifyEnvironment(c.App.Environment)
}

func (c *Config) IsProduction() bool {
	return c.Mode() == ModeProduction
}

func (c *Config) emailFlags() EnvironmentFlags {
	if c.IsProduction() {
		return c.Email.Production
	}
	return c.Email.Development
}

// ShouldSimulateEmails reports whether the simulation flag is set for the
// current classification.
func (c *Config) ShouldSimulateEmails() bool {
	return c.emailFlags().SimulateEmails
}

// VerboseEmailLogging reports whether stage-level email logs are wanted.
func (c *Config) VerboseEmailLogging() bool {
	return c.emailFlags().VerboseLogging
}

// HasEmailCredential reports whether a well-formed provider key is present.
func (c *Config) HasEmailCredential() bool {
	return ValidAPIKey(c.Email.Resend.APIKey)
}

// EmailTestModeActive reports whether outgoing mail must be redirected to the
// authorized test recipient because the sending domain is unverified.
func (c *Config) EmailTestModeActive() bool {
	return !c.Email.Resend.DomainVerified && strings.TrimSpace(c.Email.TestRecipient) != ""
}

// ValidAPIKey checks the provider key shape.
func ValidAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	return len(key) > len("re_") && strings.HasPrefix(key, "re_")
}
