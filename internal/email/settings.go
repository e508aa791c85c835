package email

import (
	"time"

	"plana-backend/internal/common/config"
)

// Settings is the immutable view of the configuration the chain needs,
// resolved once at startup.
type Settings struct {
	Mode           config.Mode
	SimulateForced bool
	Verbose        bool

	APIKey   string
	Endpoint string

	TestModeActive bool
	TestRecipient  string
	DefaultFrom    string

	MaxAttempts    int
	RetryBaseDelay time.Duration

	DowngradeProviderErrors bool

	SimulateLatency bool
	MinLatency      time.Duration
	MaxLatency      time.Duration
}

// NewSettings resolves every environment classifier once.
func NewSettings(cfg *config.Config) Settings {
	return Settings{
		Mode:                    cfg.Mode(),
		SimulateForced:          cfg.ShouldSimulateEmails(),
		Verbose:                 cfg.VerboseEmailLogging(),
		APIKey:                  cfg.Email.Resend.APIKey,
		Endpoint:                cfg.Email.Resend.Endpoint,
		TestModeActive:          cfg.EmailTestModeActive(),
		TestRecipient:           cfg.Email.TestRecipient,
		DefaultFrom:             cfg.Email.DefaultFrom,
		MaxAttempts:             cfg.Email.MaxAttempts,
		RetryBaseDelay:          config.GetDuration(cfg.Email.RetryBaseDelay),
		DowngradeProviderErrors: cfg.Email.DowngradeProviderErrors,
		SimulateLatency:         cfg.Email.SimulateLatency,
		MinLatency:              time.Second,
		MaxLatency:              3 * time.Second,
	}
}

// HasCredential reports whether a usable provider key is configured.
func (s Settings) HasCredential() bool {
	return config.ValidAPIKey(s.APIKey)
}

// maxSDKAttempts caps the SDK retry budget regardless of configuration.
const maxSDKAttempts = 3

// sdkAttempts is the retry budget: production retries, development does not.
func (s Settings) sdkAttempts() int {
	if s.Mode != config.ModeProduction || s.MaxAttempts < 1 {
		return 1
	}
	return min(s.MaxAttempts, maxSDKAttempts)
}

func (s Settings) endpointURL() string {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	for len(endpoint) > 0 && endpoint[len(endpoint)-1] == '/' {
		endpoint = endpoint[:len(endpoint)-1]
	}
	return endpoint + "/emails"
}
