package emailsend

import (
	"fmt"
	"time"

	"plana-backend/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		cfg.Enabled = appConfig.Camunda.Enabled
		if appConfig.Camunda.MaxJobsActive > 0 {
			cfg.MaxJobsActive = appConfig.Camunda.MaxJobsActive
		}
		if appConfig.Camunda.Timeout > 0 {
			cfg.Timeout = config.GetDuration(appConfig.Camunda.Timeout)
		}
	}
	return cfg
}
