package reconcile

import (
	"time"

	appconfig "github.com/sodacandy/candybot/internal/config"
)

// Config controls the reconciliation scheduler.
type Config struct {
	Interval          time.Duration
	TenantTimeout     time.Duration
	TenantConcurrency int
	EnabledJobs       []string
}

func DefaultConfig() Config {
	return Config{
		Interval:          time.Hour,
		TenantTimeout:     10 * time.Second,
		TenantConcurrency: 4,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = defaults.Interval
	}
	if c.TenantTimeout <= 0 {
		c.TenantTimeout = defaults.TenantTimeout
	}
	if c.TenantConcurrency <= 0 {
		c.TenantConcurrency = defaults.TenantConcurrency
	}
	return c
}

func fromHolder(holder *appconfig.ReconcileConfigHolder) Config {
	if holder == nil {
		return DefaultConfig()
	}
	cfg := holder.Get()
	return Config{
		Interval:          cfg.Interval,
		TenantTimeout:     cfg.TenantTimeout,
		TenantConcurrency: cfg.TenantConcurrency,
		EnabledJobs:       cfg.EnabledJobs,
	}.withDefaults()
}
