package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReconcileConfig holds the tunables for the reconciliation scheduler.
type ReconcileConfig struct {
	Interval          time.Duration `mapstructure:"interval"`
	TenantTimeout     time.Duration `mapstructure:"tenantTimeout"`
	TenantConcurrency int           `mapstructure:"tenantConcurrency"`
	EnabledJobs       []string      `mapstructure:"enabledJobs"`
}

func DefaultReconcileConfig() ReconcileConfig {
	return ReconcileConfig{
		Interval:          time.Hour,
		TenantTimeout:     10 * time.Second,
		TenantConcurrency: 4,
	}
}

// ReconcileConfigHolder serves the current reconcile config and hot-reloads
// it when the config file changes on disk.
type ReconcileConfigHolder struct {
	current atomic.Value // holds ReconcileConfig
}

func NewReconcileConfigHolder() (*ReconcileConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("reconcile")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/candybot/config")
	v.AddConfigPath("/etc/candybot")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CANDYBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultReconcileConfig()
		v.SetDefault("reconcile.interval", defaults.Interval)
		v.SetDefault("reconcile.tenantTimeout", defaults.TenantTimeout)
		v.SetDefault("reconcile.tenantConcurrency", defaults.TenantConcurrency)
	}

	var cfg ReconcileConfig
	if err := v.UnmarshalKey("reconcile", &cfg); err != nil {
		return nil, err
	}
	if err := validateReconcileConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReconcileConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReconcileConfig
		if err := v.UnmarshalKey("reconcile", &updated); err != nil {
			log.Printf("[reconcile-config] reload failed: %v", err)
			return
		}
		if err := validateReconcileConfig(updated); err != nil {
			log.Printf("[reconcile-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[reconcile-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ReconcileConfigHolder) Get() ReconcileConfig {
	return h.current.Load().(ReconcileConfig)
}

func validateReconcileConfig(cfg ReconcileConfig) error {
	if cfg.Interval < 0 {
		return errors.New("reconcile.interval cannot be negative")
	}
	if cfg.TenantTimeout < 0 {
		return errors.New("reconcile.tenantTimeout cannot be negative")
	}
	if cfg.TenantConcurrency < 0 {
		return errors.New("reconcile.tenantConcurrency cannot be negative")
	}
	return nil
}
