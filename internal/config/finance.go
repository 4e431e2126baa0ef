package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FinanceConfig holds the tunable financial-document settings. It is
// loaded from finance.yml and hot-reloaded on change so number series
// can be adjusted without a restart.
type FinanceConfig struct {
	DefaultCurrency string            `mapstructure:"defaultCurrency"`
	NumberTemplates map[string]string `mapstructure:"numberTemplates"`
}

func DefaultFinanceConfig() FinanceConfig {
	return FinanceConfig{
		DefaultCurrency: "EUR",
		NumberTemplates: map[string]string{
			"invoice": "INV-{YYYY}{MM}-{SEQ4}",
			"quote":   "QUO-{YYYY}{MM}-{SEQ4}",
			"expense": "EXP-{YYYY}{MM}-{SEQ4}",
		},
	}
}

type FinanceConfigHolder struct {
	current atomic.Value // holds FinanceConfig
}

func NewFinanceConfigHolder() (*FinanceConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("finance")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/ribotflow/config") // Volume-mounted config
	v.AddConfigPath("/etc/ribotflow")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("RIBOTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultFinanceConfig()
	v.SetDefault("finance.defaultCurrency", defaults.DefaultCurrency)
	v.SetDefault("finance.numberTemplates", defaults.NumberTemplates)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg FinanceConfig
	if err := v.UnmarshalKey("finance", &cfg); err != nil {
		return nil, err
	}
	if err := validateFinanceConfig(cfg); err != nil {
		return nil, err
	}

	holder := &FinanceConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated FinanceConfig
		if err := v.UnmarshalKey("finance", &updated); err != nil {
			log.Printf("[finance-config] reload failed: %v", err)
			return
		}
		if err := validateFinanceConfig(updated); err != nil {
			log.Printf("[finance-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[finance-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticFinanceConfigHolder wraps a fixed config. No file watching,
// no reloads.
func NewStaticFinanceConfigHolder(cfg FinanceConfig) *FinanceConfigHolder {
	holder := &FinanceConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *FinanceConfigHolder) Get() FinanceConfig {
	return h.current.Load().(FinanceConfig)
}

// NumberTemplate returns the document-number template for a kind,
// falling back to the built-in default.
func (c FinanceConfig) NumberTemplate(kind string) string {
	if tpl, ok := c.NumberTemplates[kind]; ok && strings.TrimSpace(tpl) != "" {
		return tpl
	}
	return DefaultFinanceConfig().NumberTemplates[kind]
}

func validateFinanceConfig(cfg FinanceConfig) error {
	if strings.TrimSpace(cfg.DefaultCurrency) == "" {
		return errors.New("finance.defaultCurrency cannot be empty")
	}
	if len(cfg.NumberTemplates) == 0 {
		return errors.New("finance.numberTemplates cannot be empty")
	}
	return nil
}
