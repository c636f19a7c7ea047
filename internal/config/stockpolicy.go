package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// StockPolicy controls how inventory adjustments treat stock levels.
// It is file-based so operators can tune it without a restart.
type StockPolicy struct {
	// RejectNegativeStock turns the negative stock advisory into a hard
	// validation failure.
	RejectNegativeStock bool `mapstructure:"rejectNegativeStock"`

	// LowStockThreshold flags summaries at or below this level.
	LowStockThreshold int64 `mapstructure:"lowStockThreshold"`

	// MaxQuantityPerAdjustment bounds the absolute quantity change accepted
	// in a single adjustment.
	MaxQuantityPerAdjustment int64 `mapstructure:"maxQuantityPerAdjustment"`
}

func DefaultStockPolicy() StockPolicy {
	return StockPolicy{
		RejectNegativeStock:      false,
		LowStockThreshold:        5,
		MaxQuantityPerAdjustment: 1_000_000,
	}
}

// StockPolicyHolder exposes the current policy and hot reloads it on change.
type StockPolicyHolder struct {
	current atomic.Value // holds StockPolicy
}

func NewStockPolicyHolder() (*StockPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("tradepost")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/tradepost/config") // Volume-mounted config
	v.AddConfigPath("/etc/tradepost")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("TRADEPOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultStockPolicy()
		v.SetDefault("stock_policy.rejectNegativeStock", defaults.RejectNegativeStock)
		v.SetDefault("stock_policy.lowStockThreshold", defaults.LowStockThreshold)
		v.SetDefault("stock_policy.maxQuantityPerAdjustment", defaults.MaxQuantityPerAdjustment)
	}

	var policy StockPolicy
	if err := v.UnmarshalKey("stock_policy", &policy); err != nil {
		return nil, err
	}
	if err := validateStockPolicy(policy); err != nil {
		return nil, err
	}

	holder := &StockPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated StockPolicy
		if err := v.UnmarshalKey("stock_policy", &updated); err != nil {
			log.Printf("[stock-policy] reload failed: %v", err)
			return
		}
		if err := validateStockPolicy(updated); err != nil {
			log.Printf("[stock-policy] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[stock-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *StockPolicyHolder) Get() StockPolicy {
	return h.current.Load().(StockPolicy)
}

// Set replaces the current policy. Intended for tests.
func (h *StockPolicyHolder) Set(policy StockPolicy) {
	h.current.Store(policy)
}

// NewStaticStockPolicyHolder wraps a fixed policy without file watching.
func NewStaticStockPolicyHolder(policy StockPolicy) *StockPolicyHolder {
	holder := &StockPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func validateStockPolicy(policy StockPolicy) error {
	if policy.LowStockThreshold < 0 {
		return errors.New("stock_policy.lowStockThreshold cannot be negative")
	}
	if policy.MaxQuantityPerAdjustment <= 0 {
		return errors.New("stock_policy.maxQuantityPerAdjustment must be positive")
	}
	return nil
}
