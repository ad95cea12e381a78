package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

type NearConfig struct {
	RPCAddr       string        `mapstructure:"rpc-addr"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *NearConfig) Validate() error {
	if _, err := url.ParseRequestURI(cfg.RPCAddr); err != nil {
		return fmt.Errorf("invalid rpc-addr: %w", err)
	}

	return validateRetry(cfg.Timeout, cfg.MaxRetryTimes, cfg.RetryInterval)
}

// RelayerConfig points to the signing relayer that executes change calls on
// behalf of the ledger accounts.
type RelayerConfig struct {
	URL           string        `mapstructure:"url"`
	APIKey        string        `mapstructure:"api-key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *RelayerConfig) Validate() error {
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if cfg.APIKey == "" {
		return errors.New("api-key must be set")
	}

	return validateRetry(cfg.Timeout, cfg.MaxRetryTimes, cfg.RetryInterval)
}

func validateRetry(timeout time.Duration, maxRetryTimes uint, retryInterval time.Duration) error {
	if timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if maxRetryTimes == 0 {
		return errors.New("max-retry-times must be positive")
	}

	if retryInterval <= 0 {
		return errors.New("retry-interval must be positive")
	}

	return nil
}
