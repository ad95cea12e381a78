package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

const DefaultClaimInterval = 16 * time.Hour

type MemeseasonConfig struct {
	AccountID types.AccountID   `mapstructure:"account-id"`
	Owner     types.AccountID   `mapstructure:"owner"`
	Interval  time.Duration     `mapstructure:"interval"`
	Farms     types.FarmConfigs `mapstructure:"farms"`
}

func (cfg *MemeseasonConfig) Validate() error {
	if err := cfg.AccountID.Validate(); err != nil {
		return fmt.Errorf("invalid account-id: %w", err)
	}

	if err := cfg.Owner.Validate(); err != nil {
		return fmt.Errorf("invalid owner: %w", err)
	}

	if cfg.Interval <= 0 {
		return errors.New("interval must be positive")
	}

	return cfg.Farms.Validate()
}
