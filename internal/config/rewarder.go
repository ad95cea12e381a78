package config

import (
	"fmt"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"github.com/shitzu-labs/shitzu-rewarder/internal/utils"
)

type RewarderConfig struct {
	AccountID   types.AccountID   `mapstructure:"account-id"`
	Owner       types.AccountID   `mapstructure:"owner"`
	Operator    types.AccountID   `mapstructure:"operator"`
	RewardToken types.AccountID   `mapstructure:"reward-token"`
	Nft         types.AccountID   `mapstructure:"nft"`
	Whitelist   []types.AccountID `mapstructure:"whitelist"`
}

func (cfg *RewarderConfig) Validate() error {
	accounts := map[string]types.AccountID{
		"account-id":   cfg.AccountID,
		"owner":        cfg.Owner,
		"operator":     cfg.Operator,
		"reward-token": cfg.RewardToken,
		"nft":          cfg.Nft,
	}
	for key, account := range accounts {
		if err := account.Validate(); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	seen := make([]types.AccountID, 0, len(cfg.Whitelist))
	for _, account := range cfg.Whitelist {
		if err := account.Validate(); err != nil {
			return fmt.Errorf("invalid whitelist entry: %w", err)
		}
		if utils.Contains(seen, account) {
			return fmt.Errorf("duplicate whitelist entry %s", account)
		}
		seen = append(seen, account)
	}

	return nil
}
