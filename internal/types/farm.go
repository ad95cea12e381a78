package types

import (
	"fmt"
)

const (
	MinFarmDecimals = 18
	MaxFarmDecimals = 38
)

// FarmConfig describes how the balance in one external farm converts into
// score.
type FarmConfig struct {
	FarmID   AccountID `json:"farm_id" mapstructure:"farm-id"`
	SeedID   string    `json:"seed_id" mapstructure:"seed-id"`
	Factor   Amount    `json:"factor" mapstructure:"factor"`
	Base     Amount    `json:"base" mapstructure:"base"`
	Cap      Amount    `json:"cap" mapstructure:"cap"`
	Decimals uint8     `json:"decimals" mapstructure:"decimals"`
}

func (c *FarmConfig) Validate() error {
	if err := c.FarmID.Validate(); err != nil {
		return fmt.Errorf("invalid farm id: %w", err)
	}
	if c.SeedID == "" {
		return fmt.Errorf("seed id of farm %s must be set", c.FarmID)
	}
	if c.Decimals < MinFarmDecimals || c.Decimals > MaxFarmDecimals {
		return fmt.Errorf("decimals of seed %s must be within [%d, %d], got %d",
			c.SeedID, MinFarmDecimals, MaxFarmDecimals, c.Decimals)
	}
	return nil
}

type FarmName string

const (
	FarmXref   FarmName = "xref"
	FarmShitzu FarmName = "shitzu"
	FarmLp     FarmName = "lp"
)

// FarmConfigs is the full set of farms queried on every claim.
type FarmConfigs struct {
	Xref   FarmConfig `json:"xref" mapstructure:"xref"`
	Shitzu FarmConfig `json:"shitzu" mapstructure:"shitzu"`
	Lp     FarmConfig `json:"lp" mapstructure:"lp"`
}

func (c *FarmConfigs) Validate() error {
	for _, farm := range c.List() {
		if err := farm.Config.Validate(); err != nil {
			return fmt.Errorf("%s farm: %w", farm.Name, err)
		}
	}
	return nil
}

type NamedFarmConfig struct {
	Name   FarmName
	Config FarmConfig
}

// List returns the farms in their fixed branch order.
func (c *FarmConfigs) List() []NamedFarmConfig {
	return []NamedFarmConfig{
		{Name: FarmXref, Config: c.Xref},
		{Name: FarmShitzu, Config: c.Shitzu},
		{Name: FarmLp, Config: c.Lp},
	}
}

// FarmerSeed is the balance a farmer holds in one seed of a farm.
type FarmerSeed struct {
	FreeAmount Amount `json:"free_amount"`
}
