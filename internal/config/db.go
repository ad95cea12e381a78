package config

import (
	"fmt"
	"net/url"
)

type DbType string

const (
	DbTypeMongo  DbType = "mongo"
	DbTypeMemory DbType = "memory"
)

type DbConfig struct {
	Type     DbType `mapstructure:"type"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"db-name"`
	Address  string `mapstructure:"address"`
	// Transactions requires mongo to run as a replica set.
	Transactions bool `mapstructure:"transactions"`
}

func (cfg *DbConfig) Validate() error {
	switch cfg.Type {
	case DbTypeMemory:
		return nil
	case DbTypeMongo, "":
	default:
		return fmt.Errorf("unknown db type %q", cfg.Type)
	}

	if cfg.Username == "" {
		return fmt.Errorf("missing db username")
	}

	if cfg.Password == "" {
		return fmt.Errorf("missing db password")
	}

	if cfg.Address == "" {
		return fmt.Errorf("missing db address")
	}

	if cfg.DbName == "" {
		return fmt.Errorf("missing db name")
	}

	u, err := url.Parse(cfg.Address)
	if err != nil {
		return fmt.Errorf("invalid db address: %w", err)
	}

	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return fmt.Errorf("unsupported db address scheme: %s", u.Scheme)
	}

	return nil
}

func (cfg *DbConfig) IsMemory() bool {
	return cfg.Type == DbTypeMemory
}
