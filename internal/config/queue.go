package config

import (
	"errors"
	"time"
)

type QueueConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	QueueUser      string        `mapstructure:"queue-user"`
	QueuePassword  string        `mapstructure:"queue-password"`
	Url            string        `mapstructure:"url"`
	Exchange       string        `mapstructure:"exchange"`
	PublishTimeout time.Duration `mapstructure:"publish-timeout"`
}

func (cfg *QueueConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.Url == "" {
		return errors.New("queue url must be set")
	}

	if cfg.Exchange == "" {
		return errors.New("queue exchange must be set")
	}

	if cfg.PublishTimeout <= 0 {
		return errors.New("publish-timeout must be positive")
	}

	return nil
}
