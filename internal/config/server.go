package config

import (
	"errors"
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
}

func (cfg *ServerConfig) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", cfg.Port)
	}

	if cfg.RequestTimeout <= 0 {
		return errors.New("request-timeout must be positive")
	}

	return nil
}

func (cfg *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

type ExecutorConfig struct {
	QueueSize int `mapstructure:"queue-size"`
}

func (cfg *ExecutorConfig) Validate() error {
	if cfg.QueueSize <= 0 {
		return errors.New("queue-size must be positive")
	}

	return nil
}
