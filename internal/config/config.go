package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "SHITZU"

type Config struct {
	Db         DbConfig         `mapstructure:"db"`
	Rewarder   RewarderConfig   `mapstructure:"rewarder"`
	Memeseason MemeseasonConfig `mapstructure:"memeseason"`
	Near       NearConfig       `mapstructure:"near"`
	Relayer    RelayerConfig    `mapstructure:"relayer"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Server     ServerConfig     `mapstructure:"server"`
	Executor   ExecutorConfig   `mapstructure:"executor"`
	Poller     PollerConfig     `mapstructure:"poller"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if err := cfg.Rewarder.Validate(); err != nil {
		return fmt.Errorf("rewarder: %w", err)
	}
	if err := cfg.Memeseason.Validate(); err != nil {
		return fmt.Errorf("memeseason: %w", err)
	}
	if err := cfg.Near.Validate(); err != nil {
		return fmt.Errorf("near: %w", err)
	}
	if err := cfg.Relayer.Validate(); err != nil {
		return fmt.Errorf("relayer: %w", err)
	}
	if err := cfg.Queue.Validate(); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := cfg.Executor.Validate(); err != nil {
		return fmt.Errorf("executor: %w", err)
	}
	if err := cfg.Poller.Validate(); err != nil {
		return fmt.Errorf("poller: %w", err)
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}

// New returns a fully parsed Config object from a given file path.
// Every key can be overridden by an environment variable, e.g.
// SHITZU_REWARDER__OPERATOR overrides rewarder.operator.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
