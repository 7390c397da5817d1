package config

import (
	"log/slog"
	"time"
)

// EnvConfig holds the bootstrap variables that locate the configuration.
type EnvConfig struct {
	ConfigFile string `env:"STOMP_CONFIG_FILE" validate:"omitempty,filepath"`
	// Optional raw YAML or JSON. Takes precedence over ConfigFile.
	ConfigContent string `env:"STOMP_CONFIG_CONTENT"`
	ConfigFormat  string `env:"STOMP_CONFIG_FORMAT" validate:"omitempty,oneof=yaml yml json"`
}

type Config struct {
	Broker BrokerConfig `yaml:"broker"`
	Demo   DemoConfig   `yaml:"demo"`
	Echo   EchoConfig   `yaml:"echo"`
	Log    LogConfig    `yaml:"log"`
}

// BrokerConfig describes how sessions reach the broker.
type BrokerConfig struct {
	Address      string        `yaml:"address" default:"127.0.0.1:61613" validate:"required,hostname_port"`
	Host         string        `yaml:"host"`
	Receipts     bool          `yaml:"receipts"`
	MaxBodySize  int           `yaml:"max_body_size" default:"1048576" validate:"gte=0"`
	DialAttempts int           `yaml:"dial_attempts" default:"5" validate:"gte=1"`
	DialBackoff  time.Duration `yaml:"dial_backoff" default:"500ms" validate:"gte=0"`
}

type DemoConfig struct {
	Queue string `yaml:"queue" default:"q" validate:"required"`
	Count int    `yaml:"count" default:"3000" validate:"gte=0"`
	// Generated when empty.
	SubscriptionID string `yaml:"subscription_id"`
}

type EchoConfig struct {
	Listen string `yaml:"listen" default:"127.0.0.1:12321" validate:"required"`
}

type LogConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// SlogLevel returns the configured level, or info if it does not parse.
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
