// Package config loads settings for the example programs.
//
// Settings come from, in order of increasing precedence: struct defaults,
// a YAML or JSON document (file or raw content), and environment variables
// prefixed with STOMP_ where a double underscore denotes nesting, for
// example STOMP_BROKER__ADDRESS=10.0.0.1:61613.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cenv "github.com/caarlos0/env/v11"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	kenv "github.com/knadh/koanf/providers/env"
	kfile "github.com/knadh/koanf/providers/file"
	kraw "github.com/knadh/koanf/providers/rawbytes"
	kfn "github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const envPrefix = "STOMP_"

// Load reads the bootstrap variables and loads the configuration from the
// document they point at. With neither STOMP_CONFIG_FILE nor
// STOMP_CONFIG_CONTENT set, only defaults and environment overrides apply.
func Load() (*Config, error) {
	envCfg, err := loadEnvConfig()
	if err != nil {
		return nil, err
	}

	switch {
	case envCfg.ConfigContent != "":
		slog.Debug("loading configuration from content", "format", envCfg.ConfigFormat)
		return LoadContent(envCfg.ConfigContent, envCfg.ConfigFormat)
	case envCfg.ConfigFile != "":
		slog.Debug("loading configuration file", "path", envCfg.ConfigFile)
		return LoadFile(envCfg.ConfigFile)
	default:
		return load(kfn.New("."))
	}
}

func loadEnvConfig() (*EnvConfig, error) {
	envCfg := &EnvConfig{}
	if err := cenv.Parse(envCfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}
	if err := validator.New().Struct(envCfg); err != nil {
		return nil, errors.Wrap(err, "failed to load environment configuration")
	}
	return envCfg, nil
}

// LoadFile loads a YAML or JSON file, chosen by extension, and merges
// environment overrides.
func LoadFile(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if _, err = os.Stat(absPath); err != nil {
		return nil, errors.Wrap(err, "error opening config file")
	}

	ext := strings.ToLower(filepath.Ext(absPath))
	parser, err := parserFor(strings.TrimPrefix(ext, "."))
	if err != nil {
		return nil, err
	}

	k := kfn.New(".")
	if err = k.Load(kfile.Provider(absPath), parser); err != nil {
		return nil, errors.Wrap(err, "error loading config file")
	}
	return load(k)
}

// LoadContent loads raw YAML or JSON and merges environment overrides.
// An empty format is detected from the content: JSON if it starts with '{'.
func LoadContent(content, format string) (*Config, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "yaml"
		if strings.HasPrefix(strings.TrimSpace(content), "{") {
			format = "json"
		}
	}

	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}

	k := kfn.New(".")
	if err = k.Load(kraw.Provider([]byte(content)), parser); err != nil {
		return nil, errors.Wrap(err, "error loading config content")
	}
	return load(k)
}

func parserFor(format string) (kfn.Parser, error) {
	switch format {
	case "yaml", "yml":
		return kyaml.Parser(), nil
	case "json":
		return kjson.Parser(), nil
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

// load applies defaults, then the loaded document and the environment on
// top, and validates the result.
func load(k *kfn.Koanf) (*Config, error) {
	loadEnv(k)

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "error applying defaults")
	}
	if err := k.UnmarshalWithConf("", cfg, kfn.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config")
	}

	if cfg.Demo.SubscriptionID == "" {
		cfg.Demo.SubscriptionID = uuid.NewString()
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnv(k *kfn.Koanf) {
	// STOMP_BROKER__DIAL_ATTEMPTS -> broker.dial_attempts
	_ = k.Load(kenv.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
}

// UnsupportedFormatError is returned for a document that is neither YAML nor JSON.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return "unsupported config format: " + e.Format
}
