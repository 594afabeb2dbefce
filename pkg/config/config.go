package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration
	DatabaseConnectRetryCount int
	DatabaseConnectRetryDelay time.Duration
	DatabaseDebug             bool
	DatabaseFilePath          string
	Hostname                  string
	JWTSecret                 string
	MediaDir                  string
	ServerHost                string
	ServerPort                int
}

const (
	environmentENV = "ENVIRONMENT"
	configFileENV  = "CONFIG_FILE"
	envPrefix      = "SHELFMARK_"
)

func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		Hostname:                  hostname,
		ServerPort:                8333,
	}

	switch os.Getenv(environmentENV) {
	case "development", "":
		loadDevelopmentConfig(cfg)
	case "test":
		loadTestConfig(cfg)
	case "production":
		loadProductionConfig(cfg)
	}

	if err := applyOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyOverrides layers an optional YAML config file and SHELFMARK_* env vars
// on top of the environment defaults. Env vars win over the file.
func applyOverrides(cfg *Config) error {
	k := koanf.New(".")

	if path := os.Getenv(configFileENV); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return errors.WithStack(err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return errors.WithStack(err)
	}

	if k.Exists("database.path") {
		cfg.DatabaseFilePath = k.String("database.path")
	}
	if k.Exists("database.debug") {
		cfg.DatabaseDebug = k.Bool("database.debug")
	}
	if k.Exists("jwt.secret") {
		cfg.JWTSecret = k.String("jwt.secret")
	}
	if k.Exists("media.dir") {
		cfg.MediaDir = k.String("media.dir")
	}
	if k.Exists("server.host") {
		cfg.ServerHost = k.String("server.host")
	}
	if k.Exists("server.port") {
		cfg.ServerPort = k.Int("server.port")
	}

	return nil
}
