package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// PRACTICE_SERVER_ADDRESS for server_address.
const EnvPrefix = "PRACTICE_"

type Config struct {
	ServerAddress   string        `yaml:"server_address" koanf:"server_address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins" koanf:"allowed_origins"`

	DatabasePath string `yaml:"database_path" koanf:"database_path"`
	// ContentPath is an optional YAML file with extra decks.
	ContentPath string `yaml:"content_path" koanf:"content_path"`

	RecorderWorkers int    `yaml:"recorder_workers" koanf:"recorder_workers"`
	LogLevel        string `yaml:"log_level" koanf:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		ServerAddress:   ":8080",
		ShutdownTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"*"},
		DatabasePath:    "lexilearn.db",
		RecorderWorkers: 2,
		LogLevel:        "info",
	}
}

// Load reads configuration from the given YAML file, if it exists, then
// overlays PRACTICE_* environment variables. A .env file in the working
// directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if key == "allowed_origins" {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.RecorderWorkers < 1 {
		return fmt.Errorf("recorder_workers must be at least 1")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	return level, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
