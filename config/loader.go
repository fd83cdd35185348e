package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultPath = "./config.yaml"

// Override adjusts a loaded Config before it is validated. Command-line
// flags reach the config through these; a zero argument leaves the field
// alone.
type Override func(*Config)

// WithPort replaces server.port.
func WithPort(port int) Override {
	return func(c *Config) {
		if port != 0 {
			c.Server.Port = port
		}
	}
}

// WithDatabasePath replaces database.path. ":memory:" selects an in-memory
// SQLite database.
func WithDatabasePath(path string) Override {
	return func(c *Config) {
		if strings.TrimSpace(path) != "" {
			c.Database.Path = path
		}
	}
}

// Apply runs the overrides against c in order.
func (c *Config) Apply(overrides ...Override) {
	for _, o := range overrides {
		o(c)
	}
}

// Load builds the Config in layers: env-default tags, then the YAML file,
// then environment variables, then overrides. The result is validated.
//
// The YAML file is CONFIG_PATH, or ./config.yaml when unset. Only an
// explicitly named file has to exist.
func Load(overrides ...Override) (*Config, error) {
	cfg, err := read(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return nil, err
	}
	cfg.Apply(overrides...)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		path = defaultPath
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicit:
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}
	return &cfg, nil
}
