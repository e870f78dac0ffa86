package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the service name used for password lookups in the
	// OS keyring, keyed by database identifier.
	keyringService = "pgbridge"

	// implicitName is the identifier given to the single database
	// described by POSTGRES_* environment variables.
	implicitName = "primary"
)

// Load produces the normalized configuration. A non-empty path selects the
// multi-database YAML file shape; otherwise the single-database POSTGRES_*
// environment shape is used. Both normalize into the same Config, once, at
// startup; configuration is never re-read at runtime.
func Load(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = loadFile(path)
	} else {
		cfg, err = fromEnv()
	}
	if err != nil {
		return nil, err
	}

	if err := resolvePasswords(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}

	for i := range cfg.Databases {
		applyProfileDefaults(&cfg.Databases[i])
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	conn := Connection{
		Name:     implicitName,
		Host:     envOr("POSTGRES_HOST", "localhost"),
		Database: envOr("POSTGRES_DATABASE", "postgres"),
		Username: envOr("POSTGRES_USER", "postgres"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}

	portStr := envOr("POSTGRES_PORT", "5432")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_PORT %q: %w", portStr, err)
	}
	conn.Port = port

	return &Config{
		Databases: []Connection{conn},
		Default:   implicitName,
	}, nil
}

// resolvePasswords fills in passwords for profiles that keep them in the OS
// keyring rather than in the config file.
func resolvePasswords(cfg *Config) error {
	for i := range cfg.Databases {
		c := &cfg.Databases[i]
		if !c.PasswordKeyring || c.Password != "" {
			continue
		}
		pw, err := keyring.Get(keyringService, c.Name)
		if err != nil {
			return fmt.Errorf("keyring password for %q: %w", c.Name, err)
		}
		c.Password = pw
	}
	return nil
}

func applyProfileDefaults(c *Connection) {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
