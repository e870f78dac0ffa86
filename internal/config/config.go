package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// Connection is one named database connection profile. Profiles are loaded
// once at startup and never mutated.
type Connection struct {
	Name            string            `mapstructure:"name" yaml:"name"`
	Host            string            `mapstructure:"host" yaml:"host"`
	Port            int               `mapstructure:"port" yaml:"port"`
	Database        string            `mapstructure:"database" yaml:"database"`
	Username        string            `mapstructure:"username" yaml:"username"`
	Password        string            `mapstructure:"password" yaml:"password,omitempty"`
	PasswordKeyring bool              `mapstructure:"password_keyring" yaml:"password_keyring,omitempty"`
	SSLMode         string            `mapstructure:"sslmode" yaml:"sslmode"`
	Options         map[string]string `mapstructure:"options" yaml:"options,omitempty"`
}

// Config is the normalized set of database profiles plus the designated
// default identifier. Both configuration shapes (single-database env vars
// and a multi-database YAML file) load into this one structure.
type Config struct {
	Databases []Connection `mapstructure:"databases" yaml:"databases"`
	Default   string       `mapstructure:"default" yaml:"default"`
}

// DSN builds a PostgreSQL connection string from the connection profile.
func (c Connection) DSN() string {
	dsn := "postgresql://"
	if c.Username != "" {
		dsn += url.QueryEscape(c.Username)
		if c.Password != "" {
			dsn += ":" + url.QueryEscape(c.Password)
		}
		dsn += "@"
	}
	dsn += c.Host
	if c.Port > 0 {
		dsn += ":" + strconv.Itoa(c.Port)
	}
	dsn += "/" + c.Database

	params := url.Values{}
	if c.SSLMode != "" {
		params.Set("sslmode", c.SSLMode)
	}
	for k, v := range c.Options {
		params.Set(k, v)
	}
	if len(params) > 0 {
		dsn += "?" + params.Encode()
	}
	return dsn
}

// DisplayString returns a human-readable summary of the connection,
// without credentials.
func (c Connection) DisplayString() string {
	s := c.Host
	if c.Port > 0 {
		s += ":" + strconv.Itoa(c.Port)
	}
	s += "/" + c.Database
	if c.Username != "" {
		s = c.Username + "@" + s
	}
	return s
}

// ByName returns the profile for the given identifier.
func (cfg *Config) ByName(name string) (Connection, bool) {
	for _, c := range cfg.Databases {
		if c.Name == name {
			return c, true
		}
	}
	return Connection{}, false
}

// Names returns all configured identifiers in declaration order.
func (cfg *Config) Names() []string {
	names := make([]string, len(cfg.Databases))
	for i, c := range cfg.Databases {
		names[i] = c.Name
	}
	return names
}

// Validate checks the registry invariants: identifiers are non-empty and
// unique, and the default identifier, if set, exists.
func (cfg *Config) Validate() error {
	if len(cfg.Databases) == 0 {
		return fmt.Errorf("no databases configured")
	}

	seen := make(map[string]struct{}, len(cfg.Databases))
	for _, c := range cfg.Databases {
		if c.Name == "" {
			return fmt.Errorf("database profile without a name (host %q)", c.Host)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate database identifier %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	if cfg.Default != "" {
		if _, ok := seen[cfg.Default]; !ok {
			known := cfg.Names()
			sort.Strings(known)
			return fmt.Errorf("default database %q is not configured (known: %v)", cfg.Default, known)
		}
	}
	return nil
}
