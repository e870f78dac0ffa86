package server

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
)

type Config struct {
	Logger  *slog.Logger
	Service Dispatcher

	Version string

	// ListenAddr selects the streamable HTTP transport; leave empty to
	// serve the protocol over stdio.
	ListenAddr        string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Service == nil {
		return fmt.Errorf("service is required")
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	return nil
}
