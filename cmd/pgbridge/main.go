package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	flag "github.com/spf13/pflag"

	"github.com/joacominatel/pgbridge/internal/app"
	"github.com/joacominatel/pgbridge/internal/config"
	"github.com/joacominatel/pgbridge/internal/database"
	"github.com/joacominatel/pgbridge/internal/database/postgres"
	"github.com/joacominatel/pgbridge/internal/mcp/server"
	"github.com/joacominatel/pgbridge/internal/registry"
)

// Set by LDFLAGS
var version = "dev"

const configPathEnvVar = "PGBRIDGE_CONFIG"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	configFlag := flag.String("config", "", "path to multi-database YAML config (or set PGBRIDGE_CONFIG); falls back to POSTGRES_* environment variables")
	listenAddrFlag := flag.String("listen-addr", "", "serve streamable HTTP on this address instead of stdio")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version)
		return nil
	}

	// Optional .env; absence is not an error.
	_ = godotenv.Load()

	configPath := *configFlag
	if configPath == "" {
		configPath = os.Getenv(configPathEnvVar)
	}

	// Logs go to stderr: stdout carries the protocol stream on the stdio
	// transport.
	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.Info("config loaded", "databases", cfg.Names(), "default", cfg.Default)

	reg := registry.New(log, cfg, func(ctx context.Context, conn config.Connection) (database.Driver, error) {
		drv, err := postgres.Open(ctx, conn)
		if err != nil {
			return nil, err
		}
		return drv, nil
	})
	defer reg.Close()

	svc := app.NewService(log, reg)

	srv, err := server.New(server.Config{
		Logger:     log,
		Service:    svc,
		Version:    version,
		ListenAddr: *listenAddrFlag,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
