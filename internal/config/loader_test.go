package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pgbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("multi database", func(t *testing.T) {
		path := writeConfigFile(t, `
default: primary
databases:
  - name: primary
    host: db1.internal
    port: 5432
    database: app
    username: svc
    password: pw1
  - name: analytics
    host: db2.internal
    database: dw
    username: ro
    password: pw2
    sslmode: require
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "primary", cfg.Default)
		require.Equal(t, []string{"primary", "analytics"}, cfg.Names())

		analytics, ok := cfg.ByName("analytics")
		require.True(t, ok)
		// Port falls back to the conventional default.
		require.Equal(t, 5432, analytics.Port)
		require.Equal(t, "require", analytics.SSLMode)
	})

	t.Run("unknown default rejected", func(t *testing.T) {
		path := writeConfigFile(t, `
default: nope
databases:
  - name: primary
    host: localhost
    database: app
`)

		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "nope")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("explicit values", func(t *testing.T) {
		t.Setenv("POSTGRES_HOST", "envhost")
		t.Setenv("POSTGRES_PORT", "5444")
		t.Setenv("POSTGRES_DATABASE", "envdb")
		t.Setenv("POSTGRES_USER", "envuser")
		t.Setenv("POSTGRES_PASSWORD", "envpw")

		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, "primary", cfg.Default)
		require.Len(t, cfg.Databases, 1)

		c := cfg.Databases[0]
		require.Equal(t, "primary", c.Name)
		require.Equal(t, "envhost", c.Host)
		require.Equal(t, 5444, c.Port)
		require.Equal(t, "envdb", c.Database)
		require.Equal(t, "envuser", c.Username)
		require.Equal(t, "envpw", c.Password)
	})

	t.Run("conventional defaults", func(t *testing.T) {
		t.Setenv("POSTGRES_HOST", "")
		t.Setenv("POSTGRES_PORT", "")
		t.Setenv("POSTGRES_DATABASE", "")
		t.Setenv("POSTGRES_USER", "")
		t.Setenv("POSTGRES_PASSWORD", "")

		cfg, err := Load("")
		require.NoError(t, err)

		c := cfg.Databases[0]
		require.Equal(t, "localhost", c.Host)
		require.Equal(t, 5432, c.Port)
		require.Equal(t, "postgres", c.Database)
		require.Equal(t, "postgres", c.Username)
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("POSTGRES_PORT", "not-a-port")

		_, err := Load("")
		require.Error(t, err)
		require.Contains(t, err.Error(), "POSTGRES_PORT")
	})
}

func TestKeyringPasswords(t *testing.T) {
	keyring.MockInit()

	t.Run("resolved from keyring", func(t *testing.T) {
		require.NoError(t, keyring.Set(keyringService, "analytics", "vaulted"))

		path := writeConfigFile(t, `
databases:
  - name: analytics
    host: localhost
    database: dw
    username: ro
    password_keyring: true
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "vaulted", cfg.Databases[0].Password)
	})

	t.Run("explicit password wins", func(t *testing.T) {
		path := writeConfigFile(t, `
databases:
  - name: analytics
    host: localhost
    database: dw
    password: inline
    password_keyring: true
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "inline", cfg.Databases[0].Password)
	})

	t.Run("missing keyring entry", func(t *testing.T) {
		path := writeConfigFile(t, `
databases:
  - name: unknown-entry
    host: localhost
    database: dw
    password_keyring: true
`)

		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown-entry")
	})
}
