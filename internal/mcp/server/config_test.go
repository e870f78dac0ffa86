package server

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("requires logger", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Service: &fakeDispatcher{}}
		require.Error(t, cfg.Validate())
	})

	t.Run("requires service", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Logger: testLogger()}
		require.Error(t, cfg.Validate())
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Logger: testLogger(), Service: &fakeDispatcher{}}
		require.NoError(t, cfg.Validate())
		require.Equal(t, "dev", cfg.Version)
		require.Equal(t, defaultReadHeaderTimeout, cfg.ReadHeaderTimeout)
		require.Equal(t, defaultShutdownTimeout, cfg.ShutdownTimeout)
	})
}
