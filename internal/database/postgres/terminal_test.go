package postgres

import (
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestTerminal(t *testing.T) {
	t.Parallel()

	t.Run("connection exception class", func(t *testing.T) {
		t.Parallel()
		require.True(t, terminal(&pgconn.PgError{Code: "08006", Message: "connection failure"}))
		require.True(t, terminal(&pgconn.PgError{Code: "57P01", Message: "terminating connection due to administrator command"}))
	})

	t.Run("statement errors are not terminal", func(t *testing.T) {
		t.Parallel()
		require.False(t, terminal(&pgconn.PgError{Code: "42601", Message: "syntax error"}))
		require.False(t, terminal(&pgconn.PgError{Code: "23505", Message: "duplicate key value"}))
		require.False(t, terminal(&pgconn.PgError{Code: "42501", Message: "permission denied"}))
	})

	t.Run("network errors are terminal", func(t *testing.T) {
		t.Parallel()
		require.True(t, terminal(&net.OpError{Op: "read", Err: errors.New("connection reset by peer")}))
		require.True(t, terminal(fmt.Errorf("read: %w", io.EOF)))
		require.True(t, terminal(io.ErrUnexpectedEOF))
	})

	t.Run("wrapped pg errors are classified", func(t *testing.T) {
		t.Parallel()
		wrapped := fmt.Errorf("execute: %w", &pgconn.PgError{Code: "08003"})
		require.True(t, terminal(wrapped))
	})

	t.Run("plain errors are not terminal", func(t *testing.T) {
		t.Parallel()
		require.False(t, terminal(errors.New("boom")))
	})
}
