package postgres

import (
	"math"
	"math/big"
	"net/netip"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

func TestJSONValue(t *testing.T) {
	t.Parallel()

	t.Run("null", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, jsonValue(nil))
	})

	t.Run("scalars pass through", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, true, jsonValue(true))
		require.Equal(t, "hello", jsonValue("hello"))
		require.Equal(t, int16(7), jsonValue(int16(7)))
		require.Equal(t, int32(42), jsonValue(int32(42)))
		require.Equal(t, int64(1<<40), jsonValue(int64(1<<40)))
		require.Equal(t, 2.5, jsonValue(2.5))
	})

	t.Run("non-finite floats become strings", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "NaN", jsonValue(math.NaN()))
		require.Equal(t, "+Inf", jsonValue(math.Inf(1)))
		require.Equal(t, "-Inf", jsonValue(math.Inf(-1)))
	})

	t.Run("binary renders as hex", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, `\x6465616462656566`, jsonValue([]byte("deadbeef")))
		require.Equal(t, `\x`, jsonValue([]byte{}))
	})

	t.Run("temporal renders as RFC3339", func(t *testing.T) {
		t.Parallel()
		ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
		require.Equal(t, "2024-03-15T10:30:00Z", jsonValue(ts))
	})

	t.Run("temporal conversion is deterministic", func(t *testing.T) {
		t.Parallel()
		ts := time.Date(2024, 3, 15, 10, 30, 0, 123456000, time.UTC)
		require.Equal(t, jsonValue(ts), jsonValue(ts))
	})

	t.Run("numeric renders as exact decimal string", func(t *testing.T) {
		t.Parallel()
		n := pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}
		require.Equal(t, "123.45", jsonValue(n))
	})

	t.Run("invalid numeric is null", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, jsonValue(pgtype.Numeric{}))
	})

	t.Run("NaN numeric", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "NaN", jsonValue(pgtype.Numeric{NaN: true, Valid: true}))
	})

	t.Run("uuid bytes render as canonical uuid", func(t *testing.T) {
		t.Parallel()
		raw := [16]byte{0x6b, 0xa7, 0xb8, 0x10, 0x9d, 0xad, 0x11, 0xd1, 0x80, 0xb4, 0x00, 0xc0, 0x4f, 0xd4, 0x30, 0xc8}
		require.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", jsonValue(raw))
	})

	t.Run("network types render as strings", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "10.0.0.1", jsonValue(netip.MustParseAddr("10.0.0.1")))
		require.Equal(t, "10.0.0.0/8", jsonValue(netip.MustParsePrefix("10.0.0.0/8")))
	})

	t.Run("arrays convert element-wise", func(t *testing.T) {
		t.Parallel()
		ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		got := jsonValue([]any{int32(1), ts, nil})
		require.Equal(t, []any{int32(1), "2024-01-01T00:00:00Z", nil}, got)
	})

	t.Run("maps convert value-wise", func(t *testing.T) {
		t.Parallel()
		got := jsonValue(map[string]any{"b": []byte{0xff}})
		require.Equal(t, map[string]any{"b": `\xff`}, got)
	})

	t.Run("unknown types fall back to strings", func(t *testing.T) {
		t.Parallel()
		type odd struct{ X int }
		require.IsType(t, "", jsonValue(odd{X: 1}))
	})
}
