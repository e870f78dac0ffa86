package postgres

import (
	"encoding/hex"
	"fmt"
	"math"
	"net/netip"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// jsonValue converts a pgx-decoded column value into a JSON-safe
// representation, by type category: null, boolean, textual, integral,
// floating point, arbitrary-precision numeric, temporal, binary, uuid,
// network. Anything without a canonical JSON equivalent is rendered as a
// string, deterministically; round-trip fidelity for re-insertion is not a
// goal, display fidelity is.
func jsonValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case bool, string, int16, int32, int64:
		return v
	case float32:
		return floatValue(float64(v))
	case float64:
		return floatValue(v)
	case []byte:
		return `\x` + hex.EncodeToString(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case time.Duration:
		return v.String()
	case pgtype.Numeric:
		return numericValue(v)
	case [16]byte:
		return uuid.UUID(v).String()
	case netip.Addr:
		return v.String()
	case netip.Prefix:
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = jsonValue(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = jsonValue(elem)
		}
		return out
	default:
		return fmt.Sprint(v)
	}
}

// floatValue guards against NaN and infinities, which are valid PostgreSQL
// float values but not valid JSON numbers.
func floatValue(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}
	return f
}

// numericValue renders an arbitrary-precision numeric as its exact decimal
// string, avoiding float rounding.
func numericValue(n pgtype.Numeric) any {
	if !n.Valid {
		return nil
	}
	if n.NaN {
		return "NaN"
	}
	v, err := n.Value()
	if err != nil {
		return fmt.Sprint(n)
	}
	return v
}
