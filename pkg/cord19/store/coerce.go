package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/cord19/pkg/cord19/internalerr"
)

// Coerce converts a positional row to the declared column types.
// INTEGER columns are parsed as integers with empty values read as 0,
// BOOLEAN columns are true only for the literal "TRUE", everything else
// passes through.
func Coerce(t Table, row []any) ([]any, error) {
	if len(row) != len(t.Columns) {
		return nil, fmt.Errorf("%w: %s has %d columns, row has %d values",
			internalerr.ErrCoercion, t.Name, len(t.Columns), len(row))
	}

	values := make([]any, len(row))
	for i, col := range t.Columns {
		switch {
		case strings.HasPrefix(col.Type, "INTEGER"):
			v, err := toInteger(row[i])
			if err != nil {
				return nil, fmt.Errorf("%w: column %s: %v", internalerr.ErrCoercion, col.Name, err)
			}
			values[i] = v
		case col.Type == "BOOLEAN":
			s, ok := row[i].(string)
			values[i] = ok && s == "TRUE"
		default:
			values[i] = row[i]
		}
	}
	return values, nil
}

func toInteger(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint32:
		return int64(x), nil
	case string:
		if x == "" {
			return 0, nil
		}
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
