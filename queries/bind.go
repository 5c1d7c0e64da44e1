package queries

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Bound is a statement ready to execute: positional SQL plus ordered args.
type Bound struct {
	SQL   string
	Args  []any
	Names []string
	Kind  Kind
}

// Bind resolves the statement's placeholders from params. Placeholders
// missing from params bind NULL; keys without a placeholder are ignored.
func (s Statement) Bind(params map[string]any) Bound {
	args := make([]any, len(s.Names))
	for i, name := range s.Names {
		args[i] = BindValue(params[name])
	}
	return Bound{SQL: s.SQL, Args: args, Names: s.Names, Kind: s.Kind}
}

// BindValue maps a decoded JSON value onto the driver type it binds as:
// nil and "" bind NULL, booleans stay booleans, integral numbers become
// int64 and everything else is sent as text.
func BindValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return t
	case bool:
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		return t.String()
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
