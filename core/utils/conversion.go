package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToUint64 converts various types to a uint64 identifier using explicit type switching.
// Host platforms send user IDs as JSON numbers or as numeric strings, both are accepted.
func ToUint64(val any) (uint64, error) {
	switch v := val.(type) {
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case int:
		return signedToUint64(int64(v))
	case int64:
		return signedToUint64(v)
	case int32:
		return signedToUint64(int64(v))
	case float64:
		if v < 0 || v != math.Trunc(v) || v > math.MaxUint64 {
			return 0, fmt.Errorf("invalid identifier: %v", v)
		}
		return uint64(v), nil
	case json.Number:
		return parseUint(v.String())
	case string:
		return parseUint(v)
	case []byte:
		return parseUint(string(v))
	case nil:
		return 0, fmt.Errorf("invalid identifier: missing")
	default:
		return 0, fmt.Errorf("invalid identifier type %T", val)
	}
}

// SplitList splits a comma and/or newline delimited string into trimmed entries.
// Blank entries are dropped; order and duplicates are preserved.
func SplitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func signedToUint64(v int64) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("invalid identifier: %d", v)
	}
	return uint64(v), nil
}

func parseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q: %w", s, err)
	}
	return id, nil
}
