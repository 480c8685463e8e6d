package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"go-trip-pipeline/internal/dataset"
)

// ParseDuration safely parses a duration string like "5m", defaulting to
// five minutes on empty or malformed input.
func ParseDuration(d string) time.Duration {
	if d == "" {
		return 5 * time.Minute
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return 5 * time.Minute
	}
	return duration
}

// Coerce converts a raw ingested value (string from CSV, or whatever
// encoding/json produced) into the scalar the declared column type expects.
func Coerce(v any, t dataset.Type) (any, error) {
	switch t {
	case dataset.Int:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case float64:
			return int64(n), nil
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("not an int: %q", n)
			}
			return i, nil
		}
	case dataset.Float:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case int:
			return float64(n), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, fmt.Errorf("not a float: %q", n)
			}
			return f, nil
		}
	case dataset.String:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case dataset.Time:
		switch n := v.(type) {
		case time.Time:
			return n, nil
		case string:
			t, err := dateparse.ParseAny(n)
			if err != nil {
				return nil, fmt.Errorf("not a timestamp: %q", n)
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %T to %s", v, t)
}

// Numeric safely converts supported scalar types to float64.
func Numeric(v any) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float64:
		return val
	case float32:
		return float64(val)
	default:
		return 0
	}
}
