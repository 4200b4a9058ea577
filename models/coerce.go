package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Years of schema drift left numeric and date fields stored under differing
// names and types across records. These coercions mirror the aggregation
// pipeline's $convert semantics: on error or null, default instead of failing,
// so a single malformed record never poisons a whole read.

// FirstSet returns the first value present and non-nil under the given keys.
func FirstSet(doc bson.M, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// CoerceFloat converts a loosely typed numeric value to a float64, defaulting
// to zero when the value is absent, non-numeric, or an unparseable string.
func CoerceFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// CoerceInt converts a loosely typed value to an int, with a default for
// absent or unusable values.
func CoerceInt(v interface{}, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return def
		}
		return i
	default:
		return def
	}
}

// CoerceString returns the value as a string when it is one, else "".
func CoerceString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case primitive.ObjectID:
		return s.Hex()
	default:
		return ""
	}
}

// CoerceBool returns the value as a bool when it is one, else false.
func CoerceBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CoerceTime converts a timestamp stored as a native date or an ISO-ish
// string to a time.Time. The second return reports whether it parsed.
func CoerceTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
