package services

import (
	"math"
	"time"
)

// Helpers that read loosely typed store values. Firestore hands back int64
// and float64, sqlite round-trips through JSON, tests use plain Go values.

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func toBool(v interface{}, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toNumber(v interface{}) float64 {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func toSlice(v interface{}) []interface{} {
	switch arr := v.(type) {
	case []interface{}:
		return arr
	case []map[string]interface{}:
		out := make([]interface{}, len(arr))
		for i := range arr {
			out[i] = arr[i]
		}
		return out
	case []string:
		out := make([]interface{}, len(arr))
		for i := range arr {
			out[i] = arr[i]
		}
		return out
	}
	return nil
}

func toMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return nil
}

// toStrings keeps only the non-empty string elements.
func toStrings(v interface{}) []string {
	out := []string{}
	for _, item := range toSlice(v) {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case map[string]interface{}:
		// Timestamps exported from the web client look like {seconds, nanoseconds}.
		if secs, ok := toFloat(t["seconds"]); ok {
			return time.Unix(int64(secs), int64(toNumber(t["nanoseconds"]))).UTC()
		}
	}
	return time.Time{}
}

func stringsToSlice(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
