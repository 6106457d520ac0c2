package services

import "reflect"

// Sanitize returns a copy of v with every absent field removed from maps.
// Absent means a nil interface or a nil pointer. Slices are walked element
// by element, maps key by key, other values are returned unchanged.
// The store rejects explicit absent markers, so every write goes through here.
func Sanitize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return sanitizeMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = Sanitize(item)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = sanitizeMap(item)
		}
		return out
	}
	return v
}

// SanitizeDocument is Sanitize for a top-level document.
func SanitizeDocument(doc map[string]interface{}) map[string]interface{} {
	return sanitizeMap(doc)
}

func sanitizeMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, value := range m {
		if isAbsent(value) {
			continue
		}
		out[k] = Sanitize(value)
	}
	return out
}

func isAbsent(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
