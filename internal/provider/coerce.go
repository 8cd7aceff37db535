package provider

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one raw provider object as decoded from a source payload.
type Record = map[string]any

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

func stringField(rec Record, key string) string {
	if rec == nil {
		return ""
	}
	return stringValue(rec[key])
}

// firstString returns the first non-empty value among keys.
func firstString(rec Record, keys ...string) string {
	for _, k := range keys {
		if s := stringField(rec, k); s != "" {
			return s
		}
	}
	return ""
}

func objectField(rec Record, key string) Record {
	if rec == nil {
		return nil
	}
	m, _ := rec[key].(map[string]any)
	return m
}

// listField accepts either an array of scalars or a comma-joined string.
func listField(rec Record, key string) []string {
	if rec == nil {
		return nil
	}
	switch v := rec[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
