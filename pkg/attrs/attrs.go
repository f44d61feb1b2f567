// Package attrs reads values out of slog-style key/value attribute slices.
package attrs

// ExtractString returns the string value paired with key in a
// [key1, value1, key2, value2, ...] slice. Missing keys and non-string values
// yield "". Values implementing fmt.Stringer are rendered with String.
func ExtractString(list []any, key string) string {
	v, ok := Extract(list, key)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case interface{ String() string }:
		return s.String()
	}
	return ""
}

// Extract returns the raw value paired with key.
func Extract(list []any, key string) (any, bool) {
	for i := 0; i < len(list)-1; i += 2 {
		if k, ok := list[i].(string); ok && k == key {
			return list[i+1], true
		}
	}
	return nil, false
}
