package features

import (
	"encoding/json"
	"strconv"
)

// Vectorize builds an ordered numeric vector for the expected feature names
// from a named feature map. Any name that is absent from the map or holds a
// non-coercible value contributes 0.0 and is reported in the second return
// value. Vectorize never fails: the vector always has len(expected) entries.
func Vectorize(expected []string, in map[string]any) ([]float64, []string) {
	vec := make([]float64, len(expected))
	var missing []string
	for i, name := range expected {
		raw, ok := in[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		v, ok := coerce(raw)
		if !ok {
			missing = append(missing, name)
			continue
		}
		vec[i] = v
	}
	return vec, missing
}

// coerce converts JSON-decoded values to float64. Booleans map to 0/1 so
// binary-state flags survive either encoding.
func coerce(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ToAny widens a float-valued feature map for the adapter boundary.
func ToAny(in map[string]float64) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Value reads a single feature from a named map, returning def when the key
// is absent or non-numeric.
func Value(in map[string]any, name string, def float64) float64 {
	if raw, ok := in[name]; ok {
		if v, ok := coerce(raw); ok {
			return v
		}
	}
	return def
}
