package validation

import (
	"encoding/json"
	"reflect"
)

// normalize converts v into the shapes produced by encoding/json decoding
// into an any: float64 numbers, []any arrays and map[string]any objects.
func normalize(v any) any {
	switch val := v.(type) {
	case nil, bool, string, float64:
		return val
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return f
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case []any:
		out := make([]any, len(val))
		for i, el := range val {
			out[i] = normalize(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, el := range val {
			out[k] = normalize(el)
		}
		return out
	default:
		// Anything else (structs, typed slices) goes through a JSON round trip.
		data, err := json.Marshal(val)
		if err != nil {
			return val
		}
		var out any
		if err := json.Unmarshal(data, &out); err != nil {
			return val
		}
		return out
	}
}

func equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
