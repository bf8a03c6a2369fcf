package lang

import (
	"encoding/json"
	"math"
)

// plain returns v in the shape used for serialization: temporal values and
// non-finite numbers become their display strings.
func (v Value) plain() any {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return v.String()
		}

		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindDate, KindTime, KindDatetime:
		return v.String()
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.plain()
		}

		return out
	}

	return nil
}

// MarshalJSON implements [json.Marshaler].
func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(v.plain()) }

// MarshalYAML implements the interface marshaler of github.com/goccy/go-yaml.
func (v Value) MarshalYAML() (any, error) { return v.plain(), nil }
