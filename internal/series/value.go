// Package series holds the engine's value types: the optional Value, the
// TimePoint, the ordered Series and its provenance reference.
package series

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is an optional number. The zero Value is missing; NaN and ±Inf are
// never stored as valid values.
type Value struct {
	Float float64
	Valid bool
}

// Null is the missing value.
var Null = Value{}

// Some wraps f, returning Null for NaN or infinite inputs.
func Some(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null
	}
	return Value{Float: f, Valid: true}
}

// Get returns the number and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.Float, v.Valid
}

// NonZero reports whether v is present and numerically non-zero.
func (v Value) NonZero() bool {
	return v.Valid && v.Float != 0
}

// Or returns the number, or fallback when missing.
func (v Value) Or(fallback float64) float64 {
	if !v.Valid {
		return fallback
	}
	return v.Float
}

func (v Value) String() string {
	if !v.Valid {
		return "null"
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// MarshalJSON emits a number or null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything else
// decodes as missing rather than failing the whole document.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Null
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Some(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*v = Some(f)
			return nil
		}
	}
	*v = Null
	return nil
}
