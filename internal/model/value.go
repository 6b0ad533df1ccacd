package model

import (
	"encoding/json"
	"math"
)

// Value is a float that may be undefined. Indicator outputs use it instead of
// NaN so that "not enough history" is an explicit branch for callers.
type Value struct {
	v  float64
	ok bool
}

// Defined wraps x. NaN and infinities are treated as undefined.
func Defined(x float64) Value {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Value{}
	}
	return Value{v: x, ok: true}
}

// Undefined returns the undefined marker.
func Undefined() Value { return Value{} }

func (v Value) Get() (float64, bool) { return v.v, v.ok }
func (v Value) IsDefined() bool      { return v.ok }

// OrElse returns the wrapped float, or fallback when undefined.
func (v Value) OrElse(fallback float64) float64 {
	if !v.ok {
		return fallback
	}
	return v.v
}

// MarshalJSON encodes an undefined value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Defined(f)
	return nil
}

// LastDefined returns the last defined entry of vals.
func LastDefined(vals []Value) Value {
	for i := len(vals) - 1; i >= 0; i-- {
		if vals[i].ok {
			return vals[i]
		}
	}
	return Value{}
}
