package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// Value wraps a decoded JSON value and converts it at the boundary.
// The zero Value represents JSON null.
type Value struct {
	raw any
}

// NewValue wraps an already decoded value.
func NewValue(v any) Value {
	return Value{raw: v}
}

// Raw returns the underlying decoded value.
func (v Value) Raw() any {
	return v.raw
}

// IsNil reports whether the value is JSON null or absent.
func (v Value) IsNil() bool {
	return v.raw == nil
}

func (v Value) AsString() (string, error) {
	if v.raw == nil {
		return "", fmt.Errorf("cannot convert null to string")
	}
	return cast.ToStringE(v.raw)
}

func (v Value) AsFloat() (float64, error) {
	if v.raw == nil {
		return 0, fmt.Errorf("cannot convert null to float64")
	}
	return cast.ToFloat64E(v.raw)
}

func (v Value) AsInt() (int64, error) {
	if v.raw == nil {
		return 0, fmt.Errorf("cannot convert null to int64")
	}
	return cast.ToInt64E(v.raw)
}

func (v Value) AsBool() (bool, error) {
	if v.raw == nil {
		return false, fmt.Errorf("cannot convert null to bool")
	}
	return cast.ToBoolE(v.raw)
}

func (v Value) AsSlice() ([]any, error) {
	return cast.ToSliceE(v.raw)
}

func (v Value) AsMap() (map[string]any, error) {
	return cast.ToStringMapE(v.raw)
}

// Decode converts the value into out, which must be a pointer, by way of its JSON form.
func (v Value) Decode(out any) error {
	data, err := json.Marshal(v.raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// MarshalJSON encodes the wrapped value unchanged.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// String renders the value as compact JSON.
func (v Value) String() string {
	data, err := json.Marshal(v.raw)
	if err != nil {
		return fmt.Sprint(v.raw)
	}
	return string(data)
}
