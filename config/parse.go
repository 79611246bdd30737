package config

import (
	"fmt"

	"github.com/spf13/cast"
)

// Parse converts command-line words into a value of the type key's default has.
// Only slice-typed keys accept more than one word.
func Parse(key string, words []string) (any, error) {
	field, ok := Default[key]
	if !ok {
		return nil, fmt.Errorf("unknown key %s", key)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: missing value", key)
	}

	if _, isSlice := field.Value.([]string); isSlice {
		return words, nil
	}
	if len(words) > 1 {
		return nil, fmt.Errorf("%s takes a single %s value", key, field.typeName())
	}

	var (
		v   any
		err error
	)
	switch field.Value.(type) {
	case string:
		v = words[0]
	case int:
		v, err = cast.ToIntE(words[0])
	case bool:
		v, err = cast.ToBoolE(words[0])
	default:
		err = fmt.Errorf("unsupported type %s", field.typeName())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: invalid %s value %q: %w", key, field.typeName(), words[0], err)
	}
	return v, nil
}
