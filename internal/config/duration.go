package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration makes time.Duration usable in YAML with values like "10s".
type Duration time.Duration

// UnmarshalYAML accepts either a Go duration string or a nanosecond count.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var asString string
	if err := node.Decode(&asString); err == nil {
		parsed, err := time.ParseDuration(asString)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", asString, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var asInt int64
	if err := node.Decode(&asInt); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(asInt)
	return nil
}

// MarshalYAML renders the duration in the compact string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
