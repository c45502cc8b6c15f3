package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written as a string such as "1.5s" in config
// files. Plain numbers are read as seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "250ms" style strings and numbers of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.set(v)
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var v interface{}
	if err := value.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v interface{}) error {
	switch value := v.(type) {
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(value * float64(time.Second))
	case int:
		*d = Duration(time.Duration(value) * time.Second)
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}
