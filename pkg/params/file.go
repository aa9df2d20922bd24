package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chady-robot/chady/pkg/robot"
)

// ParseFile decodes a YAML mapping of parameter names to values. Names
// outside the fixed set are rejected; names may be omitted.
func ParseFile(data []byte) (robot.ParameterSet, error) {
	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse parameters: %w", err)
	}

	values := make(robot.ParameterSet, len(raw))
	for key, v := range raw {
		name, err := robot.ParseParameterName(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
		}
		values[name] = v
	}
	return values, nil
}

// LoadFile reads a parameter file written by SaveFile or by hand.
func LoadFile(path string) (robot.ParameterSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// SaveFile writes values as a YAML mapping.
func SaveFile(path string, values robot.ParameterSet) error {
	out := make(map[string]float64, len(values))
	for name, v := range values {
		out[string(name)] = v
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
