// Package robot provides access to the remote robot controller service.
package robot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParameterName identifies a tunable control-loop parameter on the controller.
type ParameterName string

// Parameter names understood by the balance controller.
const (
	VerticalKp     ParameterName = "vertical_kp"
	VerticalKd     ParameterName = "vertical_kd"
	VelocityKp     ParameterName = "velocity_kp"
	VelocityKi     ParameterName = "velocity_ki"
	TurnKp         ParameterName = "turn_kp"
	TurnKd         ParameterName = "turn_kd"
	TurnSpeed      ParameterName = "turn_speed"
	TurnDirection  ParameterName = "turn_direction"
	TargetVelocity ParameterName = "target_velocity"
	TargetAngle    ParameterName = "target_angle"
	Bias           ParameterName = "bias"
)

// AllParameters returns all parameter names in display order.
func AllParameters() []ParameterName {
	return []ParameterName{
		VerticalKp,
		VerticalKd,
		VelocityKp,
		VelocityKi,
		TurnKp,
		TurnKd,
		TurnSpeed,
		TurnDirection,
		TargetVelocity,
		TargetAngle,
		Bias,
	}
}

// Valid reports whether n is one of the fixed parameter names.
func (n ParameterName) Valid() bool {
	for _, name := range AllParameters() {
		if name == n {
			return true
		}
	}
	return false
}

// ParseParameterName converts user input into a ParameterName.
func ParseParameterName(s string) (ParameterName, error) {
	name := ParameterName(strings.ToLower(strings.TrimSpace(s)))
	if !name.Valid() {
		return "", fmt.Errorf("unknown parameter %q", s)
	}
	return name, nil
}

// ParseValue parses operator input as a parameter value. Leading whitespace
// is skipped and the longest decimal prefix is read, so "0.25rad" is 0.25.
// Input without a numeric prefix yields NaN; the client transmits NaN as
// JSON null.
func ParseValue(input string) float64 {
	prefix := numericPrefix(strings.TrimLeft(input, " \t\n\r\v\f"))
	if prefix == "" {
		return math.NaN()
	}
	// A range error still carries ±Inf or zero, which is the value wanted.
	v, _ := strconv.ParseFloat(prefix, 64)
	return v
}

// numericPrefix returns the longest prefix of s that is a signed decimal
// literal with optional fraction and exponent, or "Infinity".
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		return s[:i+len("Infinity")]
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	return s[:end]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// FormatValue renders a parameter value the way the operator typed it.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParameterSet maps every parameter name to its value.
type ParameterSet map[ParameterName]float64

// NewParameterSet returns a set holding all parameters at zero.
func NewParameterSet() ParameterSet {
	set := make(ParameterSet, len(AllParameters()))
	for _, name := range AllParameters() {
		set[name] = 0
	}
	return set
}

// Clone returns an independent copy of the set.
func (p ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(p))
	for name, v := range p {
		out[name] = v
	}
	return out
}

// Names returns the names present in the set, in AllParameters order.
func (p ParameterSet) Names() []ParameterName {
	names := make([]ParameterName, 0, len(p))
	for _, name := range AllParameters() {
		if _, ok := p[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Normalize returns a set with exactly the fixed parameter names. Unknown
// names are dropped and missing ones are set to zero; the missing names are
// returned so callers can report them.
func (p ParameterSet) Normalize() (ParameterSet, []ParameterName) {
	out := NewParameterSet()
	var missing []ParameterName
	for _, name := range AllParameters() {
		v, ok := p[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out[name] = v
	}
	return out, missing
}
