package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Seconds is a time value in seconds. In YAML it may be a number or a
// string in `H:MM:SS`, `M:SS` or decimal seconds notation.
type Seconds float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Seconds) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a time value", value.Line)
	}
	seconds, err := ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = Seconds(seconds)
	return nil
}

func (s *Seconds) float() *float64 {
	if s == nil {
		return nil
	}
	v := float64(*s)
	return &v
}

// ParseDuration converts `1:02:03.5`, `2:03` or `12.5` to seconds.
func ParseDuration(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty time value")
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("time value %q has too many fields", value)
	}
	seconds, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("time value %q: %w", value, err)
	}
	if len(parts) > 1 && (seconds >= 60 || len(parts[len(parts)-1]) < 2) {
		return 0, fmt.Errorf("time value %q: seconds field out of range", value)
	}
	multiplier := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("time value %q: invalid field %q", value, parts[i])
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("time value %q: minutes field out of range", value)
		}
		seconds += float64(n) * multiplier
		multiplier *= 60
	}
	if seconds < 0 {
		return 0, fmt.Errorf("time value %q is negative", value)
	}
	return seconds, nil
}

// FormatDuration renders seconds as `M:SS` or `H:MM:SS`, dropping
// fractions.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	h, m, s := total/3600, total%3600/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
