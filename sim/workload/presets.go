package workload

import (
	"fmt"
	"slices"
	"strings"

	"github.com/inference-sim/queuesim/sim"
)

// DefaultPreset is the curve used when none is configured: an early,
// short-lived rush in the first two hours.
const DefaultPreset = "default"

var presets = map[string]Curve{
	"default": {{0, 0}, {0.06, 0}, {0.01, 1}, {0.09, 1}, {0.12, 1}, {0.09, 0}, {0.22, 0}},
	"bell":    {{0, 0}, {0.37, 0}, {0.37, 1}, {0.5, 1}, {0.63, 1}, {0.63, 0}, {1, 0}},
	"flat":    {{0, 0.5}, {0.1, 0.5}, {0.4, 0.5}, {0.5, 0.5}, {0.6, 0.5}, {0.9, 0.5}, {1, 0.5}},
	"double":  {{0, 1}, {0.12, 1}, {0.12, 0}, {0.5, 0}, {0.88, 0}, {0.88, 1}, {1, 1}},
}

// Preset returns a copy of the named preset curve.
func Preset(name string) (Curve, error) {
	c, ok := presets[name]
	if !ok {
		return Curve{}, &sim.ValidationError{Field: "preset", Message: fmt.Sprintf(
			"unknown preset %q (valid: %s)", name, strings.Join(PresetNames(), ", "))}
	}
	return c, nil
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
