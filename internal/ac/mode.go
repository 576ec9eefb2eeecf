package ac

import (
	"fmt"
	"strings"
)

// Mode is the operating mode of the appliance, as stored in workMode.
type Mode int

const (
	ModeAuto    Mode = 0
	ModeCool    Mode = 1
	ModeDry     Mode = 2
	ModeFanOnly Mode = 3
	ModeHeat    Mode = 4
)

var modeNames = map[Mode]string{
	ModeAuto:    "auto",
	ModeCool:    "cool",
	ModeDry:     "dry",
	ModeFanOnly: "fan_only",
	ModeHeat:    "heat",
}

// Modes lists every mode in wire order.
func Modes() []Mode {
	return []Mode{ModeAuto, ModeCool, ModeDry, ModeFanOnly, ModeHeat}
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode accepts a mode name; "fan" and "fan-only" are aliases of fan_only.
func ParseMode(s string) (Mode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if name == "fan" {
		name = "fan_only"
	}
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q (want one of %s)", s, joinNames(Modes()))
}

func joinNames[T fmt.Stringer](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}
