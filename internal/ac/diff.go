package ac

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

func (s *Status) lines() []string {
	if s == nil {
		return nil
	}
	return []string{
		fmt.Sprintf("power: %s\n", onOff(s.Power)),
		fmt.Sprintf("mode: %s\n", s.Mode),
		fmt.Sprintf("target_temperature: %d\n", s.TargetTemperature),
		fmt.Sprintf("current_temperature: %d\n", s.CurrentTemperature),
		fmt.Sprintf("fan_speed: %s\n", s.FanSpeed),
	}
}

// String renders the status one property per line.
func (s *Status) String() string {
	return strings.Join(s.lines(), "")
}

// DiffStatus returns a unified diff between two statuses, or "" when they
// show the same settings. Version and timestamp are not compared.
func DiffStatus(prev, next *Status) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        prev.lines(),
		B:        next.lines(),
		FromFile: "previous",
		ToFile:   "current",
		Context:  0,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff status: %w", err)
	}
	return out, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
