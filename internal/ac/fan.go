package ac

import (
	"fmt"
	"strings"
)

// FanSpeed is the fan setting as shown in the vendor app. Several speeds
// share a wind speed value, so each one carries a full FanSetting.
type FanSpeed int

const (
	FanAuto FanSpeed = iota
	FanQuiet
	FanLow
	FanMedium
	FanHigh
	FanTurbo
)

// FanSetting is the shadow representation of a fan speed.
type FanSetting struct {
	WindSpeed     int
	SilenceSwitch int
	Turbo         int
}

var fanTable = []struct {
	speed   FanSpeed
	name    string
	setting FanSetting
}{
	{FanAuto, "auto", FanSetting{0, 0, 0}},
	{FanQuiet, "quiet", FanSetting{2, 1, 0}},
	{FanLow, "low", FanSetting{2, 0, 0}},
	{FanMedium, "medium", FanSetting{4, 0, 0}},
	{FanHigh, "high", FanSetting{6, 0, 0}},
	{FanTurbo, "turbo", FanSetting{6, 0, 1}},
}

// FanSpeeds lists every fan speed.
func FanSpeeds() []FanSpeed {
	out := make([]FanSpeed, len(fanTable))
	for i, e := range fanTable {
		out[i] = e.speed
	}
	return out
}

func (f FanSpeed) String() string {
	if f >= 0 && int(f) < len(fanTable) {
		return fanTable[f].name
	}
	return fmt.Sprintf("FanSpeed(%d)", int(f))
}

// Encode returns the shadow fields for f. Unknown values encode as auto.
func (f FanSpeed) Encode() FanSetting {
	if f >= 0 && int(f) < len(fanTable) {
		return fanTable[f].setting
	}
	return FanSetting{}
}

// DecodeFanSpeed maps shadow fields back to a fan speed. Silence wins over
// turbo, which wins over the wind speed value; anything else reads as auto.
func DecodeFanSpeed(s FanSetting) FanSpeed {
	switch {
	case s.SilenceSwitch != 0:
		return FanQuiet
	case s.Turbo != 0:
		return FanTurbo
	}
	switch s.WindSpeed {
	case 2:
		return FanLow
	case 4:
		return FanMedium
	case 6:
		return FanHigh
	}
	return FanAuto
}

// ParseFanSpeed accepts a fan speed name.
func ParseFanSpeed(s string) (FanSpeed, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, e := range fanTable {
		if e.name == name {
			return e.speed, nil
		}
	}
	return 0, fmt.Errorf("unknown fan speed %q (want one of %s)", s, joinNames(FanSpeeds()))
}
