package ac

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/chukul/tclctl/internal"
)

// Shadow property names.
const (
	keyPower              = "powerSwitch"
	keyMode               = "workMode"
	keyTargetTemperature  = "targetTemperature"
	keyCurrentTemperature = "currentTemperature"
	keyWindSpeed          = "windSpeed"
	keySilence            = "silenceSwitch"
	keyTurbo              = "turbo"
)

// Status is a decoded snapshot of the appliance shadow.
type Status struct {
	DeviceID           string    `json:"device_id"`
	Power              bool      `json:"power"`
	Mode               Mode      `json:"-"`
	TargetTemperature  int       `json:"target_temperature"`
	CurrentTemperature int       `json:"current_temperature"`
	FanSpeed           FanSpeed  `json:"-"`
	Version            int64     `json:"version,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitzero"`
}

// MarshalJSON renders enums by name.
func (s Status) MarshalJSON() ([]byte, error) {
	type plain Status
	return json.Marshal(struct {
		plain
		Mode     string `json:"mode"`
		FanSpeed string `json:"fan_speed"`
	}{plain(s), s.Mode.String(), s.FanSpeed.String()})
}

// decodeStatus reads each property from desired, falling back to reported
// when desired does not carry it.
func decodeStatus(deviceID string, doc *internal.ShadowDocument) (*Status, error) {
	v := stateView{desired: doc.State.Desired, reported: doc.State.Reported}

	st := &Status{
		DeviceID:  deviceID,
		Version:   doc.Version,
		UpdatedAt: doc.UpdatedAt(),
	}

	power, err := v.int(keyPower)
	if err != nil {
		return nil, err
	}
	st.Power = power != 0

	mode, err := v.int(keyMode)
	if err != nil {
		return nil, err
	}
	st.Mode = Mode(mode)

	if st.TargetTemperature, err = v.int(keyTargetTemperature); err != nil {
		return nil, err
	}
	if st.CurrentTemperature, err = v.int(keyCurrentTemperature); err != nil {
		return nil, err
	}

	var fan FanSetting
	if fan.WindSpeed, err = v.int(keyWindSpeed); err != nil {
		return nil, err
	}
	if fan.SilenceSwitch, err = v.int(keySilence); err != nil {
		return nil, err
	}
	if fan.Turbo, err = v.int(keyTurbo); err != nil {
		return nil, err
	}
	st.FanSpeed = DecodeFanSpeed(fan)

	return st, nil
}

type stateView struct {
	desired  map[string]any
	reported map[string]any
}

func (v stateView) lookup(key string) (any, bool) {
	if val, ok := v.desired[key]; ok && val != nil {
		return val, true
	}
	val, ok := v.reported[key]
	return val, ok && val != nil
}

// int returns the property as an integer; absent properties read as zero.
func (v stateView) int(key string) (int, error) {
	val, ok := v.lookup(key)
	if !ok {
		return 0, nil
	}
	n, err := toInt(val)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", key, err)
	}
	return n, nil
}

func toInt(val any) (int, error) {
	switch x := val.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, err
		}
		return int(math.Round(f)), nil
	case float64:
		return int(math.Round(x)), nil
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.Atoi(x)
	default:
		return 0, fmt.Errorf("unexpected value %v (%T)", val, val)
	}
}
