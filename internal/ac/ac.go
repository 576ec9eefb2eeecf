// Package ac maps air-conditioner settings onto a device shadow.
//
// Every getter performs a fresh shadow read; nothing is cached.
package ac

import (
	"context"
	"fmt"

	"github.com/chukul/tclctl/internal"
)

const (
	MinTemperature = 16
	MaxTemperature = 31
)

// Shadow reads and writes device shadows. *internal.ShadowClient implements it.
type Shadow interface {
	GetShadow(ctx context.Context, deviceID string) (*internal.ShadowDocument, error)
	UpdateShadow(ctx context.Context, deviceID string, patch map[string]any) (internal.UpdateResult, error)
}

// AC controls one appliance.
type AC struct {
	shadow   Shadow
	deviceID string
}

// New returns a controller for deviceID.
func New(shadow Shadow, deviceID string) *AC {
	return &AC{shadow: shadow, deviceID: deviceID}
}

// DeviceID returns the controlled device.
func (a *AC) DeviceID() string { return a.deviceID }

func (a *AC) update(ctx context.Context, patch map[string]any) (internal.UpdateResult, error) {
	res, err := a.shadow.UpdateShadow(ctx, a.deviceID, patch)
	if err != nil {
		return internal.UpdateResult{}, err
	}
	return res, nil
}

// SetPower switches the appliance on or off.
func (a *AC) SetPower(ctx context.Context, on bool) (internal.UpdateResult, error) {
	v := 0
	if on {
		v = 1
	}
	return a.update(ctx, map[string]any{keyPower: v})
}

// SetMode changes the operating mode.
func (a *AC) SetMode(ctx context.Context, mode Mode) (internal.UpdateResult, error) {
	if !mode.Valid() {
		return internal.UpdateResult{}, &internal.ValidationError{Field: "mode", Value: int(mode), Reason: "unknown mode"}
	}
	return a.update(ctx, map[string]any{keyMode: int(mode)})
}

// SetTemperature sets the target temperature in degrees Celsius.
func (a *AC) SetTemperature(ctx context.Context, celsius int) (internal.UpdateResult, error) {
	if celsius < MinTemperature || celsius > MaxTemperature {
		return internal.UpdateResult{}, &internal.ValidationError{
			Field:  "temperature",
			Value:  celsius,
			Reason: fmt.Sprintf("must be between %d and %d", MinTemperature, MaxTemperature),
		}
	}
	return a.update(ctx, map[string]any{keyTargetTemperature: celsius})
}

// SetFanSpeed writes wind speed, silence and turbo in one patch.
func (a *AC) SetFanSpeed(ctx context.Context, speed FanSpeed) (internal.UpdateResult, error) {
	if speed < FanAuto || speed > FanTurbo {
		return internal.UpdateResult{}, &internal.ValidationError{Field: "fan speed", Value: int(speed), Reason: "unknown fan speed"}
	}
	s := speed.Encode()
	return a.update(ctx, map[string]any{
		keyWindSpeed: s.WindSpeed,
		keySilence:   s.SilenceSwitch,
		keyTurbo:     s.Turbo,
	})
}

// Fetch reads the shadow and decodes every property.
func (a *AC) Fetch(ctx context.Context) (*Status, error) {
	doc, err := a.shadow.GetShadow(ctx, a.deviceID)
	if err != nil {
		return nil, err
	}
	return decodeStatus(a.deviceID, doc)
}

// Power reports whether the appliance is on.
func (a *AC) Power(ctx context.Context) (bool, error) {
	st, err := a.Fetch(ctx)
	if err != nil {
		return false, err
	}
	return st.Power, nil
}

// Mode returns the operating mode.
func (a *AC) Mode(ctx context.Context) (Mode, error) {
	st, err := a.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	return st.Mode, nil
}

// TargetTemperature returns the set point.
func (a *AC) TargetTemperature(ctx context.Context) (int, error) {
	st, err := a.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	return st.TargetTemperature, nil
}

// CurrentTemperature returns the room temperature.
func (a *AC) CurrentTemperature(ctx context.Context) (int, error) {
	st, err := a.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	return st.CurrentTemperature, nil
}

// FanSpeed returns the fan speed.
func (a *AC) FanSpeed(ctx context.Context) (FanSpeed, error) {
	st, err := a.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	return st.FanSpeed, nil
}
