// internal/sampler/builder.go
package sampler

import (
	"fmt"
	"time"

	cfg "github.com/kestrel-avionics/adcd/internal/config"
	"github.com/kestrel-avionics/adcd/internal/hal"
	halmodbus "github.com/kestrel-avionics/adcd/internal/hal/modbus"
	"github.com/kestrel-avionics/adcd/internal/hal/sim"
	"github.com/kestrel-avionics/adcd/internal/metrics"
)

// Build constructs an Instance from normalized config, wiring the
// configured hardware backend. Hardware is NOT initialized here; the
// caller runs Init and owns the fail-fast decision.
func Build(c cfg.ADCConfig, pub Publisher, met *metrics.Metrics) (*Instance, error) {
	conv, err := buildConverter(c.Hardware)
	if err != nil {
		return nil, err
	}

	return New(
		Config{
			DeviceID: c.DeviceID,
			Mask:     c.Mask(),
			Interval: time.Duration(c.IntervalMs) * time.Millisecond,
		},
		conv,
		pub,
		met,
	)
}

func buildConverter(hw cfg.HardwareConfig) (hal.Converter, error) {
	switch hw.Driver {
	case "sim":
		return sim.New(sim.Config{}), nil
	case "modbus":
		return halmodbus.New(halmodbus.Config{
			Endpoint:     hw.Modbus.Endpoint,
			UnitID:       hw.Modbus.UnitID,
			Timeout:      time.Duration(hw.Modbus.TimeoutMs) * time.Millisecond,
			RegisterBase: hw.Modbus.RegisterBase,
		})
	default:
		return nil, fmt.Errorf("sampler: unknown hardware driver %q", hw.Driver)
	}
}
