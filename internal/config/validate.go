// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/kestrel-avionics/adcd/internal/hal"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// ADC
	// ------------------------------------------------------------

	if cfg.ADC.IntervalMs < 0 {
		return fmt.Errorf("adc.interval_ms must be >= 0, got %d", cfg.ADC.IntervalMs)
	}

	for _, ch := range cfg.ADC.Channels {
		if ch < 0 || ch >= hal.TotalChannels {
			return fmt.Errorf(
				"adc.channels: channel %d out of range [0, %d)",
				ch, hal.TotalChannels,
			)
		}
	}

	switch cfg.ADC.Hardware.Driver {
	case "", "sim":
		// sim needs nothing
	case "modbus":
		if cfg.ADC.Hardware.Modbus.Endpoint == "" {
			return fmt.Errorf("adc.hardware.modbus.endpoint is required when driver is %q", "modbus")
		}
		if cfg.ADC.Hardware.Modbus.TimeoutMs < 0 {
			return fmt.Errorf("adc.hardware.modbus.timeout_ms must be >= 0")
		}
	default:
		return fmt.Errorf("adc.hardware.driver: unknown driver %q", cfg.ADC.Hardware.Driver)
	}

	// ------------------------------------------------------------
	// MQTT
	// ------------------------------------------------------------

	if cfg.MQTT.Enabled {
		if cfg.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
		}
		if cfg.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", cfg.MQTT.QoS)
		}
	}

	// ------------------------------------------------------------
	// SELF TEST
	// ------------------------------------------------------------

	if cfg.SelfTest.FirstWaitMs < 0 || cfg.SelfTest.IntervalMs < 0 || cfg.SelfTest.Iterations < 0 {
		return fmt.Errorf("selftest values must be >= 0")
	}

	return nil
}
