// internal/config/validate_test.go
package config

import "testing"

func baseConfig() *Config {
	return &Config{
		ADC: ADCConfig{
			DeviceID:   1,
			Channels:   []int{2, 5},
			IntervalMs: 100,
			Hardware:   HardwareConfig{Driver: "sim"},
		},
	}
}

// ---- validate ----

func TestValidate_OK(t *testing.T) {
	if err := Validate(baseConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ChannelOutOfRange(t *testing.T) {
	cfg := baseConfig()
	cfg.ADC.Channels = []int{2, 32}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for channel 32")
	}

	cfg.ADC.Channels = []int{-1}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for negative channel")
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := baseConfig()
	cfg.ADC.Hardware.Driver = "spi"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestValidate_ModbusRequiresEndpoint(t *testing.T) {
	cfg := baseConfig()
	cfg.ADC.Hardware.Driver = "modbus"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for missing modbus endpoint")
	}

	cfg.ADC.Hardware.Modbus.Endpoint = "127.0.0.1:1502"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MQTT(t *testing.T) {
	cfg := baseConfig()
	cfg.MQTT.Enabled = true

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for missing broker")
	}

	cfg.MQTT.Broker = "tcp://127.0.0.1:1883"
	cfg.MQTT.QoS = 3
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for qos=3")
	}
}

// ---- normalize ----

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{}
	Normalize(cfg)

	if cfg.ADC.IntervalMs != 100 {
		t.Fatalf("interval default: %d", cfg.ADC.IntervalMs)
	}
	if cfg.ADC.Hardware.Driver != "sim" {
		t.Fatalf("driver default: %q", cfg.ADC.Hardware.Driver)
	}
	if cfg.SelfTest.FirstWaitMs != 20 || cfg.SelfTest.IntervalMs != 500 || cfg.SelfTest.Iterations != 20 {
		t.Fatalf("selftest defaults: %+v", cfg.SelfTest)
	}
	if cfg.Metrics.Addr != ":9100" {
		t.Fatalf("metrics addr default: %q", cfg.Metrics.Addr)
	}
}

// ---- mask ----

func TestMask_FoldsAndDeduplicates(t *testing.T) {
	a := ADCConfig{Channels: []int{5, 2, 5}}

	if got := a.Mask(); got != (1<<2 | 1<<5) {
		t.Fatalf("Mask() = %#x, want %#x", got, 1<<2|1<<5)
	}
}
