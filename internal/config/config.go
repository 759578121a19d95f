// internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ADC      ADCConfig      `yaml:"adc"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	SelfTest SelfTestConfig `yaml:"selftest"`
}

// ---- ADC ----

type ADCConfig struct {
	DeviceID   uint32         `yaml:"device_id"`
	Channels   []int          `yaml:"channels"`
	IntervalMs int            `yaml:"interval_ms"`
	Hardware   HardwareConfig `yaml:"hardware"`
}

// Mask folds the requested channel list into a bitmask.
// Duplicate indices collapse; sampling order is decided by the
// resolver, not by list order.
func (a ADCConfig) Mask() uint32 {
	var mask uint32
	for _, ch := range a.Channels {
		mask |= 1 << uint(ch)
	}
	return mask
}

// ---- HARDWARE ----

type HardwareConfig struct {
	Driver string       `yaml:"driver"` // "sim" | "modbus"
	Modbus ModbusConfig `yaml:"modbus"`
}

type ModbusConfig struct {
	Endpoint     string `yaml:"endpoint"`
	UnitID       uint8  `yaml:"unit_id"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	RegisterBase uint16 `yaml:"register_base"`
}

// ---- MQTT ----

type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
}

// ---- METRICS ----

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ---- SELF TEST ----

type SelfTestConfig struct {
	FirstWaitMs int `yaml:"first_wait_ms"`
	IntervalMs  int `yaml:"interval_ms"`
	Iterations  int `yaml:"iterations"`
}

// Load reads and unmarshals a config file.
// It performs no validation and no defaulting; callers run
// Validate() and then Normalize().
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
