// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.ADC.IntervalMs == 0 {
		cfg.ADC.IntervalMs = 100
	}
	if cfg.ADC.Hardware.Driver == "" {
		cfg.ADC.Hardware.Driver = "sim"
	}
	if cfg.ADC.Hardware.Modbus.TimeoutMs == 0 {
		cfg.ADC.Hardware.Modbus.TimeoutMs = 2000
	}

	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "adcd"
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "adcd/report"
	}

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9100"
	}

	// Self-test timings mirror the long-standing probe behavior:
	// 20 ms first wait, then 20 iterations at 500 ms.
	if cfg.SelfTest.FirstWaitMs == 0 {
		cfg.SelfTest.FirstWaitMs = 20
	}
	if cfg.SelfTest.IntervalMs == 0 {
		cfg.SelfTest.IntervalMs = 500
	}
	if cfg.SelfTest.Iterations == 0 {
		cfg.SelfTest.Iterations = 20
	}
}
