// internal/hal/sim/sim.go
package sim

import (
	"errors"
	"sync"

	"github.com/kestrel-avionics/adcd/internal/hal"
)

// Converter is a simulated ADC. Readings are deterministic so tests
// and bench setups can assert exact values: channel N reads
// base + N*step, incremented by one per conversion on that channel.
type Converter struct {
	mu       sync.Mutex
	base     uint32
	step     uint32
	reads    map[int]uint32
	timeout  map[int]bool
	initErr  error
	initDone bool
	vref     float32
	fullScl  int
	tempMask uint32
}

// Config controls the simulated hardware profile.
type Config struct {
	Base     uint32  // reading offset, default 400
	Step     uint32  // per-channel spread, default 16
	VRef     float32 // default 3.3
	FullScl  int     // default 4096 (12 bit)
	TempMask uint32  // default 1 << 16
}

func New(cfg Config) *Converter {
	if cfg.Base == 0 {
		cfg.Base = 400
	}
	if cfg.Step == 0 {
		cfg.Step = 16
	}
	if cfg.VRef == 0 {
		cfg.VRef = 3.3
	}
	if cfg.FullScl == 0 {
		cfg.FullScl = 4096
	}
	if cfg.TempMask == 0 {
		cfg.TempMask = 1 << 16
	}
	return &Converter{
		base:     cfg.Base,
		step:     cfg.Step,
		reads:    make(map[int]uint32),
		timeout:  make(map[int]bool),
		vref:     cfg.VRef,
		fullScl:  cfg.FullScl,
		tempMask: cfg.TempMask,
	}
}

func (c *Converter) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initErr != nil {
		return c.initErr
	}
	c.initDone = true
	return nil
}

func (c *Converter) Sample(channel int) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initDone {
		return hal.TimeoutValue
	}
	if c.timeout[channel] {
		return hal.TimeoutValue
	}
	n := c.reads[channel]
	c.reads[channel] = n + 1
	return c.base + uint32(channel)*c.step + n
}

func (c *Converter) ReferenceVoltage() float32 { return c.vref }

func (c *Converter) FullScaleCount() int { return c.fullScl }

func (c *Converter) TemperatureChannelMask() uint32 { return c.tempMask }

func (c *Converter) Uninit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initDone = false
}

// ---- fault injection (test hooks) ----

// FailInit makes the next Init return an error.
func (c *Converter) FailInit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErr = errors.New("sim: init failed")
}

// SimulateTimeout forces the given channel to return the timeout
// sentinel until cleared.
func (c *Converter) SimulateTimeout(channel int, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout[channel] = on
}

var _ hal.Converter = (*Converter)(nil)
