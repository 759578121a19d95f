// internal/hal/modbus/client.go
package modbus

import (
	"errors"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"go.uber.org/zap"

	"github.com/kestrel-avionics/adcd/internal/hal"
)

// Converter reads ADC channels exposed as Modbus input registers:
// channel N lives at register_base + N, one register per channel.
// It serializes requests because the underlying handler is not
// safe for concurrent use.
type Converter struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
	cfg     Config
}

type Config struct {
	Endpoint     string
	UnitID       uint8
	Timeout      time.Duration
	RegisterBase uint16

	VRef     float32
	FullScl  int
	TempMask uint32
}

func New(cfg Config) (*Converter, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("hal modbus: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
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
	return &Converter{cfg: cfg}, nil
}

// Init connects to the endpoint. One attempt, fail fast at startup.
func (c *Converter) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := modbus.NewTCPClientHandler(c.cfg.Endpoint)
	h.Timeout = c.cfg.Timeout
	h.SlaveId = c.cfg.UnitID

	if err := h.Connect(); err != nil {
		return err
	}

	c.handler = h
	c.client = modbus.NewClient(h)
	return nil
}

// Sample reads one input register for the channel. Any transport or
// protocol failure collapses to the timeout sentinel: the hardware
// contract has no error channel, and the next cycle is the retry.
func (c *Converter) Sample(channel int) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return hal.TimeoutValue
	}

	addr := c.cfg.RegisterBase + uint16(channel)

	raw, err := c.client.ReadInputRegisters(addr, 1)
	if err != nil {
		zap.S().Debugf("hal modbus: read ch=%d addr=%d: %v", channel, addr, err)
		return hal.TimeoutValue
	}
	if len(raw) < 2 {
		return hal.TimeoutValue
	}

	return uint32(raw[0])<<8 | uint32(raw[1])
}

func (c *Converter) ReferenceVoltage() float32 { return c.cfg.VRef }

func (c *Converter) FullScaleCount() int { return c.cfg.FullScl }

func (c *Converter) TemperatureChannelMask() uint32 { return c.cfg.TempMask }

func (c *Converter) Uninit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handler != nil {
		_ = c.handler.Close()
		c.handler = nil
		c.client = nil
	}
}

var _ hal.Converter = (*Converter)(nil)
