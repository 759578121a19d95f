// internal/sampler/types.go
package sampler

import (
	"time"

	"github.com/kestrel-avionics/adcd/internal/report"
)

// State is the instance lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Publisher is the exact delivery contract the sampler uses.
// Best-effort: Publish never blocks on slow consumers and returns
// nothing; transport buffering is not this package's concern.
type Publisher interface {
	Publish(r report.Report)
}

// Config is the immutable runtime config of one instance.
type Config struct {
	DeviceID uint32
	Mask     uint32 // requested channel bitmask
	Interval time.Duration
}
