// internal/sampler/channels.go
package sampler

import (
	"go.uber.org/zap"

	"github.com/kestrel-avionics/adcd/internal/hal"
	"github.com/kestrel-avionics/adcd/internal/report"
)

// Set is the resolved, deduplicated, ordered channel set for one
// instance. Built once at construction, immutable afterwards.
type Set struct {
	channels []int
}

// Resolve turns a requested channel bitmask into an ordered Set.
// The mandatory mask is always OR-ed in, so the set is never empty
// when mandatory is non-zero. Order is ascending channel index.
//
// A set larger than the report capacity is a configuration error but
// not a fatal one: it is logged HERE, once, and silently truncated by
// the assembler every cycle after that.
func Resolve(mask, mandatory uint32, total int) Set {
	if total <= 0 || total > hal.TotalChannels {
		total = hal.TotalChannels
	}

	mask |= mandatory

	var channels []int
	for i := 0; i < total; i++ {
		if mask&(1<<uint(i)) != 0 {
			channels = append(channels, i)
		}
	}

	if len(channels) > report.Capacity {
		zap.S().Errorf("sampler: resolved %d channels exceeds report capacity %d, excess will be truncated",
			len(channels), report.Capacity)
	}

	return Set{channels: channels}
}

// Channels returns the resolved channel ids in sampling order.
// The caller must not mutate the returned slice.
func (s Set) Channels() []int { return s.channels }

// Len returns the resolved channel count.
func (s Set) Len() int { return len(s.channels) }

// Contains reports whether the set includes the given channel.
func (s Set) Contains(ch int) bool {
	for _, c := range s.channels {
		if c == ch {
			return true
		}
	}
	return false
}
