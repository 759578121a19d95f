// internal/sampler/sampler.go
package sampler

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kestrel-avionics/adcd/internal/hal"
	"github.com/kestrel-avionics/adcd/internal/metrics"
	"github.com/kestrel-avionics/adcd/internal/report"
)

// Instance owns one converter and its resolved channel set.
// The sample storage is allocated once, sized exactly to the resolved
// count; channel ids are prefilled and only the values change per
// cycle. Nothing outside the instance writes to it.
type Instance struct {
	cfg     Config
	conv    hal.Converter
	set     Set
	samples []report.Sample
	meta    report.Meta
	pub     Publisher
	met     *metrics.Metrics

	epoch  time.Time
	lastTS int64

	mu    sync.Mutex
	state State
}

// New resolves the channel set and allocates sample storage.
// The mandatory temperature channel is always included.
func New(cfg Config, conv hal.Converter, pub Publisher, met *metrics.Metrics) (*Instance, error) {
	if conv == nil {
		return nil, errors.New("sampler: converter required")
	}
	if pub == nil {
		return nil, errors.New("sampler: publisher required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("sampler: interval must be > 0")
	}

	set := Resolve(cfg.Mask, conv.TemperatureChannelMask(), hal.TotalChannels)
	if set.Len() == 0 {
		return nil, errors.New("sampler: resolved channel set is empty")
	}

	samples := make([]report.Sample, set.Len())
	for i, ch := range set.Channels() {
		samples[i].Channel = ch
	}

	in := &Instance{
		cfg:     cfg,
		conv:    conv,
		set:     set,
		samples: samples,
		pub:     pub,
		met:     met,
		epoch:   time.Now(),
		state:   StateUninitialized,
	}

	if met != nil {
		met.ChannelsResolved.Set(float64(set.Len()))
	}

	return in, nil
}

// Init brings up the hardware and caches the platform constants.
// Failure is fatal: the instance must not be scheduled.
func (in *Instance) Init() error {
	if err := in.conv.Init(); err != nil {
		return err
	}

	in.meta = report.Meta{
		DeviceID:   in.cfg.DeviceID,
		VRef:       in.conv.ReferenceVoltage(),
		Resolution: in.conv.FullScaleCount(),
	}

	in.setState(StateRunning)
	return nil
}

// CycleOnce performs exactly one sample→assemble→publish cycle.
// Per-channel timeouts are recorded in place and never abort the
// cycle; the next scheduled cycle is the retry.
func (in *Instance) CycleOnce() report.Report {
	start := time.Now()

	for i := range in.samples {
		raw := in.conv.Sample(in.samples[i].Channel)
		if raw == hal.TimeoutValue {
			zap.S().Errorf("sampler: sample timeout ch=%d", in.samples[i].Channel)
			if in.met != nil {
				in.met.SampleTimeouts.Inc()
			}
		}
		in.samples[i].Raw = raw
	}

	// Timestamp is taken after sampling so it marks when the data
	// became valid.
	rep := report.Assemble(in.samples, in.meta, in.timestamp())
	in.pub.Publish(rep)

	if in.met != nil {
		in.met.Cycles.Inc()
		in.met.Published.Inc()
		in.met.CycleSeconds.Observe(time.Since(start).Seconds())
	}

	return rep
}

// timestamp returns monotonic microseconds since instance creation,
// forced strictly increasing across cycles.
func (in *Instance) timestamp() int64 {
	ts := time.Since(in.epoch).Microseconds()
	if ts <= in.lastTS {
		ts = in.lastTS + 1
	}
	in.lastTS = ts
	return ts
}

// Close releases the hardware. Idempotent.
func (in *Instance) Close() {
	in.setState(StateStopped)
	in.conv.Uninit()
}

// ChannelSet returns the resolved set.
func (in *Instance) ChannelSet() Set { return in.set }

// State returns the lifecycle state.
func (in *Instance) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

func (in *Instance) setState(s State) {
	in.mu.Lock()
	in.state = s
	in.mu.Unlock()
}
