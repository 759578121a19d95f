// internal/supervisor/supervisor.go
package supervisor

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kestrel-avionics/adcd/internal/bus"
	cfg "github.com/kestrel-avionics/adcd/internal/config"
	"github.com/kestrel-avionics/adcd/internal/diag"
	"github.com/kestrel-avionics/adcd/internal/metrics"
	"github.com/kestrel-avionics/adcd/internal/sampler"
)

// ErrNotRunning is returned by operations that require a live
// instance, such as the self test.
var ErrNotRunning = errors.New("supervisor: instance not running")

// ErrAlreadyRunning is returned by Start on a running supervisor.
var ErrAlreadyRunning = errors.New("supervisor: instance already running")

// Supervisor owns one sampling instance and its report topic.
// It is the explicit handle for start/stop/status/test; there is no
// process-global instance state.
type Supervisor struct {
	cfg   *cfg.Config
	met   *metrics.Metrics
	topic *bus.Topic

	mu     sync.Mutex
	inst   *sampler.Instance
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds an idle supervisor. Config must be validated and
// normalized.
func New(c *cfg.Config, reg prometheus.Registerer) *Supervisor {
	return &Supervisor{
		cfg:   c,
		met:   metrics.New(reg),
		topic: bus.NewTopic(),
	}
}

// Start builds the instance, brings up hardware and launches the
// cyclic runner. Hardware init failure is fatal: nothing is
// scheduled and the converter is released.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inst != nil {
		return ErrAlreadyRunning
	}

	inst, err := sampler.Build(s.cfg.ADC, s.topic, s.met)
	if err != nil {
		return err
	}

	if err := inst.Init(); err != nil {
		inst.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		inst.Run(runCtx)
	}()

	s.inst = inst
	s.cancel = cancel
	s.done = done

	zap.S().Infof("supervisor: started, channels=%v interval=%dms",
		inst.ChannelSet().Channels(), s.cfg.ADC.IntervalMs)
	return nil
}

// Stop requests a cooperative stop and waits for the runner to
// observe it at the top of a cycle, then releases the hardware.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	inst := s.inst
	cancel := s.cancel
	done := s.done
	s.inst = nil
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if inst == nil {
		return
	}

	cancel()
	<-done
	inst.Close()
	zap.S().Infof("supervisor: stopped")
}

// State reports the lifecycle state of the owned instance.
func (s *Supervisor) State() sampler.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inst == nil {
		return sampler.StateStopped
	}
	return s.inst.State()
}

// Subscribe attaches a consumer to the report topic.
func (s *Supervisor) Subscribe() *bus.Subscription {
	return s.topic.Subscribe()
}

// SelfTest runs the diagnostics probe against the in-process report
// stream. It is an error, not a crash, when no instance is running.
func (s *Supervisor) SelfTest(w io.Writer) error {
	s.mu.Lock()
	running := s.inst != nil
	s.mu.Unlock()

	if !running {
		return ErrNotRunning
	}

	sub := s.Subscribe()
	defer sub.Close()

	return diag.Run(sub, w, diag.Options{
		FirstWait:  time.Duration(s.cfg.SelfTest.FirstWaitMs) * time.Millisecond,
		Interval:   time.Duration(s.cfg.SelfTest.IntervalMs) * time.Millisecond,
		Iterations: s.cfg.SelfTest.Iterations,
	})
}
