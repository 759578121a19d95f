// internal/diag/selftest.go
package diag

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kestrel-avionics/adcd/internal/report"
)

// ErrNoData is the hard failure: no report arrived within the first
// wait window, so the probe never enters its loop.
var ErrNoData = errors.New("diag: no report received")

// Source is any report stream the probe can poll: an in-process bus
// subscription or a broker subscriber.
type Source interface {
	Update() (report.Report, bool)
}

// Options bounds the probe. Zero values fall back to the defaults
// (20 ms first wait, 20 iterations at 500 ms). Sleep is injectable
// so tests do not spend ten wall-clock seconds here.
type Options struct {
	FirstWait  time.Duration
	Interval   time.Duration
	Iterations int
	Sleep      func(time.Duration)
}

func (o *Options) applyDefaults() {
	if o.FirstWait <= 0 {
		o.FirstWait = 20 * time.Millisecond
	}
	if o.Interval <= 0 {
		o.Interval = 500 * time.Millisecond
	}
	if o.Iterations <= 0 {
		o.Iterations = 20
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
}

// Run executes the liveness probe against src, rendering to w.
// It checks that reports keep arriving; it never judges the sampled
// values. A failed fetch mid-loop is rendered and the loop continues;
// only the first fetch is load-bearing.
func Run(src Source, w io.Writer, opt Options) error {
	opt.applyDefaults()

	opt.Sleep(opt.FirstWait)

	rep, ok := src.Update()
	if !ok {
		return ErrNoData
	}

	fmt.Fprintf(w, "DeviceID: %d\n", rep.DeviceID)
	fmt.Fprintf(w, "Resolution: %d\n", rep.Resolution)
	fmt.Fprintf(w, "Voltage Reference: %f\n", rep.VRef)

	for l := 0; l < opt.Iterations; l++ {
		render(w, rep)
		opt.Sleep(opt.Interval)

		next, ok := src.Update()
		if !ok {
			fmt.Fprintf(w, "\t probe fetch failed.\n")
			continue
		}
		rep = next
	}

	fmt.Fprintf(w, "\t probe successful.\n")
	return nil
}

func render(w io.Writer, rep report.Report) {
	for i := 0; i < report.Capacity; i++ {
		if rep.ChannelID[i] != report.UnusedChannel {
			fmt.Fprintf(w, "% 2d:% 6d", rep.ChannelID[i], rep.RawData[i])
		}
	}
	fmt.Fprintln(w)
}
