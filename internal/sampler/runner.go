// internal/sampler/runner.go
package sampler

import (
	"context"
	"time"
)

// Run drives the cyclic schedule until the context is cancelled.
// One goroutine per instance. Cycles never overlap. Cancellation is
// observed at the top of a cycle only, before any sampling, so a
// stop request never interrupts a cycle mid-flight and nothing is
// published after it is observed.
func (in *Instance) Run(ctx context.Context) {
	ticker := time.NewTicker(in.cfg.Interval)
	defer ticker.Stop()
	defer in.setState(StateStopped)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			in.CycleOnce()
		}
	}
}
