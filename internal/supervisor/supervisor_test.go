// internal/supervisor/supervisor_test.go
package supervisor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cfg "github.com/kestrel-avionics/adcd/internal/config"
	"github.com/kestrel-avionics/adcd/internal/sampler"
)

func testConfig() *cfg.Config {
	c := &cfg.Config{
		ADC: cfg.ADCConfig{
			DeviceID:   7,
			Channels:   []int{2, 5},
			IntervalMs: 5,
			Hardware:   cfg.HardwareConfig{Driver: "sim"},
		},
		SelfTest: cfg.SelfTestConfig{
			FirstWaitMs: 20,
			IntervalMs:  10,
			Iterations:  2,
		},
	}
	return c
}

func TestStartStop(t *testing.T) {
	sup := New(testConfig(), prometheus.NewRegistry())

	if err := sup.Start(context.Background()); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	if sup.State() != sampler.StateRunning {
		t.Fatalf("expected running, got %v", sup.State())
	}

	if err := sup.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start: expected ErrAlreadyRunning, got %v", err)
	}

	sup.Stop()
	if sup.State() != sampler.StateStopped {
		t.Fatalf("expected stopped, got %v", sup.State())
	}

	// Stop on a stopped supervisor is a no-op.
	sup.Stop()
}

func TestSelfTest_NotRunning(t *testing.T) {
	sup := New(testConfig(), prometheus.NewRegistry())

	var out bytes.Buffer
	if err := sup.SelfTest(&out); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestSelfTest_AgainstRunningInstance(t *testing.T) {
	sup := New(testConfig(), prometheus.NewRegistry())

	if err := sup.Start(context.Background()); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	defer sup.Stop()

	var out bytes.Buffer
	if err := sup.SelfTest(&out); err != nil {
		t.Fatalf("SelfTest() err=%v\noutput: %s", err, out.String())
	}
	if !strings.Contains(out.String(), "DeviceID: 7") {
		t.Fatalf("probe header missing: %q", out.String())
	}
}

func TestSubscribe_DeliversReports(t *testing.T) {
	sup := New(testConfig(), prometheus.NewRegistry())

	sub := sup.Subscribe()
	if err := sup.Start(context.Background()); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	defer sup.Stop()

	deadline := time.After(time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("no report within deadline")
		case <-sub.Notify():
			rep, ok := sub.Update()
			if !ok {
				continue
			}
			if rep.DeviceID != 7 {
				t.Fatalf("unexpected device id %d", rep.DeviceID)
			}
			return
		}
	}
}
