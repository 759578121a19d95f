// internal/diag/selftest_test.go
package diag

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kestrel-avionics/adcd/internal/report"
)

// ---- fake source ----

type fakeSource struct {
	reports []report.Report
	fetches int
	failAt  map[int]bool // fetch index -> fail
}

func (f *fakeSource) Update() (report.Report, bool) {
	n := f.fetches
	f.fetches++
	if f.failAt[n] {
		return report.Report{}, false
	}
	if len(f.reports) == 0 {
		return report.Report{}, false
	}
	rep := f.reports[0]
	if len(f.reports) > 1 {
		f.reports = f.reports[1:]
	}
	rep.Timestamp = int64(n)
	return rep, true
}

func noSleep(time.Duration) {}

func probeReport() report.Report {
	rep := report.Report{DeviceID: 99, VRef: 3.3, Resolution: 4096}
	rep.ChannelID[0] = 2
	rep.RawData[0] = 431
	rep.ChannelID[1] = 7
	rep.RawData[1] = 512
	for i := 2; i < report.Capacity; i++ {
		rep.ChannelID[i] = report.UnusedChannel
	}
	return rep
}

// ---- tests ----

func TestRun_NoDataFailsImmediately(t *testing.T) {
	src := &fakeSource{}
	var out bytes.Buffer

	err := Run(src, &out, Options{Sleep: noSleep})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	// Loop never entered: exactly one fetch, nothing rendered.
	if src.fetches != 1 {
		t.Fatalf("expected 1 fetch, got %d", src.fetches)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output on no-data failure: %q", out.String())
	}
}

func TestRun_Success(t *testing.T) {
	src := &fakeSource{reports: []report.Report{probeReport()}}
	var out bytes.Buffer

	err := Run(src, &out, Options{Iterations: 3, Sleep: noSleep})
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}

	s := out.String()
	if !strings.Contains(s, "DeviceID: 99") {
		t.Fatalf("header missing: %q", s)
	}
	if !strings.Contains(s, "probe successful") {
		t.Fatalf("success line missing: %q", s)
	}
	// Sentinel slots never rendered.
	if strings.Contains(s, "-1:") {
		t.Fatalf("unused slot rendered: %q", s)
	}
}

func TestRun_MidLoopFailureContinues(t *testing.T) {
	src := &fakeSource{
		reports: []report.Report{probeReport()},
		failAt:  map[int]bool{2: true},
	}
	var out bytes.Buffer

	err := Run(src, &out, Options{Iterations: 4, Sleep: noSleep})
	if err != nil {
		t.Fatalf("mid-loop fetch failure must not abort: err=%v", err)
	}

	s := out.String()
	if !strings.Contains(s, "probe fetch failed") {
		t.Fatalf("failure notice missing: %q", s)
	}
	if !strings.Contains(s, "probe successful") {
		t.Fatalf("probe must still finish: %q", s)
	}
	// first fetch + one per iteration
	if src.fetches != 5 {
		t.Fatalf("expected 5 fetches, got %d", src.fetches)
	}
}
