// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the instrument set for one sampling instance.
type Metrics struct {
	Cycles           prometheus.Counter
	SampleTimeouts   prometheus.Counter
	Published        prometheus.Counter
	CycleSeconds     prometheus.Histogram
	ChannelsResolved prometheus.Gauge
}

// New registers the instrument set on the given registerer.
// Tests pass a fresh prometheus.NewRegistry to avoid global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adcd_cycles_total",
			Help: "Completed sample-assemble-publish cycles.",
		}),
		SampleTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adcd_sample_timeouts_total",
			Help: "Per-channel conversions that returned the timeout sentinel.",
		}),
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adcd_reports_published_total",
			Help: "Reports handed to the bus.",
		}),
		CycleSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "adcd_cycle_duration_seconds",
			Help:    "Wall time of one full cycle, sampling included.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		ChannelsResolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adcd_channels_resolved",
			Help: "Size of the resolved channel set.",
		}),
	}

	reg.MustRegister(m.Cycles, m.SampleTimeouts, m.Published, m.CycleSeconds, m.ChannelsResolved)
	return m
}

// Serve exposes /metrics for the given gatherer. Blocks.
func Serve(addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
