// Package metrics exposes prometheus counters for the generation pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	TicksTotal         = prometheus.NewCounter(prometheus.CounterOpts{Name: "generation_ticks_total", Help: "Advance ticks that performed a unit of work"})
	LeaseContention    = prometheus.NewCounter(prometheus.CounterOpts{Name: "generation_lease_contention_total", Help: "Ticks rejected because another worker held a fresh lease"})
	MonthsSynthesized  = prometheus.NewCounter(prometheus.CounterOpts{Name: "generation_months_synthesized_total", Help: "Month units synthesized successfully"})
	SynthesisFailures  = prometheus.NewCounter(prometheus.CounterOpts{Name: "generation_synthesis_failures_total", Help: "Month units that failed synthesis"})
	JobsCompleted      = prometheus.NewCounter(prometheus.CounterOpts{Name: "generation_jobs_completed_total", Help: "Jobs finalized successfully"})
	JobsFailed         = prometheus.NewCounter(prometheus.CounterOpts{Name: "generation_jobs_failed_total", Help: "Jobs that exhausted their retry budget"})
	CoverFailures      = prometheus.NewCounter(prometheus.CounterOpts{Name: "generation_cover_failures_total", Help: "Cover syntheses that failed (book still completes)"})
	NotifierFailures   = prometheus.NewCounter(prometheus.CounterOpts{Name: "generation_notifier_failures_total", Help: "Best-effort notifications that failed"})
)

// Handler exposes the /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			TicksTotal,
			LeaseContention,
			MonthsSynthesized,
			SynthesisFailures,
			JobsCompleted,
			JobsFailed,
			CoverFailures,
			NotifierFailures,
		)
	})
	return promhttp.Handler()
}
