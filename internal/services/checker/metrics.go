package checker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	probesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uptime_probes_total", Help: "Probes attempted.",
	})
	probeUp = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uptime_probe_up_total", Help: "Probes that received a response.",
	})
	probeDown = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uptime_probe_down_total", Help: "Probes that got no response.",
	})
	probeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "uptime_probe_latency_seconds",
		Help:    "Probe latency until response headers.",
		Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	})
	storeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uptime_store_errors_total", Help: "History load or save failures.",
	})
	storeConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uptime_store_conflicts_total", Help: "Conditional history writes that lost a race.",
	})
	statusChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uptime_status_changes_total", Help: "Up/down transitions recorded.",
	})
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uptime_http_requests_total", Help: "Check endpoint responses by status code.",
	}, []string{"code"})
)
