package artifact

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	putsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptdesk_artifact_puts_total",
		Help: "Total number of artifacts written to the store",
	})
	sweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptdesk_artifact_sweeps_total",
		Help: "Total number of retention sweeps executed",
	})
	expiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptdesk_artifacts_expired_total",
		Help: "Total number of artifacts deleted because their TTL elapsed",
	})
	sweepFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptdesk_artifact_sweep_failures_total",
		Help: "Total number of individual deletions that failed during sweeps",
	})
	artifactsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "promptdesk_artifacts_live",
		Help: "Number of artifacts in the store as of the last sweep",
	})
)
