package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the sync pipeline and data-integrity alerts. Integrity alerts
// must stay visible to monitoring even though they never block the pipeline.
var (
	SyncJobOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "railsync_sync_job_outcomes_total",
		Help: "Sync job attempt outcomes by result (success, retry, failed).",
	}, []string{"result"})

	SyncJobRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railsync_sync_job_retries_total",
		Help: "Sync job attempts rescheduled by the backoff policy.",
	})

	LedgerImbalanceAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railsync_ledger_imbalance_alerts_total",
		Help: "Payments whose ledger entries failed the balance invariant.",
	})

	ReconciliationAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railsync_reconciliation_alerts_total",
		Help: "Reconciliation reports with a difference beyond tolerance.",
	})

	RateCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "railsync_rate_cache_lookups_total",
		Help: "Rate cache lookups by result (hit, miss).",
	}, []string{"result"})

	RateProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "railsync_rate_provider_errors_total",
		Help: "Upstream rate provider failures by provider name.",
	}, []string{"provider"})
)
