package withdrawal

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusWithdraw               prometheus.Histogram
	prometheusBroadcastPending       prometheus.Histogram
	prometheusReconcile              prometheus.Histogram
	prometheusConfirmWithdrawal      prometheus.Histogram
	prometheusWithdrawErrors         *prometheus.CounterVec
	prometheusBroadcastFailures      prometheus.Counter
	prometheusRebroadcasts           prometheus.Counter
	prometheusReconciliationRequired prometheus.Counter
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusWithdraw = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mercury",
			Subsystem: "withdrawal",
			Name:      "withdraw",
			Help:      "Histogram of withdraw operations",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	prometheusBroadcastPending = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mercury",
			Subsystem: "withdrawal",
			Name:      "broadcast_pending",
			Help:      "Histogram of re-broadcasts of pending withdrawals",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	prometheusReconcile = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mercury",
			Subsystem: "withdrawal",
			Name:      "reconcile",
			Help:      "Histogram of reconcile operations",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	prometheusConfirmWithdrawal = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mercury",
			Subsystem: "withdrawal",
			Name:      "confirm",
			Help:      "Histogram of withdrawal confirmation checks",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	prometheusWithdrawErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mercury",
			Subsystem: "withdrawal",
			Name:      "errors",
			Help:      "Number of failed withdrawal operations by error code and category",
		},
		[]string{"code", "category"},
	)

	prometheusBroadcastFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mercury",
			Subsystem: "withdrawal",
			Name:      "broadcast_failures",
			Help:      "Number of withdrawal broadcasts that failed after the ledger append",
		},
	)

	prometheusRebroadcasts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mercury",
			Subsystem: "withdrawal",
			Name:      "rebroadcasts",
			Help:      "Number of withdrawals that re-broadcast an already signed transaction",
		},
	)

	prometheusReconciliationRequired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mercury",
			Subsystem: "withdrawal",
			Name:      "reconciliation_required",
			Help:      "Number of broadcast withdrawals whose wallet could not be saved",
		},
	)
}
