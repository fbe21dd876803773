package api

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusAPIRequests *prometheus.CounterVec
	prometheusAPIErrors   *prometheus.CounterVec
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusAPIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mercury",
			Subsystem: "api",
			Name:      "requests",
			Help:      "Number of API requests by handler",
		},
		[]string{
			"function",
		},
	)

	prometheusAPIErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mercury",
			Subsystem: "api",
			Name:      "errors",
			Help:      "Number of API error responses by route, error code and category",
		},
		[]string{
			"route",
			"code",
			"category",
		},
	)
}
