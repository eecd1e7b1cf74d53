package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query pipeline Prometheus metrics.
var (
	EnrichmentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buscaplato",
			Name:      "enrichment_requests_total",
			Help:      "Total number of plan enrichment requests",
		},
		[]string{"provider", "model", "status"},
	)

	EnrichmentRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buscaplato",
			Name:      "enrichment_request_duration_seconds",
			Help:      "Plan enrichment request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"provider", "model"},
	)

	EnrichmentErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buscaplato",
			Name:      "enrichment_errors_total",
			Help:      "Total plan enrichment errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	PlanCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buscaplato",
			Name:      "plan_cache_total",
			Help:      "Plan cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	QueryCompileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buscaplato",
			Name:      "query_compile_total",
			Help:      "Total compiled queries by enrichment outcome",
		},
		[]string{"enrichment"},
	)

	SearchRelaxationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buscaplato",
			Name:      "search_relaxations_total",
			Help:      "Total relaxed filters during search",
		},
		[]string{"field"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EnrichmentRequestsTotal)
	prometheus.MustRegister(EnrichmentRequestDuration)
	prometheus.MustRegister(EnrichmentErrorsTotal)
	prometheus.MustRegister(PlanCacheTotal)
	prometheus.MustRegister(QueryCompileTotal)
	prometheus.MustRegister(SearchRelaxationsTotal)
	pipelineMetricsRegistered = true
}
