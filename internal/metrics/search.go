package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagquery",
			Name:      "search_requests_total",
			Help:      "Total number of tag searches",
		},
		[]string{"status"}, // "ok" / "empty" / "cancelled" / "error"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tagquery",
			Name:      "search_duration_seconds",
			Help:      "Tag search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SearchMatches = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tagquery",
			Name:      "search_matches",
			Help:      "Number of corpus entries matched per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagquery",
			Name:      "result_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CorpusEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tagquery",
			Name:      "corpus_entries",
			Help:      "Corpus entries loaded at startup",
		},
		[]string{"state"}, // "tagged" / "untagged"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchMatches)
	prometheus.MustRegister(ResultCacheTotal)
	prometheus.MustRegister(CorpusEntries)
	searchMetricsRegistered = true
}
