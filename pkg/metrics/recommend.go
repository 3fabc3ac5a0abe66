package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RecommendDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reco_recommend_latency_seconds",
		Help:    "Latency of the recommendation endpoint",
		Buckets: prometheus.DefBuckets,
	})

	RecommendTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reco_recommend_total",
		Help: "Total recommendations served",
	})

	NoEligibleCardTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reco_no_eligible_card_total",
		Help: "Recommendations where no rule matched the transaction",
	})

	BestCardsCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_best_cards_cache_total",
		Help: "Best-cards-per-category cache lookups by outcome",
	}, []string{"outcome"})
)

func Init() {
	prometheus.MustRegister(
		RecommendDuration,
		RecommendTotal,
		NoEligibleCardTotal,
		BestCardsCacheHits,
	)
}
