package interaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InteractionsTotal 按交互类型与结果计数（created/already_recorded/recategorized/no_change/error）。
	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiperec_interactions_total",
			Help: "Total number of interaction ledger operations",
		},
		[]string{"type", "outcome"},
	)

	// InteractionDuration 记录一次台账操作（含存储读写）的耗时。
	InteractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swiperec_interaction_duration_seconds",
			Help:    "Duration of interaction ledger operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func recordOutcome(kind, outcome string) {
	InteractionsTotal.WithLabelValues(kind, outcome).Inc()
}
