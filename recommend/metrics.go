package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendRequestsTotal 按类目与路径（ranked/fallback/error）计数。
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiperec_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"category", "path"},
	)

	// RecommendReturnedItems 记录每次请求返回的商品数量。
	RecommendReturnedItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "swiperec_recommend_returned_items",
			Help:    "Number of items returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
	)
)
