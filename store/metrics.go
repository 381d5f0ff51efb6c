package store

import "github.com/prometheus/client_golang/prometheus"

const (
	MetricRequests        = "requests_total"
	MetricRequestDuration = "request_duration_seconds"
	MetricObjectsReturned = "objects_returned_total"
)

var CounterRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "witsml",
		Name:      MetricRequests,
		Help:      "Store requests by function, object type and result code.",
	},
	[]string{
		"function",
		"type",
		"result",
	},
)

var HistogramRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "witsml",
		Name:      MetricRequestDuration,
		Help:      "Store request latency.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{
		"function",
	},
)

var CounterObjectsReturned = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "witsml",
		Name:      MetricObjectsReturned,
		Help:      "Objects returned by GetFromStore.",
	},
	[]string{
		"type",
	},
)

func init() {
	prometheus.MustRegister(CounterRequests)
	prometheus.MustRegister(HistogramRequestDuration)
	prometheus.MustRegister(CounterObjectsReturned)
}
