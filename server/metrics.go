package server

import (
	"strconv"
	"time"

	"github.com/pbanos/sapling/queue"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests     *prometheus.CounterVec
	requestTime  *prometheus.HistogramVec
	treesGrown   *prometheus.CounterVec
	growDuration prometheus.Histogram
	treeHeight   prometheus.Histogram
	predictions  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, pool *queue.Pool) *metrics {
	factory := promauto.With(reg)
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sapling_pool_running_jobs",
		Help: "Number of trees being grown at the moment",
	}, func() float64 {
		return float64(pool.Running())
	})
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sapling_pool_workers",
		Help: "Number of trees that can be grown at the same time",
	}, func() float64 {
		return float64(pool.Workers())
	})
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sapling_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sapling_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}, []string{"route"}),
		treesGrown: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sapling_trees_grown_total",
			Help: "Total trees grown by algorithm",
		}, []string{"algorithm"}),
		growDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sapling_grow_duration_seconds",
			Help:    "Time spent growing and testing a tree",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		treeHeight: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sapling_tree_height",
			Help:    "Height of grown trees",
			Buckets: prometheus.LinearBuckets(0, 2, 16),
		}),
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sapling_predictions_total",
			Help: "Total row predictions by outcome",
		}, []string{"outcome"}),
	}
}

func (m *metrics) observeRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestTime.WithLabelValues(route).Observe(d.Seconds())
}
