// Package metrics provides Prometheus metrics for the Card Stash service.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardstash_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardstash_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Collection Metrics
	CollectionCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardstash_collection_cards_total",
			Help: "Total number of cards in the collection",
		},
	)

	CollectionSoldCards = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardstash_collection_sold_cards",
			Help: "Number of cards marked sold",
		},
	)

	PortfolioCost = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardstash_portfolio_cost",
			Help: "Sum of purchase prices over unsold cards",
		},
	)

	RealizedProfit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardstash_realized_profit",
			Help: "Sum of (sale price - purchase price) over sold cards",
		},
	)

	// Gallery Metrics
	GalleryItemsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardstash_gallery_items_total",
			Help: "Number of showcase gallery items",
		},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardstash_ingest_duration_seconds",
			Help:    "Time taken to decode, scale and re-encode an upload",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	IngestFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardstash_ingest_failures_total",
			Help: "Uploads rejected because decoding or encoding failed",
		},
	)

	// Storage Metrics
	StorageWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardstash_storage_write_failures_total",
			Help: "Failed mirror writes by channel",
		},
		[]string{"channel"}, // "cards" or "gallery"
	)
)
