package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ScrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapes_total",
			Help: "Total number of scrape runs.",
		},
		[]string{"status"}, // status: success, failure
	)

	ScrapeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrape_duration_seconds",
			Help:    "Duration of full scrape runs.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		},
	)

	BusinessesAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "businesses_accepted_total",
			Help: "Businesses accepted into result sets after dedup.",
		},
	)

	DuplicatesFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duplicates_filtered_total",
			Help: "Candidate records rejected as in-run duplicates.",
		},
	)

	ListingFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_failures_total",
			Help: "Per-listing processing failures.",
		},
		[]string{"stage"}, // stage: navigation, extraction, recovery
	)

	EnrichmentPages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_pages_analyzed_total",
			Help: "Website pages analyzed during contact enrichment.",
		},
	)
)
