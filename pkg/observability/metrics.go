package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "photoevent",
		Name:      "match_requests_total",
		Help:      "Total number of selfie match requests",
	}, []string{"outcome"})

	MatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "photoevent",
		Name:      "match_duration_seconds",
		Help:      "End-to-end duration of a match request",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	})

	MatchCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "photoevent",
		Name:      "match_candidates",
		Help:      "Number of candidate photos considered per match request",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	MatchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "photoevent",
		Name:      "match_results",
		Help:      "Number of photos returned per match request",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	FingerprintsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "photoevent",
		Name:      "fingerprints_extracted_total",
		Help:      "Total fingerprint extractions by strategy and outcome",
	}, []string{"strategy", "outcome"})

	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "photoevent",
		Name:      "fingerprint_extraction_duration_seconds",
		Help:      "Duration of fingerprint extraction",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"strategy"})

	PhotosUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "photoevent",
		Name:      "photos_uploaded_total",
		Help:      "Total photos uploaded",
	})

	WorkerQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "photoevent",
		Name:      "fingerprint_queue_depth",
		Help:      "Photos waiting for fingerprint extraction",
	})
)
