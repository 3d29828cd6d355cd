package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Feed kinds used as the "kind" label.
const (
	kindHome      = "home"
	kindFollowing = "following"
	kindRecommend = "recommendations"
	kindTimeline  = "timeline"
	kindLiked     = "liked"
	kindRetweeted = "retweeted"
	kindSearch    = "search"
	kindBookmarks = "bookmarks"
	kindTrends    = "trends"
)

var (
	feedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Feed, recommendation and trend computations by kind.",
		},
		[]string{"kind"},
	)

	// stageDuration times the pipeline stages: load, signals, score, enrich, aggregate.
	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_stage_duration_seconds",
			Help:    "Duration of feed pipeline stages in seconds.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"stage"},
	)

	recommendationFallback = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_fallback_total",
			Help: "Recommendation requests served from the popularity fallback.",
		},
	)

	enrichmentMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_misses_total",
			Help: "Feed items rendered with a null user projection.",
		},
		[]string{"field"},
	)

	notificationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notifications stored, by type.",
		},
		[]string{"type"},
	)

	directoryBreakerOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "directory_breaker_open",
			Help: "1 when the user directory circuit breaker is open.",
		},
	)
)

func init() {
	prometheus.MustRegister(feedRequests, stageDuration, recommendationFallback, enrichmentMisses, notificationsCreated, directoryBreakerOpen)
}

// observeStage records the time elapsed since start under stage.
func observeStage(stage string, start time.Time) {
	stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
