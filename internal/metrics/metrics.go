// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookshop"

var (
	// HTTPRequestDuration measures request latency.
	// Labels: method, route (gin full path), status
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route", "status"})

	// RatingsTotal counts stored ratings.
	// Labels: result (created, updated, removed)
	RatingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "ratings_total",
		Help:      "Book ratings written, by result",
	}, []string{"result"})

	// CommentLikesTotal counts like operations.
	// Labels: action (liked, unliked, unchanged)
	CommentLikesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "comment_likes_total",
		Help:      "Comment like operations, by action",
	}, []string{"action"})

	// PageCacheTotal counts page cache lookups.
	// Labels: result (hit, miss, error)
	PageCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Page cache lookups, by result",
	}, []string{"result"})

	// ReconciledRowsTotal counts rows rewritten by the reconcile job.
	// Labels: aggregate (cached_rate, cached_like)
	ReconciledRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "reconciled_rows_total",
		Help:      "Rows touched by aggregate reconciliation",
	}, []string{"aggregate"})

	// ExpiredTokensDeleted counts refresh tokens removed by the cleanup job.
	ExpiredTokensDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "expired_tokens_deleted_total",
		Help:      "Expired or revoked refresh tokens deleted",
	})
)
