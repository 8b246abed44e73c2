// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communityhub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "communityhub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RegistrationsTotal counts successful user registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "communityhub_registrations_total",
		Help: "Total number of successful user registrations",
	})

	// PostsCreatedTotal counts posts created, labeled by community.
	PostsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communityhub_posts_created_total",
		Help: "Total number of posts created",
	}, []string{"community_id"})

	// CommentsCreatedTotal counts comments created by kind (top_level or reply).
	CommentsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communityhub_comments_created_total",
		Help: "Total number of comments created",
	}, []string{"kind"})

	// MembershipEventsTotal counts community join and leave events.
	MembershipEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communityhub_membership_events_total",
		Help: "Total number of community membership changes",
	}, []string{"event"})

	// FeedRequestsTotal counts feed reads.
	FeedRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "communityhub_feed_requests_total",
		Help: "Total number of feed requests served",
	})

	// ProfilePicUploadsTotal counts profile picture uploads by outcome.
	ProfilePicUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communityhub_profile_pic_uploads_total",
		Help: "Total number of profile picture uploads",
	}, []string{"outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
