// Package observability provides application metrics beyond the per-route
// HTTP metrics registered by the server.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ruche_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// RateLimitRejections counts requests rejected by the rate limiter,
	// labeled by the protected resource.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ruche_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"resource"})

	// ContentCreated counts created content by type (post, comment, like).
	ContentCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ruche_content_created_total",
		Help: "Total number of content items created by type",
	}, []string{"type"})

	// AuthFailures counts failed authentication attempts by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ruche_auth_failures_total",
		Help: "Total number of failed authentication attempts by reason",
	}, []string{"reason"})
)

// Content type labels for ContentCreated.
const (
	ContentPost    = "post"
	ContentComment = "comment"
	ContentLike    = "like"
)
