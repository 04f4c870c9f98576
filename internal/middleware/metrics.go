package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "senseshare_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// AnalysisRequests counts analysis gateway invocations by outcome.
	AnalysisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "senseshare_analysis_requests_total",
		Help: "Total number of analysis gateway requests",
	}, []string{"kind", "outcome"})

	// FeedRefreshes counts full post-list refetches by trigger
	// ("reconcile" for ordinary fetches, "compensate" for failure recovery).
	FeedRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "senseshare_feed_refreshes_total",
		Help: "Total number of full feed refetches",
	}, []string{"trigger"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware adapts the fiberprometheus middleware to a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
