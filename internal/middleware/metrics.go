package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the service.
var (
	// LifecycleEvents counts lifecycle rule engine outcomes by entity and action.
	LifecycleEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datagov_lifecycle_events_total",
		Help: "Total lifecycle operations applied, by entity and action.",
	}, []string{"entity", "action"})

	// LifecycleViolations counts rejected operations by error code.
	LifecycleViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datagov_lifecycle_violations_total",
		Help: "Total lifecycle operations rejected, by error code.",
	}, []string{"code"})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datagov_redis_errors_total",
		Help: "Total Redis errors encountered, by command.",
	}, []string{"command"})
)

var (
	promOnce sync.Once
	promInst *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the shared HTTP metrics collector. The underlying
// collectors register with the default Prometheus registry, so the instance is
// created once and reused across server instances.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInst = fiberprometheus.New(serviceName)
	})
	return promInst
}

// MetricsMiddleware returns the request instrumentation middleware for the
// given collector.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
