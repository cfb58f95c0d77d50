package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_http_requests_total",
		Help: "HTTP requests handled, by method, route and status.",
	}, []string{"method", "path", "status"})

	// SubmissionsAccepted counts reports that reached durable storage.
	SubmissionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedback_submissions_accepted_total",
		Help: "Report submissions accepted and stored.",
	})

	// SubmissionsRejected counts rejected submissions by reason.
	SubmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_submissions_rejected_total",
		Help: "Report submissions rejected, by rejection reason.",
	}, []string{"reason"})
)

// Middleware records per-request counters.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		requestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}
