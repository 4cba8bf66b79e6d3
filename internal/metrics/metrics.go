package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set groups the service's collectors on a private registry so tests can
// build isolated instances. All methods are nil-safe; a nil *Set disables
// instrumentation without guards at the call sites.
type Set struct {
	registry *prometheus.Registry

	granjaMutations *prometheus.CounterVec
	loginAttempts   *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
}

func NewSet() *Set {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	return &Set{
		registry: reg,
		granjaMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "granjas_mutations_total",
			Help: "Committed granja mutations by action.",
		}, []string{"accion"}),
		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Login attempts by outcome (ok, rejected, throttled).",
		}, []string{"result"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method and status.",
		}, []string{"method", "status"}),
	}
}

// RecordMutation counts a committed granja mutation. accion matches the
// audit action values (INSERT, UPDATE, DELETE).
func (s *Set) RecordMutation(accion string) {
	if s == nil {
		return
	}
	s.granjaMutations.WithLabelValues(accion).Inc()
}

func (s *Set) RecordLogin(result string) {
	if s == nil {
		return
	}
	s.loginAttempts.WithLabelValues(result).Inc()
}

func (s *Set) RecordHTTPRequest(method, status string) {
	if s == nil {
		return
	}
	s.httpRequests.WithLabelValues(method, status).Inc()
}

// Middleware counts every request by method and final status.
func (s *Set) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.RecordHTTPRequest(c.Request.Method, strconv.Itoa(c.Writer.Status()))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (s *Set) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
