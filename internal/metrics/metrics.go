// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes recorded by LoginAttempt.
const (
	LoginSuccess  = "success"
	LoginFailure  = "failure"
	LoginLocked   = "locked"
	LoginInactive = "inactive"
	LoginUnknown  = "unknown_user"
)

var (
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	accountLockouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_account_lockouts_total",
			Help: "Accounts locked after repeated failed logins",
		},
	)

	bookingSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_workflow_steps_total",
			Help: "Completed booking workflow steps",
		},
		[]string{"step"},
	)

	statusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_status_changes_total",
			Help: "Booking status changes applied by staff",
		},
		[]string{"status"},
	)

	auditPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_audit_publish_failures_total",
			Help: "Audit events that could not be handed to the broker",
		},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func LoginAttempt(outcome string) { loginAttempts.WithLabelValues(outcome).Inc() }

func AccountLocked() { accountLockouts.Inc() }

// BookingStep counts a finished step of the booking workflow: "started",
// "services", "submitted".
func BookingStep(step string) { bookingSteps.WithLabelValues(step).Inc() }

func StatusChanged(status string) { statusChanges.WithLabelValues(status).Inc() }

func AuditPublishFailed() { auditPublishFailures.Inc() }

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// Middleware observes request latency labelled by the matched route
// template, so ids in the path do not explode cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			requestDuration.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
