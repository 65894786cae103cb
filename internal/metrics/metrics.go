package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalidInput    = "invalid_input"
	OutcomeDuplicateEmail  = "duplicate_email"
	OutcomeInvalidToken    = "invalid_token"
	OutcomeTokenExpired    = "token_expired"
	OutcomeAlreadyActive   = "already_activated"
	OutcomeInternalFailure = "internal_error"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialnet_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	signups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_signups_total",
			Help: "Signup attempts by outcome",
		},
		[]string{"outcome"},
	)
	activations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_activations_total",
			Help: "Account activation attempts by outcome",
		},
		[]string{"outcome"},
	)
	verificationEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_verification_emails_total",
			Help: "Verification emails by delivery result",
		},
		[]string{"sent"},
	)
)

// RecordSignup counts a signup attempt.
func RecordSignup(outcome string) {
	signups.WithLabelValues(outcome).Inc()
}

// RecordActivation counts an activation attempt.
func RecordActivation(outcome string) {
	activations.WithLabelValues(outcome).Inc()
}

// RecordVerificationEmail counts a verification email send.
func RecordVerificationEmail(sent bool) {
	verificationEmails.WithLabelValues(strconv.FormatBool(sent)).Inc()
}

// Middleware records request duration labelled by the matched route pattern.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			httpRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
