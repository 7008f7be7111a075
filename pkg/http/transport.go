package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
)

// tokenLength is the shortest path segment treated as an interaction or webhook token.
const tokenLength = 32

// MetricsRoundTripper is an http.RoundTripper that collects metrics.
type MetricsRoundTripper struct {
	next    http.RoundTripper
	metrics *Metrics
	log     *logrus.Logger
	service string
}

// RoundTripperOption is a function that configures a MetricsRoundTripper.
type RoundTripperOption func(*MetricsRoundTripper)

// WithService sets the service name for the MetricsRoundTripper.
func WithService(service string) RoundTripperOption {
	return func(t *MetricsRoundTripper) {
		t.service = service
	}
}

// NewMetricsRoundTripper creates a new metrics-collecting round tripper.
func NewMetricsRoundTripper(next http.RoundTripper, metrics *Metrics, log *logrus.Logger, opts ...RoundTripperOption) *MetricsRoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	t := &MetricsRoundTripper{
		next:    next,
		metrics: metrics,
		log:     log,
		service: "discord",
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// NewClient returns an HTTP client whose requests are measured by a MetricsRoundTripper.
func NewClient(timeout time.Duration, metrics *Metrics, log *logrus.Logger, opts ...RoundTripperOption) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewMetricsRoundTripper(nil, metrics, log, opts...),
	}
}

// RoundTrip implements the http.RoundTripper interface.
func (t *MetricsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var (
		startTime = time.Now()
		operation = req.Method + " " + Route(req.URL.Path)
	)

	t.metrics.RecordAPIRequest(t.service, operation)

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(startTime).Seconds()
	t.metrics.ObserveAPIRequestDuration(t.service, operation, duration)

	if err != nil {
		t.log.WithFields(logrus.Fields{
			"service":   t.service,
			"operation": operation,
			"error":     err,
			"duration":  duration,
		}).Error("API request failed")

		t.metrics.RecordAPIError(t.service, operation, "network_error")

		return nil, err
	}

	if resp.StatusCode >= 400 {
		t.log.WithFields(logrus.Fields{
			"service":     t.service,
			"operation":   operation,
			"status_code": resp.StatusCode,
			"duration":    duration,
		}).Warn("API request returned error status")

		t.metrics.RecordAPIError(t.service, operation, fmt.Sprintf("http_%d", resp.StatusCode))
	}

	// Discord reports the remaining requests of the route's bucket.
	if rateLimit := resp.Header.Get("X-RateLimit-Remaining"); rateLimit != "" {
		if remaining, err := strconv.ParseFloat(rateLimit, 64); err == nil {
			t.metrics.SetRateLimitRemaining(t.service, operation, remaining)
		}
	}

	return resp, nil
}

// Route reduces a request path to its route template so metric labels stay bounded.
// Snowflake IDs become ":id" and interaction or webhook tokens become ":token".
func Route(path string) string {
	segments := strings.Split(path, "/")

	for i, segment := range segments {
		switch {
		case segment == "":
		case isSnowflake(segment):
			segments[i] = ":id"
		case len(segment) >= tokenLength:
			segments[i] = ":token"
		}
	}

	return strings.Join(segments, "/")
}

func isSnowflake(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}
