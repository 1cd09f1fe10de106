// Package transport provides http.RoundTripper middlewares for the outbound
// calls made to the catalog and posting services.
package transport

import (
	"net/http"
	"productbot/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// RoundTripperFunc allows using a function as an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(r).
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// WithLogger wraps next and writes a structured access log line for every
// outbound request using the logger carried by the request context. Query
// strings are not logged since signed requests may carry credentials there.
func WithLogger(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		ctx := r.Context()
		start := time.Now()

		resp, err := next.RoundTrip(r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("host", r.URL.Host),
			zap.String("path", r.URL.Path),
			zap.Float64("latency", time.Since(start).Seconds()),
		}
		if err != nil {
			logger.Warn(ctx, "Outbound request failed", append(fields, zap.Error(err))...)

			return nil, err //nolint: wrapcheck
		}

		logger.Debug(ctx, "Outbound request", append(fields, zap.Int("status_code", resp.StatusCode))...)

		return resp, nil
	})
}

// NewClient returns an http.Client with the given timeout whose transport
// logs every request.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: WithLogger(http.DefaultTransport),
	}
}
