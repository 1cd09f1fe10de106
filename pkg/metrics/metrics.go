// Package metrics records run metrics with OpenTelemetry and exposes them in the
// Prometheus text format. A run is a short-lived process, so instead of serving
// a scrape endpoint the registry is written to a node_exporter textfile at exit.
package metrics

import (
	"context"
	"fmt"
	"strings"

	"productbot/pkg/serrors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/otlptranslator"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const (
	// OutcomeKey is the attribute key carrying the result of an operation.
	OutcomeKey = "outcome"

	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

// Outcome returns the outcome attribute for err: OutcomeOK for nil, the
// lower-cased semantic kind when err carries one, OutcomeError otherwise.
func Outcome(err error) attribute.KeyValue {
	if err == nil {
		return attribute.String(OutcomeKey, OutcomeOK)
	}
	if k := serrors.KindOf(err); k != nil {
		return attribute.String(OutcomeKey, strings.ToLower(k.Error()))
	}

	return attribute.String(OutcomeKey, OutcomeError)
}

// Recorder owns a MeterProvider whose instruments are exported into a private
// Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider
}

// New creates a Recorder with an empty registry. Instrument names are
// translated to classic Prometheus names (dots become underscores, unit and
// _total suffixes are added) so the textfile collector can parse them.
func New() (*Recorder, error) {
	registry := prometheus.NewRegistry()
	exp, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithTranslationStrategy(otlptranslator.UnderscoreEscapingWithSuffixes),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return &Recorder{
		registry: registry,
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)),
	}, nil
}

// MeterProvider returns the provider components create their instruments from.
func (r *Recorder) MeterProvider() metric.MeterProvider {
	return r.provider
}

// WriteTextfile gathers all metrics and atomically writes them to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}

	return nil
}

// Shutdown releases the provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if err := r.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shut down meter provider: %w", err)
	}

	return nil
}
