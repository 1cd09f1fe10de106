// Package finder searches the product catalog and selects one candidate to announce.
package finder

import (
	"context"
	"math/rand/v2"
	"productbot/internal/config"
	"productbot/pkg/catalog"
	"productbot/pkg/domain"
	"productbot/pkg/logger"
	"productbot/pkg/metrics"
	"productbot/pkg/serrors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// ErrSearchFailure marks every failure absorbed by Find.
var ErrSearchFailure = serrors.NewKind("SEARCH_FAILURE")

// Options configure how the catalog is searched and how a candidate is picked.
type Options struct {
	// ItemCount is the number of candidates requested; values outside
	// 1..catalog.MaxItemCount are clamped to catalog.MaxItemCount.
	ItemCount int
	// SortBy is the ordering requested from the catalog.
	SortBy catalog.SortBy
	// Rand picks the candidate. Nil uses the global source.
	Rand *rand.Rand
	// MeterProvider creates the search instruments. Nil disables metrics.
	MeterProvider metric.MeterProvider
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		ItemCount: cfg.Catalog.ItemCount,
		SortBy:    catalog.SortByRating,
	}
}

type finder struct {
	options  Options
	client   catalog.Client
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// Find runs one search for keyword and returns a uniformly random candidate,
// or nil when the keyword is empty, the search fails or nothing matches.
func (f *finder) Find(ctx context.Context, keyword string) *domain.Product {
	keyword = strings.TrimSpace(keyword)
	ctx = logger.WithFields(ctx, zap.String("keyword", keyword))

	if keyword == "" {
		err := serrors.With(serrors.ErrBadRequest, "keyword is empty")
		f.requests.Add(ctx, 1, metric.WithAttributes(metrics.Outcome(err)))
		logger.Error(ctx, "could not search catalog", zap.Error(serrors.Wrap(ErrSearchFailure, err, "search skipped")))

		return nil
	}

	start := time.Now()
	items, err := f.client.SearchItems(ctx, catalog.SearchRequest{
		Keywords:  keyword,
		ItemCount: f.options.ItemCount,
		SortBy:    f.options.SortBy,
		Resources: []catalog.Resource{catalog.ResourceTitle, catalog.ResourceURL, catalog.ResourcePrice},
	})
	f.duration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		f.requests.Add(ctx, 1, metric.WithAttributes(metrics.Outcome(err)))
		logger.Error(ctx, "could not search catalog", zap.Error(serrors.Wrap(ErrSearchFailure, err, "search failed")))

		return nil
	}

	if len(items) == 0 {
		f.requests.Add(ctx, 1, metric.WithAttributes(attribute.String(metrics.OutcomeKey, metrics.OutcomeEmpty)))
		logger.Info(ctx, "no product found in catalog")

		return nil
	}
	f.requests.Add(ctx, 1, metric.WithAttributes(metrics.Outcome(nil)))

	item := items[f.pick(len(items))]
	if logger.IsDebug(ctx) {
		ids := make([]string, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		logger.Debug(ctx, "selected candidate", zap.String("id", item.ID), zap.Strings("candidates", ids))
	}
	product := toProduct(item)

	return &product
}

func (f *finder) pick(n int) int {
	if f.options.Rand != nil {
		return f.options.Rand.IntN(n)
	}

	return rand.IntN(n) //nolint: gosec
}

// toProduct extracts the announced fields, substituting the domain defaults
// for anything the catalog did not return.
func toProduct(item catalog.Item) domain.Product {
	return domain.Product{
		Title: valueOr(item.Title, domain.NoTitle),
		URL:   valueOr(item.URL, domain.NoURL),
		Price: valueOr(item.Price, domain.NoPrice),
	}
}

func valueOr(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}

	return *s
}

// New creates a Finder searching client with the given options.
func New(client catalog.Client, options Options) Finder {
	if options.ItemCount <= 0 || options.ItemCount > catalog.MaxItemCount {
		options.ItemCount = catalog.MaxItemCount
	}
	if options.SortBy == "" {
		options.SortBy = catalog.SortByRating
	}
	mp := options.MeterProvider
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	meter := mp.Meter("productbot/finder")

	f := &finder{options: options, client: client}
	var err error
	if f.requests, err = meter.Int64Counter("productbot.search.requests",
		metric.WithDescription("Catalog searches by outcome")); err != nil {
		f.requests = noop.Int64Counter{}
	}
	if f.duration, err = meter.Float64Histogram("productbot.search.duration",
		metric.WithDescription("Catalog search latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...)); err != nil {
		f.duration = noop.Float64Histogram{}
	}

	return f
}
