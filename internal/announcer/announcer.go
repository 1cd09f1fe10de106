// Package announcer formats a selected product and publishes it to the posting service.
package announcer

import (
	"context"
	"productbot/internal/config"
	"productbot/pkg/domain"
	"productbot/pkg/logger"
	"productbot/pkg/metrics"
	"productbot/pkg/poster"
	"productbot/pkg/serrors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// ErrPostFailure marks every failure absorbed by Publish.
var ErrPostFailure = serrors.NewKind("POST_FAILURE")

// Options configure the post text.
type Options struct {
	// Hashtags are appended on the last line of every post.
	Hashtags []string
	// MaxLength is the service length limit; longer titles are shortened.
	MaxLength int
	// MeterProvider creates the post instruments. Nil disables metrics.
	MeterProvider metric.MeterProvider
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Hashtags:  cfg.Poster.Hashtags,
		MaxLength: cfg.Poster.MaxLength,
	}
}

type announcer struct {
	options Options
	client  poster.Client
	posts   metric.Int64Counter
}

// Publish composes the post for product and submits it once. A nil product
// is logged and skipped without contacting the posting service.
func (a *announcer) Publish(ctx context.Context, product *domain.Product) {
	if product == nil {
		a.posts.Add(ctx, 1, metric.WithAttributes(attribute.String(metrics.OutcomeKey, metrics.OutcomeSkipped)))
		logger.Info(ctx, "no product information, skipping post")

		return
	}

	text := Compose(*product, a.options.Hashtags, a.options.MaxLength)
	res, err := a.client.CreatePost(ctx, text)
	a.posts.Add(ctx, 1, metric.WithAttributes(metrics.Outcome(err)))
	if err != nil {
		logger.Error(ctx, "could not publish post",
			zap.String("title", product.Title),
			zap.Error(serrors.Wrap(ErrPostFailure, err, "post failed")))

		return
	}

	logger.Info(ctx, "post published", zap.String("postID", res.ID))
}

// New creates an Announcer posting through client.
func New(client poster.Client, options Options) Announcer {
	mp := options.MeterProvider
	if mp == nil {
		mp = noop.NewMeterProvider()
	}

	a := &announcer{options: options, client: client}
	var err error
	if a.posts, err = mp.Meter("productbot/announcer").Int64Counter("productbot.posts",
		metric.WithDescription("Post attempts by outcome")); err != nil {
		a.posts = noop.Int64Counter{}
	}

	return a
}
