package main

import (
	"context"
	"productbot/internal/announcer"
	"productbot/internal/config"
	"productbot/internal/finder"
	"productbot/pkg/catalog"
	"productbot/pkg/catalog/paapi"
	"productbot/pkg/logger"
	"productbot/pkg/metrics"
	"productbot/pkg/poster"
	"productbot/pkg/poster/xapi"
	"productbot/pkg/transport"

	"go.uber.org/zap"
)

type dependencies struct {
	catalog          catalog.Client
	poster           poster.Client
	finderOptions    finder.Options
	announcerOptions announcer.Options
}

// getDependencies builds the API clients and component options from cfg. The
// returned function flushes metrics and must be called once the run is over.
func getDependencies(ctx context.Context, cfg *config.Config) (dependencies, func()) {
	deps := dependencies{
		catalog: paapi.New(transport.NewClient(cfg.Catalog.Timeout), paapi.Options{
			AccessKey:   cfg.Catalog.AccessKey,
			SecretKey:   cfg.Catalog.SecretKey,
			PartnerTag:  cfg.Catalog.PartnerTag,
			Host:        cfg.Catalog.Host,
			Region:      cfg.Catalog.Region,
			Marketplace: cfg.Catalog.Marketplace,
		}),
		poster: xapi.New(transport.NewClient(cfg.Poster.Timeout), cfg.Poster.Endpoint, xapi.Credentials{
			ConsumerKey:       cfg.Poster.ConsumerKey,
			ConsumerSecret:    cfg.Poster.ConsumerSecret,
			AccessToken:       cfg.Poster.AccessToken,
			AccessTokenSecret: cfg.Poster.AccessTokenSecret,
		}),
		finderOptions:    finder.NewOptions(cfg),
		announcerOptions: announcer.NewOptions(cfg),
	}

	recorder, err := metrics.New()
	if err != nil {
		logger.Warn(ctx, "could not create metrics recorder, metrics are disabled", zap.Error(err))

		return deps, func() {}
	}
	deps.finderOptions.MeterProvider = recorder.MeterProvider()
	deps.announcerOptions.MeterProvider = recorder.MeterProvider()

	return deps, func() {
		if path := cfg.Metrics.TextfilePath; path != "" {
			if err := recorder.WriteTextfile(path); err != nil {
				logger.Warn(ctx, "could not write metrics textfile", zap.String("path", path), zap.Error(err))
			} else {
				logger.Debug(ctx, "metrics written", zap.String("path", path))
			}
		}
		if err := recorder.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "could not shutdown metrics recorder", zap.Error(err))
		}
	}
}
