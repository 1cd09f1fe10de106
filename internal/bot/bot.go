// Package bot runs a single find-then-publish pass.
package bot

import (
	"context"
	"productbot/internal/announcer"
	"productbot/internal/finder"
	"productbot/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Run searches for one product matching keyword and publishes it. It never
// fails: both steps absorb their own errors. Publish is called even when
// nothing was found so the skip is logged where posting happens.
func Run(ctx context.Context, f finder.Finder, a announcer.Announcer, keyword string) {
	ctx = logger.WithFields(ctx, zap.String("runID", uuid.NewString()))

	logger.Info(ctx, "starting product search", zap.String("keyword", keyword))
	product := f.Find(ctx, keyword)

	if product != nil {
		logger.Info(ctx, "found product", zap.String("title", product.Title))
		logger.Info(ctx, "starting post")
	} else {
		logger.Info(ctx, "no product to post, finishing run")
	}

	a.Publish(ctx, product)
}
