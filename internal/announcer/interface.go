package announcer

import (
	"context"
	"productbot/pkg/domain"
)

// Announcer publishes a product as a single post. A nil product is skipped;
// failures are logged, never returned.
//
//go:generate mockgen -package mockannouncer -source=interface.go -destination=mock/mockannouncer.go *
type Announcer interface {
	Publish(ctx context.Context, product *domain.Product)
}
