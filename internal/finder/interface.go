package finder

import (
	"context"
	"productbot/pkg/domain"
)

// Finder picks one product matching a keyword. A nil result means nothing
// could be found; failures are logged, never returned.
//
//go:generate mockgen -package mockfinder -source=interface.go -destination=mock/mockfinder.go *
type Finder interface {
	Find(ctx context.Context, keyword string) *domain.Product
}
