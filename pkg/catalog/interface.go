// Package catalog defines the interface and data types used to search a
// product catalog for candidates to announce.
package catalog

import "context"

// MaxItemCount is the largest number of candidates a single search may return.
const MaxItemCount = 10

// SortBy selects the ordering of search results.
type SortBy string

const (
	// SortByRating orders candidates by average customer rating, best first.
	SortByRating SortBy = "rating"
	// SortByRelevance leaves the ordering to the catalog.
	SortByRelevance SortBy = "relevance"
)

// Resource names a field the search should return for every candidate.
type Resource string

const (
	ResourceTitle Resource = "title"
	ResourceURL   Resource = "url"
	ResourcePrice Resource = "price"
)

// SearchRequest describes a single keyword search.
type SearchRequest struct {
	Keywords  string     // Keywords is the free-text search phrase.
	ItemCount int        // ItemCount is the number of candidates to return, 1 to MaxItemCount.
	SortBy    SortBy     // SortBy is the requested ordering.
	Resources []Resource // Resources lists the fields to return.
}

// Item is a candidate returned by a search. Fields the catalog did not return,
// at any level of its response nesting, are nil.
type Item struct {
	ID    string  // ID is the catalog identifier (ASIN).
	Title *string // Title is the display title.
	URL   *string // URL is the detail page URL.
	Price *string // Price is the display amount of the first offer listing.
}

// Client is the abstraction for catalog search services.
//
//go:generate mockgen -package mockcatalog -source=interface.go -destination=mock/mockcatalog.go *
type Client interface {
	// SearchItems runs one search and returns the candidates in catalog order.
	// An empty result is not an error.
	SearchItems(ctx context.Context, req SearchRequest) ([]Item, error)
}
