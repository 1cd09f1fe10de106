// Package poster defines the interface used to publish a text post to a
// social media service.
package poster

import "context"

// PostRes represents the response of a successful post.
type PostRes struct {
	ID string // ID is the identifier the service assigned to the post.
}

// Client is the abstraction for posting services.
//
//go:generate mockgen -package mockposter -source=interface.go -destination=mock/mockposter.go *
type Client interface {
	// CreatePost publishes text as a single post on behalf of the
	// authenticated user.
	CreatePost(ctx context.Context, text string) (PostRes, error)
}
