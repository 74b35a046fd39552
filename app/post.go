package app

import (
	"context"

	"github.com/CrestNiraj12/podrant/domain"
)

// PostService manages the social feed.
type PostService interface {
	InteractionSource

	// FeedPage returns one page of top-level posts plus their replies.
	FeedPage(ctx context.Context, page int) ([]domain.Item, error)

	// ProfilePosts returns the posts listed under a profile tab.
	ProfilePosts(ctx context.Context, userID string, tab domain.ProfileTab) ([]domain.Item, error)

	// Create publishes a post, or a reply when parentID is set.
	Create(ctx context.Context, body, parentID string) (domain.Item, error)

	// Edit updates a post owned by the viewer.
	Edit(ctx context.Context, id, body string) (domain.Item, error)

	// Delete removes a post owned by the viewer.
	Delete(ctx context.Context, id string) error

	// Like toggles the viewer's like and returns the resulting choice.
	Like(ctx context.Context, id string, current domain.Choice) (domain.Choice, error)

	// Repost toggles the viewer's repost and returns the resulting state.
	Repost(ctx context.Context, id string, reposted bool) (bool, error)
}
