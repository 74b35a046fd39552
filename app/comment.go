package app

import (
	"context"

	"github.com/CrestNiraj12/podrant/domain"
)

// InteractionSource resolves counts and viewer choices for a set of items
// with batched lookups.
type InteractionSource interface {
	Interactions(ctx context.Context, ids []string) (domain.Snapshot, error)
}

// CommentService manages episode comments and their votes.
type CommentService interface {
	InteractionSource

	// Comments returns every comment on an episode as a flat list.
	Comments(ctx context.Context, episodeID string) ([]domain.Item, error)

	// AddComment posts a comment, or a reply when parentID is set.
	AddComment(ctx context.Context, episodeID, parentID, body string) (domain.Item, error)

	// EditComment updates a comment owned by the viewer.
	EditComment(ctx context.Context, id, body string) (domain.Item, error)

	// DeleteComment removes a comment owned by the viewer.
	DeleteComment(ctx context.Context, id string) error

	// Vote applies the toggle from current towards requested and returns
	// the resulting choice.
	Vote(ctx context.Context, commentID string, current, requested domain.Choice) (domain.Choice, error)
}
