package app

import (
	"context"

	"github.com/CrestNiraj12/podrant/domain"
)

// PodcastService reads shows and episodes from the metadata provider.
type PodcastService interface {
	// Genres returns discovery filters, falling back to a default list.
	Genres(ctx context.Context) ([]domain.Genre, error)

	// BestPodcasts returns one page of shows for a genre (or all).
	BestPodcasts(ctx context.Context, genreID string, page int) ([]domain.Podcast, error)

	// Search returns shows matching a free-text query.
	Search(ctx context.Context, query string) ([]domain.Podcast, error)

	// Podcast returns a single show.
	Podcast(ctx context.Context, id string) (domain.Podcast, error)

	// Episodes returns the episodes of a show.
	Episodes(ctx context.Context, podcastID string) ([]domain.Episode, error)

	// EpisodesByIDs resolves saved episode IDs. Unknown IDs are skipped.
	EpisodesByIDs(ctx context.Context, ids []string) ([]domain.Episode, error)
}
