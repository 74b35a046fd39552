package app

import "github.com/CrestNiraj12/podrant/domain"

// LibraryService keeps per-machine episode and podcast state.
type LibraryService interface {
	IsSaved(episodeID string) bool
	ToggleSaved(episodeID string) (bool, error)
	Saved() []string

	// EpisodeVotes returns the local thumbs tally; Up/Down hold likes and dislikes.
	EpisodeVotes(episodeID string) domain.Engagement
	VoteEpisode(episodeID string, requested domain.Choice) (domain.Engagement, error)

	IsSubscribed(podcastID string) bool
	ToggleSubscription(podcastID string) (subscribed bool, subscribers int, err error)
	SubscriberCount(podcastID string) int
}

// Player plays episode audio outside the TUI.
type Player interface {
	Play(ep domain.Episode) error
	Stop() error
	NowPlaying() (domain.Episode, bool)
}
