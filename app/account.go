package app

import (
	"context"

	"github.com/CrestNiraj12/podrant/domain"
)

// ImageKind selects which profile image an upload replaces.
type ImageKind string

const (
	ImageAvatar ImageKind = "avatar"
	ImageBanner ImageKind = "banner"
)

// ProfileUpdate carries optional profile changes; nil fields are left alone.
type ProfileUpdate struct {
	Username *string
	Bio      *string
}

// AccountService provides profiles, follows and the signed-in viewer.
type AccountService interface {
	// Session returns the signed-in viewer, zero when signed out.
	Session() domain.Session

	// CurrentProfile returns the viewer's profile or domain.ErrNotFound
	// when the username has not been set up yet.
	CurrentProfile(ctx context.Context) (domain.Profile, error)

	// ProfileByUsername returns a profile with follower, following and post counts.
	ProfileByUsername(ctx context.Context, username string) (domain.Profile, error)

	// UsernameAvailable reports whether no profile uses the username.
	UsernameAvailable(ctx context.Context, username string) (bool, error)

	// CreateProfile sets up the viewer's profile with a unique username.
	CreateProfile(ctx context.Context, username string) (domain.Profile, error)

	// UpdateProfile changes username and bio, enforcing username uniqueness.
	UpdateProfile(ctx context.Context, update ProfileUpdate) (domain.Profile, error)

	// UploadImage stores an avatar or banner and points the profile at it.
	UploadImage(ctx context.Context, kind ImageKind, path string) (string, error)

	// IsFollowing reports whether the viewer follows userID.
	IsFollowing(ctx context.Context, userID string) (bool, error)

	// Follow and Unfollow change the viewer's relationship to userID.
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error

	// SuggestedUsers returns up to limit other profiles with follow state.
	SuggestedUsers(ctx context.Context, limit int) ([]domain.SuggestedUser, error)
}
