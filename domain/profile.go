package domain

import (
	"regexp"
	"strings"
)

// Profile is a user's public profile with derived counts.
type Profile struct {
	UserID    string
	Username  string
	Bio       string
	AvatarURL string
	BannerURL string
	Followers int
	Following int
	Posts     int
}

// SuggestedUser is a profile offered on the feed with the viewer's follow state.
type SuggestedUser struct {
	Profile   Profile
	Following bool
}

// ProfileTab selects which posts a profile page lists.
type ProfileTab int

const (
	TabPosts ProfileTab = iota
	TabReplies
	TabLikes
)

func (t ProfileTab) String() string {
	switch t {
	case TabReplies:
		return "Replies"
	case TabLikes:
		return "Likes"
	default:
		return "Posts"
	}
}

// Session is the signed-in viewer.
type Session struct {
	UserID string
	Email  string
}

// SignedIn reports whether the session has a viewer.
func (s Session) SignedIn() bool {
	return s.UserID != ""
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// NormalizeUsername trims and lower-cases a username and validates its format.
func NormalizeUsername(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "@")))
	if !usernamePattern.MatchString(name) {
		return "", ErrInvalidUsername
	}
	return name, nil
}
