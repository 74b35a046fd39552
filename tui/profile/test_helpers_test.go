package profile

import (
	"context"
	"time"

	"github.com/CrestNiraj12/podrant/app"
	"github.com/CrestNiraj12/podrant/domain"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type stubPosts struct {
	byTab map[domain.ProfileTab][]domain.Item
	calls []domain.ProfileTab
}

func (s *stubPosts) Interactions(context.Context, []string) (domain.Snapshot, error) {
	return domain.Snapshot{Viewer: "me", Counts: map[string]domain.Counts{}}, nil
}
func (s *stubPosts) FeedPage(context.Context, int) ([]domain.Item, error) { return nil, nil }
func (s *stubPosts) ProfilePosts(_ context.Context, _ string, tab domain.ProfileTab) ([]domain.Item, error) {
	s.calls = append(s.calls, tab)
	return s.byTab[tab], nil
}
func (s *stubPosts) Create(_ context.Context, body, parentID string) (domain.Item, error) {
	return domain.Item{ID: "new", Kind: domain.KindPost, Body: body, ParentID: parentID, AuthorID: "me"}, nil
}
func (s *stubPosts) Edit(context.Context, string, string) (domain.Item, error) {
	return domain.Item{}, nil
}
func (s *stubPosts) Delete(context.Context, string) error { return nil }
func (s *stubPosts) Like(_ context.Context, _ string, current domain.Choice) (domain.Choice, error) {
	return domain.Next(current, domain.ChoiceUp), nil
}
func (s *stubPosts) Repost(_ context.Context, _ string, reposted bool) (bool, error) {
	return !reposted, nil
}

type stubAccounts struct {
	profiles  map[string]domain.Profile
	following bool
	followErr error
	taken     map[string]bool
	updates   []app.ProfileUpdate
	uploads   []string
	created   []string
	uploadErr error
}

func (s *stubAccounts) Session() domain.Session { return domain.Session{UserID: "me"} }
func (s *stubAccounts) CurrentProfile(context.Context) (domain.Profile, error) {
	p, ok := s.profiles["me"]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}
func (s *stubAccounts) ProfileByUsername(_ context.Context, username string) (domain.Profile, error) {
	for _, p := range s.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return domain.Profile{}, domain.ErrNotFound
}
func (s *stubAccounts) UsernameAvailable(_ context.Context, username string) (bool, error) {
	return !s.taken[username], nil
}
func (s *stubAccounts) CreateProfile(_ context.Context, username string) (domain.Profile, error) {
	if s.taken[username] {
		return domain.Profile{}, domain.ErrUsernameTaken
	}
	s.created = append(s.created, username)
	return domain.Profile{UserID: "me", Username: username}, nil
}
func (s *stubAccounts) UpdateProfile(_ context.Context, u app.ProfileUpdate) (domain.Profile, error) {
	s.updates = append(s.updates, u)
	p := s.profiles["me"]
	if u.Username != nil {
		p.Username = *u.Username
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	return domain.Profile{UserID: p.UserID, Username: p.Username, Bio: p.Bio}, nil
}
func (s *stubAccounts) UploadImage(_ context.Context, kind app.ImageKind, path string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads = append(s.uploads, string(kind)+":"+path)
	return "https://cdn.example/" + string(kind), nil
}
func (s *stubAccounts) IsFollowing(context.Context, string) (bool, error) { return s.following, nil }
func (s *stubAccounts) Follow(context.Context, string) error              { return s.followErr }
func (s *stubAccounts) Unfollow(context.Context, string) error            { return s.followErr }
func (s *stubAccounts) SuggestedUsers(context.Context, int) ([]domain.SuggestedUser, error) {
	return nil, nil
}

func newAccounts() *stubAccounts {
	return &stubAccounts{profiles: map[string]domain.Profile{
		"me":  {UserID: "me", Username: "mia", Bio: "hello", Followers: 3, Following: 2, Posts: 1},
		"ana": {UserID: "ana", Username: "ana", Followers: 10},
	}}
}

func post(id, author string) domain.Item {
	return domain.Item{ID: id, Kind: domain.KindPost, AuthorID: author, Username: author, Body: "body " + id, CreatedAt: base}
}
