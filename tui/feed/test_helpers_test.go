package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CrestNiraj12/podrant/app"
	"github.com/CrestNiraj12/podrant/domain"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type stubPosts struct {
	pages  [][]domain.Item
	likes  []string
	failOn string
}

func (s *stubPosts) Interactions(_ context.Context, ids []string) (domain.Snapshot, error) {
	return domain.Snapshot{Viewer: "me", Counts: map[string]domain.Counts{}}, nil
}
func (s *stubPosts) FeedPage(_ context.Context, page int) ([]domain.Item, error) {
	if page > len(s.pages) {
		return nil, nil
	}
	return s.pages[page-1], nil
}
func (s *stubPosts) ProfilePosts(context.Context, string, domain.ProfileTab) ([]domain.Item, error) {
	return nil, nil
}
func (s *stubPosts) Create(_ context.Context, body, parentID string) (domain.Item, error) {
	return domain.Item{ID: "new", Kind: domain.KindPost, Body: body, ParentID: parentID, AuthorID: "me", Username: "me"}, nil
}
func (s *stubPosts) Edit(context.Context, string, string) (domain.Item, error) {
	return domain.Item{}, nil
}
func (s *stubPosts) Delete(context.Context, string) error { return nil }
func (s *stubPosts) Like(_ context.Context, id string, current domain.Choice) (domain.Choice, error) {
	if id == s.failOn {
		return current, errors.New("like failed")
	}
	s.likes = append(s.likes, id)
	return domain.Next(current, domain.ChoiceUp), nil
}
func (s *stubPosts) Repost(_ context.Context, _ string, reposted bool) (bool, error) {
	return !reposted, nil
}

type stubAccounts struct {
	followErr error
	follows   []string
}

func (s *stubAccounts) Session() domain.Session { return domain.Session{UserID: "me"} }
func (s *stubAccounts) CurrentProfile(context.Context) (domain.Profile, error) {
	return domain.Profile{UserID: "me", Username: "me"}, nil
}
func (s *stubAccounts) ProfileByUsername(context.Context, string) (domain.Profile, error) {
	return domain.Profile{}, nil
}
func (s *stubAccounts) UsernameAvailable(context.Context, string) (bool, error) { return true, nil }
func (s *stubAccounts) CreateProfile(context.Context, string) (domain.Profile, error) {
	return domain.Profile{}, nil
}
func (s *stubAccounts) UpdateProfile(context.Context, app.ProfileUpdate) (domain.Profile, error) {
	return domain.Profile{}, nil
}
func (s *stubAccounts) UploadImage(context.Context, app.ImageKind, string) (string, error) {
	return "", nil
}
func (s *stubAccounts) IsFollowing(context.Context, string) (bool, error) { return false, nil }
func (s *stubAccounts) Follow(_ context.Context, id string) error {
	s.follows = append(s.follows, "+"+id)
	return s.followErr
}
func (s *stubAccounts) Unfollow(_ context.Context, id string) error {
	s.follows = append(s.follows, "-"+id)
	return s.followErr
}
func (s *stubAccounts) SuggestedUsers(context.Context, int) ([]domain.SuggestedUser, error) {
	return []domain.SuggestedUser{
		{Profile: domain.Profile{UserID: "u1", Username: "ana"}},
		{Profile: domain.Profile{UserID: "u2", Username: "ben"}, Following: true},
	}, nil
}

// page builds n top-level posts, each with one reply.
func page(prefix string, n int, offset int) []domain.Item {
	var out []domain.Item
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		created := base.Add(-time.Duration(offset+i) * time.Minute)
		out = append(out,
			domain.Item{ID: id, Kind: domain.KindPost, AuthorID: "u1", Username: "ana", Body: "post " + id, CreatedAt: created},
			domain.Item{ID: id + "r", ParentID: id, Kind: domain.KindPost, AuthorID: "u2", Username: "ben", Body: "reply", CreatedAt: created.Add(time.Second)},
		)
	}
	return out
}
