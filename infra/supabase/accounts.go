package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/CrestNiraj12/podrant/app"
	"github.com/CrestNiraj12/podrant/domain"
)

// ImageStore uploads profile images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, kind, userID, path string) (string, error)
}

// accountService implements app.AccountService on the profiles and
// user_relationships tables.
type accountService struct {
	client *Client
	images ImageStore
}

// NewAccountService creates an AccountService. images may be nil when no
// object storage is configured; uploads then fail.
func NewAccountService(client *Client, images ImageStore) *accountService {
	return &accountService{client: client, images: images}
}

func (s *accountService) Session() domain.Session {
	return s.client.Session()
}

// author returns the viewer's profile, cached after the first lookup.
func (c *Client) author(ctx context.Context) (domain.Profile, error) {
	c.mu.Lock()
	cached := c.profile
	c.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	viewer, err := c.requireViewer()
	if err != nil {
		return domain.Profile{}, err
	}
	p, err := c.profileWhere(ctx, map[string]string{"user_id": eq(viewer)})
	if err != nil {
		return domain.Profile{}, err
	}
	c.remember(p)
	return p, nil
}

func (c *Client) remember(p domain.Profile) {
	c.mu.Lock()
	c.profile = &p
	c.mu.Unlock()
}

func (c *Client) profileWhere(ctx context.Context, filter map[string]string) (domain.Profile, error) {
	params := map[string]string{"select": "*", "limit": "1"}
	for k, v := range filter {
		params[k] = v
	}
	var rows []profileRow
	if _, err := c.do(ctx, query{table: "profiles", params: params, out: &rows}); err != nil {
		return domain.Profile{}, fmt.Errorf("fetching profile: %w", err)
	}
	if len(rows) == 0 {
		return domain.Profile{}, domain.ErrNotFound
	}
	return rows[0].profile(), nil
}

func (s *accountService) CurrentProfile(ctx context.Context) (domain.Profile, error) {
	p, err := s.client.author(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	return s.withCounts(ctx, p)
}

func (s *accountService) ProfileByUsername(ctx context.Context, username string) (domain.Profile, error) {
	name, err := domain.NormalizeUsername(username)
	if err != nil {
		return domain.Profile{}, domain.ErrNotFound
	}
	p, err := s.client.profileWhere(ctx, map[string]string{"username": eq(name)})
	if err != nil {
		return domain.Profile{}, err
	}
	return s.withCounts(ctx, p)
}

// withCounts fills follower, following and post counts with exact-count
// queries.
func (s *accountService) withCounts(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	var err error
	if p.Followers, err = s.client.count(ctx, "user_relationships", map[string]string{"following_id": eq(p.UserID)}); err != nil {
		return p, fmt.Errorf("counting followers: %w", err)
	}
	if p.Following, err = s.client.count(ctx, "user_relationships", map[string]string{"follower_id": eq(p.UserID)}); err != nil {
		return p, fmt.Errorf("counting following: %w", err)
	}
	if p.Posts, err = s.client.count(ctx, "posts", map[string]string{"user_id": eq(p.UserID)}); err != nil {
		return p, fmt.Errorf("counting posts: %w", err)
	}
	return p, nil
}

// UsernameAvailable reports whether the name is free. The viewer's own
// current name counts as available.
func (s *accountService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	name, err := domain.NormalizeUsername(username)
	if err != nil {
		return false, err
	}
	var rows []profileRow
	_, err = s.client.do(ctx, query{
		table:  "profiles",
		params: map[string]string{"select": "user_id", "username": eq(name)},
		out:    &rows,
	})
	if err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	viewer := s.client.Session().UserID
	taken := lo.ContainsBy(rows, func(r profileRow) bool { return r.UserID != viewer })
	return !taken, nil
}

func (s *accountService) claim(ctx context.Context, raw string) (string, error) {
	name, err := domain.NormalizeUsername(raw)
	if err != nil {
		return "", err
	}
	ok, err := s.UsernameAvailable(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrUsernameTaken
	}
	return name, nil
}

// usernameConflict maps a unique violation on profiles, which only the
// username column can raise, to ErrUsernameTaken. A rival client can claim
// the name between the availability check and the write.
func usernameConflict(err error) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusConflict || strings.Contains(apiErr.Body, "23505")) {
		return domain.ErrUsernameTaken
	}
	return err
}

type newProfile struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func (s *accountService) CreateProfile(ctx context.Context, username string) (domain.Profile, error) {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return domain.Profile{}, err
	}
	name, err := s.claim(ctx, username)
	if err != nil {
		return domain.Profile{}, err
	}
	var rows []profileRow
	_, err = s.client.do(ctx, query{
		method: http.MethodPost,
		table:  "profiles",
		body:   []newProfile{{UserID: viewer, Username: name}},
		prefer: "return=representation",
		out:    &rows,
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("creating profile: %w", usernameConflict(err))
	}
	if len(rows) == 0 {
		return domain.Profile{}, fmt.Errorf("creating profile: empty response")
	}
	p := rows[0].profile()
	s.client.remember(p)
	return p, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, update app.ProfileUpdate) (domain.Profile, error) {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return domain.Profile{}, err
	}
	current, err := s.client.author(ctx)
	if err != nil {
		return domain.Profile{}, err
	}

	patch := map[string]any{}
	if update.Username != nil {
		name, err := domain.NormalizeUsername(*update.Username)
		if err != nil {
			return domain.Profile{}, err
		}
		if name != current.Username {
			if _, err := s.claim(ctx, name); err != nil {
				return domain.Profile{}, err
			}
			patch["username"] = name
		}
	}
	if update.Bio != nil {
		patch["bio"] = *update.Bio
	}
	if len(patch) == 0 {
		return s.withCounts(ctx, current)
	}
	return s.patchProfile(ctx, viewer, patch)
}

func (s *accountService) patchProfile(ctx context.Context, viewer string, patch map[string]any) (domain.Profile, error) {
	var rows []profileRow
	_, err := s.client.do(ctx, query{
		method: http.MethodPatch,
		table:  "profiles",
		params: map[string]string{"user_id": eq(viewer)},
		body:   patch,
		prefer: "return=representation",
		out:    &rows,
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("updating profile: %w", usernameConflict(err))
	}
	if len(rows) == 0 {
		return domain.Profile{}, domain.ErrNotFound
	}
	p := rows[0].profile()
	s.client.remember(p)
	return s.withCounts(ctx, p)
}

var errNoImageStore = errors.New("image uploads are not configured")

func (s *accountService) UploadImage(ctx context.Context, kind app.ImageKind, path string) (string, error) {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return "", err
	}
	if s.images == nil {
		return "", errNoImageStore
	}
	url, err := s.images.Upload(ctx, string(kind), viewer, path)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", kind, err)
	}
	column := "avatar_url"
	if kind == app.ImageBanner {
		column = "banner_url"
	}
	if _, err := s.patchProfile(ctx, viewer, map[string]any{column: url}); err != nil {
		return "", err
	}
	return url, nil
}

func (s *accountService) IsFollowing(ctx context.Context, userID string) (bool, error) {
	viewer := s.client.Session().UserID
	if viewer == "" || viewer == userID {
		return false, nil
	}
	n, err := s.client.count(ctx, "user_relationships", map[string]string{
		"follower_id":  eq(viewer),
		"following_id": eq(userID),
	})
	if err != nil {
		return false, fmt.Errorf("checking follow: %w", err)
	}
	return n > 0, nil
}

func (s *accountService) Follow(ctx context.Context, userID string) error {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return err
	}
	if viewer == userID {
		return fmt.Errorf("cannot follow yourself")
	}
	_, err = s.client.do(ctx, query{
		method: http.MethodPost,
		table:  "user_relationships",
		body:   []relationshipRow{{FollowerID: viewer, FollowingID: userID}},
		prefer: "resolution=ignore-duplicates",
	})
	if err != nil {
		return fmt.Errorf("following: %w", err)
	}
	return nil
}

func (s *accountService) Unfollow(ctx context.Context, userID string) error {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return err
	}
	_, err = s.client.do(ctx, query{
		method: http.MethodDelete,
		table:  "user_relationships",
		params: map[string]string{"follower_id": eq(viewer), "following_id": eq(userID)},
	})
	if err != nil {
		return fmt.Errorf("unfollowing: %w", err)
	}
	return nil
}

// SuggestedUsers returns other profiles, never the viewer, with the
// viewer's follow state resolved in one batched lookup.
func (s *accountService) SuggestedUsers(ctx context.Context, limit int) ([]domain.SuggestedUser, error) {
	if limit <= 0 {
		limit = 5
	}
	viewer := s.client.Session().UserID
	params := map[string]string{"select": "*", "limit": strconv.Itoa(limit), "order": "created_at.desc"}
	if viewer != "" {
		params["user_id"] = "neq." + viewer
	}
	var rows []profileRow
	if _, err := s.client.do(ctx, query{table: "profiles", params: params, out: &rows}); err != nil {
		return nil, fmt.Errorf("fetching suggestions: %w", err)
	}

	following := map[string]bool{}
	if viewer != "" && len(rows) > 0 {
		ids := lo.Map(rows, func(r profileRow, _ int) string { return r.UserID })
		var rels []relationshipRow
		_, err := s.client.do(ctx, query{
			table: "user_relationships",
			params: map[string]string{
				"select":       "follower_id,following_id",
				"follower_id":  eq(viewer),
				"following_id": in(ids),
			},
			out: &rels,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching follow state: %w", err)
		}
		for _, r := range rels {
			following[r.FollowingID] = true
		}
	}

	out := make([]domain.SuggestedUser, 0, len(rows))
	for _, r := range rows {
		if r.UserID == viewer {
			continue
		}
		out = append(out, domain.SuggestedUser{Profile: r.profile(), Following: following[r.UserID]})
	}
	return out, nil
}
