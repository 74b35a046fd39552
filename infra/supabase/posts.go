package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/CrestNiraj12/podrant/domain"
)

const (
	feedPageSize = 20

	// descendantLevels bounds the reply walk below a feed page.
	descendantLevels = 10

	postCountsSelect = "id,likes:post_likes(count),retweets:post_retweets(count),replies:posts!reply_to(count)"
)

// postService implements app.PostService on the posts, post_likes and
// post_retweets tables.
type postService struct {
	client *Client
}

// NewPostService creates a PostService backed by PostgREST.
func NewPostService(client *Client) *postService {
	return &postService{client: client}
}

func (s *postService) list(ctx context.Context, params map[string]string) ([]domain.Item, error) {
	p := map[string]string{"select": "*"}
	for k, v := range params {
		p[k] = v
	}
	var rows []postRow
	if _, err := s.client.do(ctx, query{table: "posts", params: p, out: &rows}); err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r postRow, _ int) domain.Item { return r.item() }), nil
}

// FeedPage returns one page of top-level posts followed by every reply
// below them, level by level.
func (s *postService) FeedPage(ctx context.Context, page int) ([]domain.Item, error) {
	if page < 1 {
		page = 1
	}
	roots, err := s.list(ctx, map[string]string{
		"reply_to": "is.null",
		"order":    "created_at.desc",
		"limit":    strconv.Itoa(feedPageSize),
		"offset":   strconv.Itoa((page - 1) * feedPageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}

	items := roots
	frontier := itemIDs(roots)
	for level := 0; level < descendantLevels && len(frontier) > 0; level++ {
		var next []domain.Item
		for _, batch := range domain.Batches(frontier) {
			replies, err := s.list(ctx, map[string]string{
				"reply_to": in(batch),
				"order":    "created_at.asc",
			})
			if err != nil {
				return nil, fmt.Errorf("fetching replies: %w", err)
			}
			next = append(next, replies...)
		}
		items = append(items, next...)
		frontier = itemIDs(next)
	}
	return items, nil
}

func itemIDs(items []domain.Item) []string {
	return lo.Map(items, func(it domain.Item, _ int) string { return it.ID })
}

// ProfilePosts lists a profile's top-level posts, its replies, or the posts
// it liked.
func (s *postService) ProfilePosts(ctx context.Context, userID string, tab domain.ProfileTab) ([]domain.Item, error) {
	switch tab {
	case domain.TabReplies:
		return s.list(ctx, map[string]string{
			"user_id":  eq(userID),
			"reply_to": "not.is.null",
			"order":    "created_at.desc",
		})
	case domain.TabLikes:
		var refs []postRefRow
		_, err := s.client.do(ctx, query{
			table:  "post_likes",
			params: map[string]string{"select": "post_id", "user_id": eq(userID)},
			out:    &refs,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching likes: %w", err)
		}
		ids := lo.Map(refs, func(r postRefRow, _ int) string { return string(r.PostID) })
		var items []domain.Item
		for _, batch := range domain.Batches(ids) {
			liked, err := s.list(ctx, map[string]string{"id": in(batch), "order": "created_at.desc"})
			if err != nil {
				return nil, fmt.Errorf("fetching liked posts: %w", err)
			}
			items = append(items, liked...)
		}
		return items, nil
	default:
		return s.list(ctx, map[string]string{
			"user_id":  eq(userID),
			"reply_to": "is.null",
			"order":    "created_at.desc",
		})
	}
}

// Interactions loads like, repost and reply counts plus the viewer's own
// likes and reposts in batches of ids.
func (s *postService) Interactions(ctx context.Context, ids []string) (domain.Snapshot, error) {
	viewer := s.client.Session().UserID
	snap := domain.Snapshot{
		Counts:  map[string]domain.Counts{},
		Viewer:  viewer,
		Votes:   map[string]domain.Choice{},
		Reposts: map[string]bool{},
		Failed:  map[string]bool{},
	}

	for _, batch := range domain.Batches(ids) {
		var rows []postCountsRow
		_, err := s.client.do(ctx, query{
			table:  "posts",
			params: map[string]string{"select": postCountsSelect, "id": in(batch)},
			out:    &rows,
		})
		if err != nil {
			log.Warn().Err(err).Int("ids", len(batch)).Msg("post count lookup failed")
		}
		for _, r := range rows {
			snap.Counts[string(r.ID)] = domain.Counts{
				Up:      first(r.Likes),
				Reposts: first(r.Retweets),
				Replies: first(r.Replies),
			}
		}

		if viewer == "" {
			continue
		}
		liked, errLikes := s.viewerRefs(ctx, "post_likes", viewer, batch)
		reposted, errReposts := s.viewerRefs(ctx, "post_retweets", viewer, batch)
		if errLikes != nil || errReposts != nil {
			log.Warn().Err(lo.Ternary(errLikes != nil, errLikes, errReposts)).Msg("viewer lookup failed")
			for _, id := range batch {
				snap.Failed[id] = true
			}
			continue
		}
		for _, id := range liked {
			snap.Votes[id] = domain.ChoiceUp
		}
		for _, id := range reposted {
			snap.Reposts[id] = true
		}
	}
	return snap, nil
}

func (s *postService) viewerRefs(ctx context.Context, table, viewer string, ids []string) ([]string, error) {
	var refs []postRefRow
	_, err := s.client.do(ctx, query{
		table: table,
		params: map[string]string{
			"select":  "post_id",
			"user_id": eq(viewer),
			"post_id": in(ids),
		},
		out: &refs,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(refs, func(r postRefRow, _ int) string { return string(r.PostID) }), nil
}

type newPost struct {
	UserID    string  `json:"user_id"`
	Content   string  `json:"content"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
	ReplyTo   *string `json:"reply_to"`
}

func (s *postService) Create(ctx context.Context, body, parentID string) (domain.Item, error) {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return domain.Item{}, err
	}
	body, err = domain.ValidateBody(body)
	if err != nil {
		return domain.Item{}, err
	}
	author, err := s.client.author(ctx)
	if err != nil {
		return domain.Item{}, err
	}

	var rows []postRow
	_, err = s.client.do(ctx, query{
		method: http.MethodPost,
		table:  "posts",
		body: []newPost{{
			UserID:    viewer,
			Content:   body,
			Username:  author.Username,
			AvatarURL: nullable(author.AvatarURL),
			ReplyTo:   nullable(parentID),
		}},
		prefer: "return=representation",
		out:    &rows,
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("publishing post: %w", err)
	}
	if len(rows) == 0 {
		return domain.Item{}, fmt.Errorf("publishing post: empty response")
	}
	return rows[0].item(), nil
}

type postEdit struct {
	Content      string    `json:"content"`
	Edited       bool      `json:"edited"`
	LastEditedAt time.Time `json:"last_edited_at"`
}

func (s *postService) Edit(ctx context.Context, id, body string) (domain.Item, error) {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return domain.Item{}, err
	}
	body, err = domain.ValidateBody(body)
	if err != nil {
		return domain.Item{}, err
	}
	var rows []postRow
	_, err = s.client.do(ctx, query{
		method: http.MethodPatch,
		table:  "posts",
		params: map[string]string{"id": eq(id), "user_id": eq(viewer)},
		body:   postEdit{Content: body, Edited: true, LastEditedAt: s.client.now().UTC()},
		prefer: "return=representation",
		out:    &rows,
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("editing post: %w", err)
	}
	if len(rows) == 0 {
		return domain.Item{}, domain.ErrNotOwner
	}
	return rows[0].item(), nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return err
	}
	var rows []postRow
	_, err = s.client.do(ctx, query{
		method: http.MethodDelete,
		table:  "posts",
		params: map[string]string{"id": eq(id), "user_id": eq(viewer)},
		prefer: "return=representation",
		out:    &rows,
	})
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotOwner
	}
	return nil
}

type postRef struct {
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
}

func (s *postService) Like(ctx context.Context, id string, current domain.Choice) (domain.Choice, error) {
	t, err := domain.PlanLike(current, domain.ChoiceUp)
	if err != nil {
		return current, err
	}
	if err := s.toggle(ctx, "post_likes", id, t); err != nil {
		return current, fmt.Errorf("toggling like: %w", err)
	}
	return t.To, nil
}

func (s *postService) Repost(ctx context.Context, id string, reposted bool) (bool, error) {
	current := lo.Ternary(reposted, domain.ChoiceUp, domain.ChoiceNone)
	t, err := domain.PlanLike(current, domain.ChoiceUp)
	if err != nil {
		return reposted, err
	}
	if err := s.toggle(ctx, "post_retweets", id, t); err != nil {
		return reposted, fmt.Errorf("toggling repost: %w", err)
	}
	return t.To == domain.ChoiceUp, nil
}

// toggle applies a presence-only transition: delete any existing row, then
// insert one when the target state is on.
func (s *postService) toggle(ctx context.Context, table, postID string, t domain.Transition) error {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return err
	}
	if t.Delete {
		_, err := s.client.do(ctx, query{
			method: http.MethodDelete,
			table:  table,
			params: map[string]string{"post_id": eq(postID), "user_id": eq(viewer)},
		})
		if err != nil {
			return err
		}
	}
	if t.Insert {
		_, err := s.client.do(ctx, query{
			method: http.MethodPost,
			table:  table,
			body:   []postRef{{PostID: postID, UserID: viewer}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
