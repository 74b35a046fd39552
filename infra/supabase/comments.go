package supabase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/podrant/domain"
)

// commentService implements app.CommentService on the comments and
// comment_votes tables.
type commentService struct {
	client *Client
}

// NewCommentService creates a CommentService backed by PostgREST.
func NewCommentService(client *Client) *commentService {
	return &commentService{client: client}
}

func (s *commentService) Comments(ctx context.Context, episodeID string) ([]domain.Item, error) {
	var rows []commentRow
	_, err := s.client.do(ctx, query{
		table: "comments",
		params: map[string]string{
			"select":     "*",
			"episode_id": eq(episodeID),
			"order":      "created_at.desc",
		},
		out: &rows,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}
	items := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.item())
	}
	return items, nil
}

// Interactions loads vote rows for the given comments, one request per
// batch. A failed batch marks its IDs as failed and the rest still merge.
func (s *commentService) Interactions(ctx context.Context, ids []string) (domain.Snapshot, error) {
	viewer := s.client.Session().UserID
	snap := domain.Snapshot{Viewer: viewer, Failed: map[string]bool{}}

	var records []domain.VoteRecord
	for _, batch := range domain.Batches(ids) {
		var rows []voteRow
		_, err := s.client.do(ctx, query{
			table: "comment_votes",
			params: map[string]string{
				"select":     "comment_id,user_id,vote_type,created_at",
				"comment_id": in(batch),
			},
			out: &rows,
		})
		if err != nil {
			log.Warn().Err(err).Int("ids", len(batch)).Msg("vote lookup failed")
			for _, id := range batch {
				snap.Failed[id] = true
			}
			continue
		}
		for _, r := range rows {
			records = append(records, r.record())
		}
	}

	snap.Counts = domain.TallyVotes(records)
	snap.Votes = domain.ViewerVotes(records, viewer)
	return snap, nil
}

type newComment struct {
	EpisodeID string  `json:"episode_id"`
	UserID    string  `json:"user_id"`
	Content   string  `json:"content"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
	ParentID  *string `json:"parent_id"`
}

func (s *commentService) AddComment(ctx context.Context, episodeID, parentID, body string) (domain.Item, error) {
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

	var rows []commentRow
	_, err = s.client.do(ctx, query{
		method: http.MethodPost,
		table:  "comments",
		body: []newComment{{
			EpisodeID: episodeID,
			UserID:    viewer,
			Content:   body,
			Username:  author.Username,
			AvatarURL: nullable(author.AvatarURL),
			ParentID:  nullable(parentID),
		}},
		prefer: "return=representation",
		out:    &rows,
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("posting comment: %w", err)
	}
	if len(rows) == 0 {
		return domain.Item{}, fmt.Errorf("posting comment: empty response")
	}
	return rows[0].item(), nil
}

type commentEdit struct {
	Content      string    `json:"content"`
	Edited       bool      `json:"edited"`
	LastEditedAt time.Time `json:"last_edited_at"`
}

func (s *commentService) EditComment(ctx context.Context, id, body string) (domain.Item, error) {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return domain.Item{}, err
	}
	body, err = domain.ValidateBody(body)
	if err != nil {
		return domain.Item{}, err
	}

	var rows []commentRow
	_, err = s.client.do(ctx, query{
		method: http.MethodPatch,
		table:  "comments",
		params: map[string]string{"id": eq(id), "user_id": eq(viewer)},
		body:   commentEdit{Content: body, Edited: true, LastEditedAt: s.client.now().UTC()},
		prefer: "return=representation",
		out:    &rows,
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("editing comment: %w", err)
	}
	if len(rows) == 0 {
		return domain.Item{}, domain.ErrNotOwner
	}
	return rows[0].item(), nil
}

func (s *commentService) DeleteComment(ctx context.Context, id string) error {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return err
	}
	var rows []commentRow
	_, err = s.client.do(ctx, query{
		method: http.MethodDelete,
		table:  "comments",
		params: map[string]string{"id": eq(id), "user_id": eq(viewer)},
		prefer: "return=representation",
		out:    &rows,
	})
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotOwner
	}
	return nil
}

type newVote struct {
	CommentID string `json:"comment_id"`
	UserID    string `json:"user_id"`
	VoteType  string `json:"vote_type"`
}

// Vote deletes the viewer's existing vote and inserts the new one. The two
// writes are not atomic; concurrent sessions resolve to the newest row.
func (s *commentService) Vote(ctx context.Context, commentID string, current, requested domain.Choice) (domain.Choice, error) {
	viewer, err := s.client.requireViewer()
	if err != nil {
		return current, err
	}
	t := domain.Plan(current, requested)
	if !t.Changed() {
		return current, nil
	}
	if t.Delete {
		_, err := s.client.do(ctx, query{
			method: http.MethodDelete,
			table:  "comment_votes",
			params: map[string]string{"comment_id": eq(commentID), "user_id": eq(viewer)},
		})
		if err != nil {
			return current, fmt.Errorf("clearing vote: %w", err)
		}
	}
	if t.Insert {
		_, err := s.client.do(ctx, query{
			method: http.MethodPost,
			table:  "comment_votes",
			body:   []newVote{{CommentID: commentID, UserID: viewer, VoteType: t.To.String()}},
		})
		if err != nil {
			return domain.ChoiceNone, fmt.Errorf("saving vote: %w", err)
		}
	}
	return t.To, nil
}
