package supabase

import (
	"time"

	"github.com/CrestNiraj12/podrant/domain"
)

type commentRow struct {
	ID           rowID      `json:"id"`
	EpisodeID    string     `json:"episode_id"`
	UserID       string     `json:"user_id"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"created_at"`
	Username     string     `json:"username"`
	AvatarURL    *string    `json:"avatar_url"`
	ParentID     rowID      `json:"parent_id"`
	Edited       bool       `json:"edited"`
	LastEditedAt *time.Time `json:"last_edited_at"`
}

func (r commentRow) item() domain.Item {
	return domain.Item{
		ID:        string(r.ID),
		ParentID:  string(r.ParentID),
		Kind:      domain.KindComment,
		Scope:     r.EpisodeID,
		AuthorID:  r.UserID,
		Username:  r.Username,
		AvatarURL: deref(r.AvatarURL),
		Body:      r.Content,
		CreatedAt: r.CreatedAt,
		Edited:    r.Edited,
		EditedAt:  derefTime(r.LastEditedAt),
	}
}

type postRow struct {
	ID           rowID      `json:"id"`
	UserID       string     `json:"user_id"`
	Content      string     `json:"content"`
	Username     string     `json:"username"`
	CreatedAt    time.Time  `json:"created_at"`
	AvatarURL    *string    `json:"avatar_url"`
	Edited       bool       `json:"edited"`
	LastEditedAt *time.Time `json:"last_edited_at"`
	ReplyTo      rowID      `json:"reply_to"`
}

func (r postRow) item() domain.Item {
	return domain.Item{
		ID:        string(r.ID),
		ParentID:  string(r.ReplyTo),
		Kind:      domain.KindPost,
		AuthorID:  r.UserID,
		Username:  r.Username,
		AvatarURL: deref(r.AvatarURL),
		Body:      r.Content,
		CreatedAt: r.CreatedAt,
		Edited:    r.Edited,
		EditedAt:  derefTime(r.LastEditedAt),
	}
}

// countRow decodes an embedded aggregate such as likes:post_likes(count).
type countRow struct {
	Count int `json:"count"`
}

func first(rows []countRow) int {
	if len(rows) == 0 {
		return 0
	}
	return rows[0].Count
}

type postCountsRow struct {
	ID       rowID      `json:"id"`
	Likes    []countRow `json:"likes"`
	Retweets []countRow `json:"retweets"`
	Replies  []countRow `json:"replies"`
}

type voteRow struct {
	CommentID rowID     `json:"comment_id"`
	UserID    string    `json:"user_id"`
	VoteType  string    `json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (r voteRow) record() domain.VoteRecord {
	return domain.VoteRecord{
		ItemID:    string(r.CommentID),
		VoterID:   r.UserID,
		Choice:    domain.ParseChoice(r.VoteType),
		CreatedAt: r.CreatedAt,
	}
}

type postRefRow struct {
	PostID rowID `json:"post_id"`
}

type profileRow struct {
	UserID    string  `json:"user_id"`
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	BannerURL *string `json:"banner_url"`
}

func (r profileRow) profile() domain.Profile {
	return domain.Profile{
		UserID:    r.UserID,
		Username:  r.Username,
		Bio:       deref(r.Bio),
		AvatarURL: deref(r.AvatarURL),
		BannerURL: deref(r.BannerURL),
	}
}

type relationshipRow struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// nullable sends an empty reference as JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
