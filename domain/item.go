package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	AppTitle = "podrant"

	// MaxBodyLength caps comment and post bodies, in runes.
	MaxBodyLength = 500
)

// ItemKind distinguishes episode comments from feed posts.
type ItemKind int

const (
	KindComment ItemKind = iota
	KindPost
)

// Item is a comment or a post, the unit of threaded discussion.
type Item struct {
	ID        string
	ParentID  string // Empty for top-level items
	Kind      ItemKind
	Scope     string // Episode ID for comments
	AuthorID  string
	Username  string // Snapshot at creation time
	AvatarURL string
	Body      string
	CreatedAt time.Time
	Edited    bool
	EditedAt  time.Time
}

// IsReply reports whether the item has a parent reference.
func (i Item) IsReply() bool {
	return i.ParentID != ""
}

// IsOwnedBy reports whether viewerID authored the item.
func (i Item) IsOwnedBy(viewerID string) bool {
	return viewerID != "" && i.AuthorID == viewerID
}

// ValidateBody trims the body and rejects empty or oversized content.
func ValidateBody(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", ErrEmptyBody
	}
	if utf8.RuneCountInString(trimmed) > MaxBodyLength {
		return "", ErrBodyTooLong
	}
	return trimmed, nil
}

// Remove returns items without the one matching id. Descendants become
// untethered and drop out on the next Assemble.
func Remove(items []Item, id string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID == id {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Replace swaps the item with the same ID, returning false if absent.
func Replace(items []Item, updated Item) ([]Item, bool) {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
			return out, true
		}
	}
	return out, false
}
