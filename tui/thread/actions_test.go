package thread

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
	"github.com/CrestNiraj12/podrant/tui/compose"
)

type stubStore struct {
	err     error
	created domain.Item
	votes   []domain.Choice
	deleted []string
}

func (s *stubStore) Create(_ context.Context, t compose.Target, body string) (domain.Item, error) {
	if s.err != nil {
		return domain.Item{}, s.err
	}
	it := s.created
	it.Body = body
	it.ParentID = t.ParentID
	return it, nil
}

func (s *stubStore) Edit(_ context.Context, id, body string) (domain.Item, error) {
	if s.err != nil {
		return domain.Item{}, s.err
	}
	return domain.Item{ID: id, Body: body, Edited: true, Kind: domain.KindComment, AuthorID: "me", Username: "me"}, nil
}

func (s *stubStore) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func (s *stubStore) Vote(_ context.Context, _ string, current, requested domain.Choice) (domain.Choice, error) {
	if s.err != nil {
		return current, s.err
	}
	s.votes = append(s.votes, current)
	return domain.Next(current, requested), nil
}

func (s *stubStore) Repost(_ context.Context, _ string, reposted bool) (bool, error) {
	return !reposted, s.err
}

func envFor(store Store) Env {
	return Env{
		Store:   store,
		Session: domain.Session{UserID: "me"},
		Author:  domain.Profile{UserID: "me", Username: "me"},
		Kind:    domain.KindComment,
		Scope:   "ep1",
	}
}

func loaded(items ...domain.Item) Model {
	m := New("comments")
	m.SetItems(items, domain.Snapshot{Viewer: "me", Counts: map[string]domain.Counts{"a": {Up: 1}}})
	return m
}

func press(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestVoteKey_OptimisticThenRollbackOnError(t *testing.T) {
	store := &stubStore{err: errors.New("boom")}
	m := loaded(comment("a", "", 0))

	m, cmd, handled := m.Update(press("+"), envFor(store))
	if !handled || cmd == nil {
		t.Fatal("expected vote command")
	}
	n, _ := m.Find("a")
	if n.Engagement.Up != 2 || n.Engagement.Vote != domain.ChoiceUp {
		t.Fatalf("expected optimistic upvote, got %+v", n.Engagement)
	}

	m, status, _ := m.Update(cmd(), envFor(store))
	n, _ = m.Find("a")
	if n.Engagement.Up != 1 || n.Engagement.Vote != domain.ChoiceNone {
		t.Fatalf("expected rollback, got %+v", n.Engagement)
	}
	if msg, ok := status().(common.StatusMsg); !ok || msg.Err == nil {
		t.Fatal("expected failure status")
	}
}

func TestVoteKey_IgnoresOtherLists(t *testing.T) {
	m := loaded(comment("a", "", 0))
	_, _, handled := m.Update(VoteResultMsg{List: "feed", ID: "a", Choice: domain.ChoiceUp}, envFor(&stubStore{}))
	if handled {
		t.Fatal("results for another list must pass through")
	}
}

func TestVoteKey_SignedOutAndFailedLookup(t *testing.T) {
	m := loaded(comment("a", "", 0))
	env := envFor(&stubStore{})
	env.Session = domain.Session{}
	_, cmd, _ := m.Update(press("+"), env)
	if msg := cmd().(common.StatusMsg); !errors.Is(msg.Err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", msg.Err)
	}

	failed := New("comments")
	failed.SetItems([]domain.Item{comment("a", "", 0)}, domain.Snapshot{Viewer: "me", Failed: map[string]bool{"a": true}})
	after, cmd, _ := failed.Update(press("+"), envFor(&stubStore{}))
	if msg := cmd().(common.StatusMsg); msg.Err == nil {
		t.Fatal("expected lookup failure status")
	}
	if n, _ := after.Find("a"); n.Engagement.Up != 0 {
		t.Fatal("no optimistic change when state is unknown")
	}
}

func TestDownvoteOnPostsIsIgnored(t *testing.T) {
	m := loaded(comment("a", "", 0))
	env := envFor(&stubStore{})
	env.Kind = domain.KindPost
	if _, _, handled := m.Update(press("-"), env); handled {
		t.Fatal("downvote is not a post action")
	}
}

func TestComposeDone_CreatesOptimisticallyAndConfirms(t *testing.T) {
	store := &stubStore{created: domain.Item{ID: "c9", Kind: domain.KindComment, AuthorID: "me", Username: "me", Scope: "ep1"}}
	m := loaded(comment("a", "", 0))
	done := compose.DoneMsg{
		Target:  compose.Target{Kind: domain.KindComment, Scope: "ep1", ParentID: "a"},
		Content: "nice",
	}
	m, cmd, _ := m.Update(done, envFor(store))
	pending := m.SelectedID()
	if !IsPending(pending) {
		t.Fatalf("expected pending reply selected, got %q", pending)
	}
	m, _, _ = m.Update(cmd(), envFor(store))
	if m.SelectedID() != "c9" {
		t.Fatalf("expected confirmed c9, got %q", m.SelectedID())
	}
	it, _ := m.Item("c9")
	if it.ParentID != "a" || it.Body != "nice" {
		t.Fatalf("unexpected stored item %+v", it)
	}
}

func TestComposeDone_CreateFailureRemovesPlaceholder(t *testing.T) {
	store := &stubStore{err: domain.ErrUnauthorized}
	m := loaded(comment("a", "", 0))
	m, cmd, _ := m.Update(compose.DoneMsg{Target: compose.Target{Kind: domain.KindComment}, Content: "x"}, envFor(store))
	m, _, _ = m.Update(cmd(), envFor(store))
	if len(m.Items()) != 1 {
		t.Fatalf("placeholder should be removed, got %d items", len(m.Items()))
	}
}

func TestComposeDone_EditRollsBackOnError(t *testing.T) {
	own := comment("a", "", 0)
	own.AuthorID = "me"
	store := &stubStore{err: domain.ErrNotOwner}
	m := loaded(own)
	done := compose.DoneMsg{Target: compose.Target{Kind: domain.KindComment, EditID: "a"}, Content: "edited"}
	m, cmd, _ := m.Update(done, envFor(store))
	if it, _ := m.Item("a"); it.Body != "edited" || !it.Edited {
		t.Fatalf("expected optimistic edit, got %+v", it)
	}
	m, _, _ = m.Update(cmd(), envFor(store))
	if it, _ := m.Item("a"); it.Body != "body a" || it.Edited {
		t.Fatalf("expected rollback, got %+v", it)
	}
}

func TestDelete_RequiresOwnershipAndConfirmation(t *testing.T) {
	store := &stubStore{}
	m := loaded(comment("a", "", 0))
	_, cmd, _ := m.Update(press("d"), envFor(store))
	if msg := cmd().(common.StatusMsg); !errors.Is(msg.Err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for someone else's comment, got %v", msg.Err)
	}

	own := comment("b", "", 0)
	own.AuthorID = "me"
	m = loaded(own)
	m, _, _ = m.Update(press("d"), envFor(store))
	if !m.Confirming() {
		t.Fatal("expected confirmation prompt")
	}
	m, _, _ = m.Update(press("n"), envFor(store))
	if m.Confirming() || m.Len() != 1 {
		t.Fatal("n should cancel without deleting")
	}

	m, _, _ = m.Update(press("d"), envFor(store))
	m, cmd, _ = m.Update(press("y"), envFor(store))
	if m.Len() != 0 || cmd == nil {
		t.Fatal("expected optimistic removal")
	}
	msg := cmd().(DeletedMsg)
	if len(store.deleted) != 1 || store.deleted[0] != "b" {
		t.Fatalf("unexpected deletes %v", store.deleted)
	}

	msg.Err = errors.New("offline")
	m, _, _ = m.Update(msg, envFor(store))
	if m.Len() != 1 {
		t.Fatal("failed delete should restore the item")
	}
}

func TestReplyKey_RequestsCompose(t *testing.T) {
	m := loaded(comment("a", "", 0))
	_, cmd, handled := m.Update(press("C"), envFor(&stubStore{}))
	if !handled {
		t.Fatal("reply should be handled")
	}
	req, ok := cmd().(compose.RequestMsg)
	if !ok || !req.Inline || req.Target.ParentID != "a" || req.Target.Scope != "ep1" {
		t.Fatalf("unexpected request %#v", cmd())
	}
}
