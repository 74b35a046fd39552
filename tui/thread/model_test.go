package thread

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/CrestNiraj12/podrant/domain"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func comment(id, parent string, minutes int) domain.Item {
	return domain.Item{
		ID:        id,
		ParentID:  parent,
		Kind:      domain.KindComment,
		AuthorID:  "u-" + id,
		Username:  "user" + id,
		Body:      "body " + id,
		CreatedAt: base.Add(time.Duration(minutes) * time.Minute),
	}
}

func viewerSnap() domain.Snapshot {
	return domain.Snapshot{Viewer: "me"}
}

func rowIDs(m Model) []string {
	var out []string
	for _, r := range m.Rows() {
		if r.More {
			out = append(out, "more:"+r.Node.Item.ID)
			continue
		}
		out = append(out, r.Node.Item.ID)
	}
	return out
}

func TestSetItems_OrdersThreadAndKeepsCursor(t *testing.T) {
	m := New("test")
	m.SetItems([]domain.Item{
		comment("a", "", 0),
		comment("b", "", 10),
		comment("a2", "a", 5),
		comment("a1", "a", 1),
	}, viewerSnap())

	got := strings.Join(rowIDs(m), ",")
	if got != "b,a,a1,a2" {
		t.Fatalf("unexpected rows %s", got)
	}

	m.MoveDown()
	m.MoveDown()
	if m.SelectedID() != "a1" {
		t.Fatalf("expected a1 selected, got %s", m.SelectedID())
	}
	m.SetItems(append(m.Items(), comment("c", "", 20)), viewerSnap())
	if m.SelectedID() != "a1" {
		t.Fatalf("cursor should follow a1 after reload, got %s", m.SelectedID())
	}
}

func TestMoreRow_ExpandAndCollapse(t *testing.T) {
	items := []domain.Item{comment("n0", "", 0)}
	for i := 1; i <= domain.MaxReplyDepth+2; i++ {
		items = append(items, comment(fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", i-1), i))
	}
	m := New("test")
	m.SetItems(items, viewerSnap())

	last := fmt.Sprintf("n%d", domain.MaxReplyDepth)
	rows := rowIDs(m)
	if rows[len(rows)-1] != "more:"+last {
		t.Fatalf("expected trailing more row, got %v", rows)
	}
	if m.Expand() {
		t.Fatal("expand on an item row should do nothing")
	}
	for !m.AtEnd() {
		m.MoveDown()
	}
	r, _ := m.Selected()
	if r.Node.Hidden != 2 {
		t.Fatalf("expected 2 hidden replies, got %d", r.Node.Hidden)
	}
	if !m.Expand() {
		t.Fatal("expected more row to expand")
	}
	if m.Focused() != last || m.SelectedID() != last {
		t.Fatalf("expected focus on %s, got %s/%s", last, m.Focused(), m.SelectedID())
	}
	if m.Len() != 3 {
		t.Fatalf("expected subtree of 3 rows, got %v", rowIDs(m))
	}

	if !m.Collapse() {
		t.Fatal("expected collapse")
	}
	if m.SelectedID() != last {
		t.Fatalf("collapse should return to %s, got %s", last, m.SelectedID())
	}
}

func TestVote_OptimisticAndRestore(t *testing.T) {
	m := New("test")
	snap := viewerSnap()
	snap.Counts = map[string]domain.Counts{"a": {Up: 2, Down: 1}}
	snap.Votes = map[string]domain.Choice{"a": domain.ChoiceDown}
	m.SetItems([]domain.Item{comment("a", "", 0)}, snap)

	before := m
	current, undo := m.Vote("a", domain.ChoiceUp)
	if current != domain.ChoiceDown {
		t.Fatalf("expected previous vote down, got %v", current)
	}
	n, _ := m.Find("a")
	if n.Engagement.Up != 3 || n.Engagement.Down != 0 || n.Engagement.Vote != domain.ChoiceUp {
		t.Fatalf("unexpected engagement after switch: %+v", n.Engagement)
	}
	old, _ := before.Find("a")
	if old.Engagement.Vote != domain.ChoiceDown {
		t.Fatal("earlier model copy must keep its own snapshot")
	}

	m.Restore(undo)
	n, _ = m.Find("a")
	if n.Engagement.Up != 2 || n.Engagement.Down != 1 || n.Engagement.Vote != domain.ChoiceDown {
		t.Fatalf("restore did not roll back: %+v", n.Engagement)
	}

	m.Vote("a", domain.ChoiceDown)
	n, _ = m.Find("a")
	if n.Engagement.Down != 0 || n.Engagement.Vote != domain.ChoiceNone {
		t.Fatalf("same vote twice should clear it: %+v", n.Engagement)
	}
}

func TestRepost_TogglesCount(t *testing.T) {
	m := New("test")
	post := comment("p", "", 0)
	post.Kind = domain.KindPost
	m.SetItems([]domain.Item{post}, viewerSnap())

	was, undo := m.Repost("p")
	if was {
		t.Fatal("expected no previous repost")
	}
	n, _ := m.Find("p")
	if n.Engagement.Reposts != 1 || !n.Engagement.Reposted {
		t.Fatalf("unexpected engagement %+v", n.Engagement)
	}
	m.Restore(undo)
	n, _ = m.Find("p")
	if n.Engagement.Reposts != 0 || n.Engagement.Reposted {
		t.Fatalf("restore failed %+v", n.Engagement)
	}
}

func TestCanInteract(t *testing.T) {
	m := New("test")
	snap := viewerSnap()
	snap.Failed = map[string]bool{"b": true}
	m.SetItems([]domain.Item{comment("a", "", 0), comment("b", "", 1)}, snap)
	if !m.CanInteract("a") || m.CanInteract("b") {
		t.Fatal("failed lookups must block interaction")
	}
	signedOut := New("test")
	signedOut.SetItems([]domain.Item{comment("a", "", 0)}, domain.Snapshot{})
	if signedOut.CanInteract("a") {
		t.Fatal("signed-out viewer cannot interact")
	}
}

func TestPendingLifecycle(t *testing.T) {
	m := New("test")
	snap := viewerSnap()
	snap.Counts = map[string]domain.Counts{"a": {Replies: 1}}
	m.SetItems([]domain.Item{comment("a", "", 0), comment("a1", "a", 1)}, snap)

	id := m.AddPending(domain.Item{ParentID: "a", Kind: domain.KindComment, Body: "hi", Username: "me"})
	if !IsPending(id) || m.SelectedID() != id {
		t.Fatalf("pending reply should be selected, got %s", m.SelectedID())
	}
	if m.CanInteract(id) {
		t.Fatal("pending items accept no votes")
	}
	n, _ := m.Find("a")
	if n.Engagement.Replies != 2 {
		t.Fatalf("expected reply count bump, got %d", n.Engagement.Replies)
	}

	stored := comment("a2", "a", 2)
	m.Confirm(id, stored)
	if m.SelectedID() != "a2" {
		t.Fatalf("expected confirmed item selected, got %s", m.SelectedID())
	}
	if _, ok := m.Item(id); ok {
		t.Fatal("placeholder should be gone")
	}

	removed, ok := m.Remove("a2")
	if !ok || removed.ID != "a2" {
		t.Fatal("expected a2 removed")
	}
	n, _ = m.Find("a")
	if n.Engagement.Replies != 1 {
		t.Fatalf("expected reply count back to 1, got %d", n.Engagement.Replies)
	}
}

func TestReplace_ReturnsPrevious(t *testing.T) {
	m := New("test")
	m.SetItems([]domain.Item{comment("a", "", 0)}, viewerSnap())
	updated := comment("a", "", 0)
	updated.Body = "changed"
	updated.Edited = true
	prev, ok := m.Replace(updated)
	if !ok || prev.Body != "body a" {
		t.Fatalf("unexpected previous %+v", prev)
	}
	it, _ := m.Item("a")
	if it.Body != "changed" {
		t.Fatalf("replace not applied: %+v", it)
	}
}

func TestFlat_KeepsOrderAndDepth(t *testing.T) {
	m := NewFlat("test")
	m.SetItems([]domain.Item{comment("r2", "x", 0), comment("r1", "y", 5)}, domain.Snapshot{})
	if got := strings.Join(rowIDs(m), ","); got != "r2,r1" {
		t.Fatalf("flat list should keep order and orphans, got %s", got)
	}
	for _, r := range m.Rows() {
		if r.Node.Depth != 0 {
			t.Fatal("flat rows sit at depth 0")
		}
	}
}

func TestAppend_MergesSnapshots(t *testing.T) {
	m := New("test")
	m.SetItems([]domain.Item{comment("a", "", 10)}, domain.Snapshot{
		Viewer: "me",
		Counts: map[string]domain.Counts{"a": {Up: 1}},
	})
	m.Append([]domain.Item{comment("a", "", 10), comment("b", "", 0)}, domain.Snapshot{
		Viewer: "me",
		Counts: map[string]domain.Counts{"b": {Up: 4}},
		Votes:  map[string]domain.Choice{"b": domain.ChoiceUp},
	})
	if m.Len() != 2 {
		t.Fatalf("duplicate should be skipped, got %v", rowIDs(m))
	}
	a, _ := m.Find("a")
	b, _ := m.Find("b")
	if a.Engagement.Up != 1 || b.Engagement.Up != 4 || b.Engagement.Vote != domain.ChoiceUp {
		t.Fatalf("unexpected merge a=%+v b=%+v", a.Engagement, b.Engagement)
	}
}

func TestView_RendersRowsAndEmptyState(t *testing.T) {
	m := New("test")
	if out := m.View(Options{Width: 60, Height: 20, Empty: "No comments yet."}); !strings.Contains(out, "No comments yet.") {
		t.Fatalf("unexpected empty view %q", out)
	}
	m.now = func() time.Time { return base.Add(time.Hour) }
	m.SetItems([]domain.Item{comment("a", "", 0)}, domain.Snapshot{
		Viewer: "u-a",
		Counts: map[string]domain.Counts{"a": {Up: 1200}},
	})
	out := m.View(Options{Width: 60, Height: 20, Viewer: "u-a", Active: true})
	for _, want := range []string{"@usera", "body a", "1.2k", "you", "1h"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}
