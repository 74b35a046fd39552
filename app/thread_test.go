package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CrestNiraj12/podrant/domain"
)

type stubInteractions struct {
	snap domain.Snapshot
	err  error
	ids  []string
}

func (s *stubInteractions) Interactions(_ context.Context, ids []string) (domain.Snapshot, error) {
	s.ids = ids
	return s.snap, s.err
}

func TestBuildThread_MergesInOneLookup(t *testing.T) {
	now := time.Now()
	items := []domain.Item{
		{ID: "1", CreatedAt: now},
		{ID: "2", ParentID: "1", CreatedAt: now.Add(time.Second)},
	}
	src := &stubInteractions{snap: domain.Snapshot{
		Counts: map[string]domain.Counts{"2": {Up: 3}},
		Viewer: "me",
		Votes:  map[string]domain.Choice{"2": domain.ChoiceUp},
	}}

	tree := BuildThread(context.Background(), items, src)
	if len(src.ids) != 2 {
		t.Fatalf("expected one lookup covering both items, got %v", src.ids)
	}
	reply := tree[0].Replies[0]
	if reply.Engagement.Up != 3 || reply.Engagement.Vote != domain.ChoiceUp {
		t.Fatalf("unexpected reply engagement %#v", reply.Engagement)
	}
}

func TestBuildThread_LookupFailureStillRenders(t *testing.T) {
	items := []domain.Item{{ID: "1", CreatedAt: time.Now()}}
	tree := BuildThread(context.Background(), items, &stubInteractions{err: errors.New("boom")})
	if len(tree) != 1 || tree[0].Engagement.Vote != domain.ChoiceNone {
		t.Fatalf("expected bare tree on lookup failure, got %#v", tree)
	}
}

func TestThreadSnapshot_CoversCollapsedReplies(t *testing.T) {
	now := time.Now()
	items := []domain.Item{{ID: "0", CreatedAt: now}}
	for i := 1; i <= domain.MaxReplyDepth+2; i++ {
		items = append(items, domain.Item{
			ID:        string(rune('0' + i)),
			ParentID:  string(rune('0' + i - 1)),
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
	}
	items = append(items, domain.Item{ID: "orphan", ParentID: "missing", CreatedAt: now})

	src := &stubInteractions{}
	ThreadSnapshot(context.Background(), items, src)
	if len(src.ids) != domain.MaxReplyDepth+3 {
		t.Fatalf("expected every reachable item in the lookup, got %v", src.ids)
	}
	for _, id := range src.ids {
		if id == "orphan" {
			t.Fatal("untethered item must not be looked up")
		}
	}
}

func TestThreadSnapshot_RootsThenRepliesOnce(t *testing.T) {
	now := time.Now()
	items := []domain.Item{
		{ID: "old", CreatedAt: now},
		{ID: "new", CreatedAt: now.Add(time.Minute)},
		{ID: "r1", ParentID: "old", CreatedAt: now.Add(time.Second)},
		{ID: "r2", ParentID: "r1", CreatedAt: now.Add(2 * time.Second)},
		{ID: "r1", ParentID: "old", CreatedAt: now.Add(time.Second)},
	}
	src := &stubInteractions{}
	ThreadSnapshot(context.Background(), items, src)

	want := []string{"new", "old", "r1", "r2"}
	if len(src.ids) != len(want) {
		t.Fatalf("ids = %v, want %v", src.ids, want)
	}
	for i := range want {
		if src.ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", src.ids, want)
		}
	}
}

func TestListSnapshot_FailureIsEmpty(t *testing.T) {
	items := []domain.Item{{ID: "1"}, {ID: "2", ParentID: "elsewhere"}}
	src := &stubInteractions{err: errors.New("boom")}
	snap := ListSnapshot(context.Background(), items, src)
	if len(src.ids) != 2 {
		t.Fatalf("expected list items looked up as-is, got %v", src.ids)
	}
	if snap.Counts != nil || snap.Viewer != "" {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}
