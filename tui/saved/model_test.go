package saved

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
)

type stubPodcasts struct{ err error }

func (stubPodcasts) Genres(context.Context) ([]domain.Genre, error) { return nil, nil }
func (stubPodcasts) BestPodcasts(context.Context, string, int) ([]domain.Podcast, error) {
	return nil, nil
}
func (stubPodcasts) Search(context.Context, string) ([]domain.Podcast, error) { return nil, nil }
func (stubPodcasts) Podcast(context.Context, string) (domain.Podcast, error) {
	return domain.Podcast{}, nil
}
func (stubPodcasts) Episodes(context.Context, string) ([]domain.Episode, error) { return nil, nil }
func (s stubPodcasts) EpisodesByIDs(_ context.Context, ids []string) ([]domain.Episode, error) {
	if s.err != nil {
		return nil, s.err
	}
	// Provider order differs from the saved order; "gone" is unknown.
	var out []domain.Episode
	for i := len(ids) - 1; i >= 0; i-- {
		id := ids[i]
		if id != "gone" {
			out = append(out, domain.Episode{ID: id, Title: "Episode " + id, PodcastID: "show-" + id})
		}
	}
	return out, nil
}

type stubLibrary struct{ saved []string }

func (l *stubLibrary) IsSaved(id string) bool { return slices.Contains(l.saved, id) }
func (l *stubLibrary) ToggleSaved(id string) (bool, error) {
	if i := slices.Index(l.saved, id); i >= 0 {
		l.saved = slices.Delete(l.saved, i, i+1)
		return false, nil
	}
	l.saved = append(l.saved, id)
	return true, nil
}
func (l *stubLibrary) Saved() []string                       { return slices.Clone(l.saved) }
func (l *stubLibrary) EpisodeVotes(string) domain.Engagement { return domain.Engagement{} }
func (l *stubLibrary) VoteEpisode(string, domain.Choice) (domain.Engagement, error) {
	return domain.Engagement{}, nil
}
func (l *stubLibrary) IsSubscribed(string) bool                     { return false }
func (l *stubLibrary) ToggleSubscription(string) (bool, int, error) { return false, 0, nil }
func (l *stubLibrary) SubscriberCount(string) int                   { return 0 }

type stubPlayer struct {
	played  []string
	playErr error
}

func (p *stubPlayer) Play(ep domain.Episode) error {
	p.played = append(p.played, ep.ID)
	return p.playErr
}
func (p *stubPlayer) Stop() error                        { return nil }
func (p *stubPlayer) NowPlaying() (domain.Episode, bool) { return domain.Episode{}, false }

func press(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func loaded(m Model) Model {
	m, _ = m.Update(m.fetch(m.seq)())
	return m
}

func TestLoad_KeepsSavedOrder(t *testing.T) {
	lib := &stubLibrary{saved: []string{"a", "gone", "b", "c"}}
	m := loaded(New(stubPodcasts{}, lib, &stubPlayer{}))

	got := make([]string, 0, len(m.episodes))
	for _, ep := range m.episodes {
		got = append(got, ep.ID)
	}
	if strings.Join(got, ",") != "a,b,c" {
		t.Fatalf("unexpected order %v", got)
	}
	if !strings.Contains(m.View(), "Episode a") {
		t.Fatalf("unexpected view:\n%s", m.View())
	}
}

func TestEmptyAndError(t *testing.T) {
	m := loaded(New(stubPodcasts{}, &stubLibrary{}, &stubPlayer{}))
	if !strings.Contains(m.View(), "Nothing saved yet") {
		t.Fatalf("unexpected empty view:\n%s", m.View())
	}

	lib := &stubLibrary{saved: []string{"a"}}
	m = loaded(New(stubPodcasts{err: errors.New("offline")}, lib, &stubPlayer{}))
	if m.err == nil {
		t.Fatal("expected load error")
	}
}

func TestKeys_UnsavePlayOpen(t *testing.T) {
	lib := &stubLibrary{saved: []string{"a", "b"}}
	player := &stubPlayer{}
	m := loaded(New(stubPodcasts{}, lib, player))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if open := cmd().(common.OpenPodcastMsg); open.ID != "show-b" {
		t.Fatalf("unexpected podcast %q", open.ID)
	}

	_, cmd = m.Update(press(" "))
	if msg := cmd().(playedMsg); msg.Episode.ID != "b" {
		t.Fatalf("unexpected play %+v", msg)
	}

	m, _ = m.Update(press("s"))
	if len(m.episodes) != 1 || m.episodes[0].ID != "a" || m.sel != 0 {
		t.Fatalf("unsave should drop the row, got %+v sel=%d", m.episodes, m.sel)
	}
	if lib.IsSaved("b") {
		t.Fatal("library should forget b")
	}
}

func TestStaleReloadIgnored(t *testing.T) {
	lib := &stubLibrary{saved: []string{"a"}}
	m := New(stubPodcasts{}, lib, &stubPlayer{})
	stale := m.fetch(m.seq)
	m, _ = m.Reload()
	lib.saved = nil
	m, _ = m.Update(stale())
	if len(m.episodes) != 0 || !m.loading {
		t.Fatal("result from before the reload must be ignored")
	}
}

func TestPlayFailureReported(t *testing.T) {
	m := New(stubPodcasts{}, &stubLibrary{}, &stubPlayer{})
	_, cmd := m.Update(playedMsg{Err: errors.New("no player")})
	if s := cmd().(common.StatusMsg); s.Err == nil {
		t.Fatal("expected failure status")
	}
}
