// Package saved lists the episodes the viewer saved for later.
package saved

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/CrestNiraj12/podrant/app"
	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
)

type loadedMsg struct {
	Seq      uint64
	Episodes []domain.Episode
	Err      error
}

type playedMsg struct {
	Episode domain.Episode
	Err     error
}

// Model holds the state for the saved episodes view.
type Model struct {
	podcasts app.PodcastService
	library  app.LibraryService
	player   app.Player
	keys     common.KeyMap
	spinner  spinner.Model

	episodes []domain.Episode
	sel      int
	seq      uint64
	loading  bool
	err      error

	width  int
	height int
}

// New creates the saved episodes view.
func New(podcasts app.PodcastService, library app.LibraryService, player app.Player) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))
	return Model{
		podcasts: podcasts,
		library:  library,
		player:   player,
		keys:     common.DefaultKeyMap(),
		spinner:  s,
		loading:  true,
	}
}

// Init loads the saved episodes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.seq), m.spinner.Tick)
}

// Reload refetches the list, picking up saves made on other pages.
func (m Model) Reload() (Model, tea.Cmd) {
	m.seq++
	m.loading = true
	return m, m.fetch(m.seq)
}

// SetSize updates the available area.
func (m *Model) SetSize(w, h int) { m.width, m.height = w, h }

func (m Model) fetch(seq uint64) tea.Cmd {
	podcasts, library := m.podcasts, m.library
	return func() tea.Msg {
		ids := library.Saved()
		if len(ids) == 0 {
			return loadedMsg{Seq: seq}
		}
		eps, err := podcasts.EpisodesByIDs(context.Background(), ids)
		if err != nil {
			return loadedMsg{Seq: seq, Err: err}
		}
		return loadedMsg{Seq: seq, Episodes: inOrder(ids, eps)}
	}
}

// inOrder arranges eps in the order of ids and drops episodes the
// provider no longer knows.
func inOrder(ids []string, eps []domain.Episode) []domain.Episode {
	byID := lo.KeyBy(eps, func(e domain.Episode) string { return e.ID })
	return lo.FilterMap(ids, func(id string, _ int) (domain.Episode, bool) {
		e, ok := byID[id]
		return e, ok
	})
}

func (m Model) play(ep domain.Episode) tea.Cmd {
	player := m.player
	return func() tea.Msg {
		return playedMsg{Episode: ep, Err: player.Play(ep)}
	}
}

// Update handles messages for the saved view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.episodes = msg.Episodes
		m.sel = max(0, min(m.sel, len(m.episodes)-1))
		return m, nil

	case playedMsg:
		if msg.Err != nil {
			return m, common.Failed(msg.Err)
		}
		return m, common.Status("▶ Playing " + msg.Episode.Title)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sel > 0 {
			m.sel--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.sel < len(m.episodes)-1 {
			m.sel++
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m.Reload()
	case key.Matches(msg, m.keys.Stop):
		return m, common.Failed(m.player.Stop())
	}

	if m.sel >= len(m.episodes) {
		return m, nil
	}
	ep := m.episodes[m.sel]

	switch {
	case key.Matches(msg, m.keys.Enter):
		return m, common.Emit(common.OpenPodcastMsg{ID: ep.PodcastID})
	case key.Matches(msg, m.keys.Play):
		return m, m.play(ep)
	case key.Matches(msg, m.keys.Save):
		saved, err := m.library.ToggleSaved(ep.ID)
		if err != nil {
			return m, common.Failed(err)
		}
		if saved {
			return m, common.Status("Saved for later.")
		}
		m.episodes = slices.Delete(slices.Clone(m.episodes), m.sel, m.sel+1)
		m.sel = max(0, min(m.sel, len(m.episodes)-1))
		return m, common.Status("Removed from saved.")
	}
	return m, nil
}
