// Package podcast is the show page: metadata, episodes with thumbs, save
// and playback, and the threaded comments of the selected episode.
package podcast

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/podrant/app"
	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
	"github.com/CrestNiraj12/podrant/tui/thread"
)

const commentsList = "comments"

type pane int

const (
	episodesPane pane = iota
	commentsPane
)

// Deps are the services the podcast page uses.
type Deps struct {
	Podcasts app.PodcastService
	Comments app.CommentService
	Library  app.LibraryService
	Player   app.Player
}

// --- Messages ---

type loadedMsg struct {
	ID       string
	Podcast  domain.Podcast
	Episodes []domain.Episode
	Err      error
}

type commentsLoadedMsg struct {
	Seq       uint64
	EpisodeID string
	Items     []domain.Item
	Snap      domain.Snapshot
	Err       error
}

type playedMsg struct {
	Episode domain.Episode
	Err     error
}

// --- Model ---

// Model holds the state for one podcast page.
type Model struct {
	deps    Deps
	keys    common.KeyMap
	spinner spinner.Model

	session domain.Session
	author  domain.Profile

	id       string
	podcast  domain.Podcast
	episodes []domain.Episode
	loading  bool
	err      error
	sel      int

	pane            pane
	episodeID       string // Episode whose comments are loaded
	comments        thread.Model
	commentsSeq     uint64
	commentsLoading bool
	commentsErr     error

	width  int
	height int
}

// New creates a podcast page for the show id.
func New(deps Deps, id string, session domain.Session, author domain.Profile) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	return Model{
		deps:     deps,
		keys:     common.DefaultKeyMap(),
		spinner:  s,
		session:  session,
		author:   author,
		id:       id,
		loading:  true,
		comments: thread.New(commentsList),
	}
}

// Init loads the show and its episodes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

// ID returns the show this page displays.
func (m Model) ID() string { return m.id }

// SetSize updates the available area.
func (m *Model) SetSize(w, h int) { m.width, m.height = w, h }

// SetViewer updates the signed-in viewer and profile.
func (m *Model) SetViewer(s domain.Session, p domain.Profile) {
	m.session, m.author = s, p
}

func (m Model) env() thread.Env {
	return thread.Env{
		Store:   thread.CommentStore(m.deps.Comments),
		Session: m.session,
		Author:  m.author,
		Kind:    domain.KindComment,
		Scope:   m.episodeID,
	}
}

func (m Model) selected() (domain.Episode, bool) {
	if m.sel < 0 || m.sel >= len(m.episodes) {
		return domain.Episode{}, false
	}
	return m.episodes[m.sel], true
}

// --- Commands ---

func (m Model) fetch() tea.Cmd {
	podcasts, id := m.deps.Podcasts, m.id
	return func() tea.Msg {
		ctx := context.Background()
		p, err := podcasts.Podcast(ctx, id)
		if err != nil {
			return loadedMsg{ID: id, Err: err}
		}
		eps, err := podcasts.Episodes(ctx, id)
		return loadedMsg{ID: id, Podcast: p, Episodes: eps, Err: err}
	}
}

func (m Model) fetchComments(seq uint64, episodeID string) tea.Cmd {
	comments := m.deps.Comments
	return func() tea.Msg {
		ctx := context.Background()
		items, err := comments.Comments(ctx, episodeID)
		if err != nil {
			return commentsLoadedMsg{Seq: seq, EpisodeID: episodeID, Err: err}
		}
		return commentsLoadedMsg{
			Seq:       seq,
			EpisodeID: episodeID,
			Items:     items,
			Snap:      app.ThreadSnapshot(ctx, items, comments),
		}
	}
}

func (m Model) play(ep domain.Episode) tea.Cmd {
	player := m.deps.Player
	return func() tea.Msg {
		return playedMsg{Episode: ep, Err: player.Play(ep)}
	}
}
