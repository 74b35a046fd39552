// Package discover is the podcast browsing view: genre filters, a paged
// show list and debounced search.
package discover

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/podrant/app"
	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
)

const (
	minSuggestLen  = 2
	maxSuggestions = 5
)

// --- Messages ---

type genresLoadedMsg struct {
	Genres []domain.Genre
	Err    error
}

type pageLoadedMsg struct {
	Req   app.PageRequest
	Shows []domain.Podcast
	Err   error
}

type searchLoadedMsg struct {
	Epoch uint64
	Query string
	Shows []domain.Podcast
	Err   error
}

type suggestTickMsg struct {
	Seq   uint64
	Fired bool
}

type suggestionsMsg struct {
	Seq   uint64
	Shows []domain.Podcast
	Err   error
}

// --- Model ---

// Model holds the state for the discover view.
type Model struct {
	podcasts app.PodcastService
	keys     common.KeyMap
	spinner  spinner.Model

	genres  []domain.Genre
	genreID string // Empty for all genres

	shows   []domain.Podcast
	pager   app.Cursor
	initReq app.PageRequest
	sel     int
	start   int
	err     error
	query   string // Submitted search, empty when browsing
	search  textinput.Model

	debounce    *app.Debouncer
	suggestSeq  uint64
	suggestions []domain.Podcast
	suggestSel  int // -1 when the input line is selected

	width  int
	height int
}

// New creates a discover model starting on the given genre.
func New(podcasts app.PodcastService, genreID string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	ti := textinput.New()
	ti.Placeholder = "Search podcasts"
	ti.Prompt = "/ "
	ti.CharLimit = 100

	m := Model{
		podcasts:   podcasts,
		keys:       common.DefaultKeyMap(),
		spinner:    s,
		genreID:    genreID,
		pager:      app.NewCursor(app.DefaultPageSize),
		search:     ti,
		debounce:   app.NewDebouncer(app.SuggestDelay),
		suggestSel: -1,
	}
	m.initReq = m.pager.Reset()
	return m
}

// Init loads genres and the first page.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchGenres(), m.fetchPage(m.initReq), m.spinner.Tick)
}

// GenreID returns the active genre filter.
func (m Model) GenreID() string { return m.genreID }

// Typing reports whether the search input has focus, so global keys
// must not be intercepted.
func (m Model) Typing() bool { return m.search.Focused() }

// SetSize updates the available area.
func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
	m.search.Width = max(10, w-6)
}

// Close stops the pending suggestion timer.
func (m Model) Close() {
	m.debounce.Stop()
}

// --- Commands ---

func (m Model) fetchGenres() tea.Cmd {
	podcasts := m.podcasts
	return func() tea.Msg {
		genres, err := podcasts.Genres(context.Background())
		return genresLoadedMsg{Genres: genres, Err: err}
	}
}

func (m Model) fetchPage(req app.PageRequest) tea.Cmd {
	podcasts, genre := m.podcasts, m.genreID
	return func() tea.Msg {
		shows, err := podcasts.BestPodcasts(context.Background(), genre, req.Page)
		return pageLoadedMsg{Req: req, Shows: shows, Err: err}
	}
}

func (m Model) fetchSearch(epoch uint64, query string) tea.Cmd {
	podcasts := m.podcasts
	return func() tea.Msg {
		shows, err := podcasts.Search(context.Background(), query)
		return searchLoadedMsg{Epoch: epoch, Query: query, Shows: shows, Err: err}
	}
}

func (m Model) waitSuggest(seq uint64) tea.Cmd {
	ch := m.debounce.Schedule()
	return func() tea.Msg {
		return suggestTickMsg{Seq: seq, Fired: <-ch}
	}
}

func (m Model) fetchSuggestions(seq uint64, query string) tea.Cmd {
	podcasts := m.podcasts
	return func() tea.Msg {
		shows, err := podcasts.Search(context.Background(), query)
		return suggestionsMsg{Seq: seq, Shows: shows, Err: err}
	}
}

// --- Update ---

// Update handles messages for the discover view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case genresLoadedMsg:
		if msg.Err != nil {
			return m, common.Failed(msg.Err)
		}
		m.genres = msg.Genres
		return m, nil

	case pageLoadedMsg:
		if msg.Err != nil {
			if m.pager.Fail(msg.Req) {
				m.err = msg.Err
			}
			return m, nil
		}
		if !m.pager.Complete(msg.Req, len(msg.Shows)) {
			return m, nil
		}
		m.err = nil
		if msg.Req.Page == 1 {
			m.shows = nil
			m.sel, m.start = 0, 0
		}
		m.shows = append(m.shows, msg.Shows...)
		return m, nil

	case searchLoadedMsg:
		if !m.pager.IsCurrent(msg.Epoch) || msg.Query != m.query {
			return m, nil
		}
		m.err = msg.Err
		if msg.Err == nil {
			m.shows = msg.Shows
			m.sel, m.start = 0, 0
		}
		return m, nil

	case suggestTickMsg:
		if !msg.Fired || msg.Seq != m.suggestSeq {
			return m, nil
		}
		return m, m.fetchSuggestions(msg.Seq, strings.TrimSpace(m.search.Value()))

	case suggestionsMsg:
		if msg.Seq != m.suggestSeq || msg.Err != nil || !m.search.Focused() {
			return m, nil
		}
		m.suggestions = msg.Shows[:min(len(msg.Shows), maxSuggestions)]
		m.suggestSel = -1
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearchKey(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Back):
		if m.query == "" {
			return m, nil
		}
		m.query = ""
		req := m.pager.ExitSearch()
		return m, m.fetchPage(req)

	case key.Matches(msg, m.keys.Refresh):
		if m.query != "" {
			return m, m.fetchSearch(m.pager.EnterSearch(), m.query)
		}
		return m, m.fetchPage(m.pager.Reset())

	case key.Matches(msg, m.keys.Left):
		return m.shiftGenre(-1)

	case key.Matches(msg, m.keys.Right):
		return m.shiftGenre(+1)

	case key.Matches(msg, m.keys.Up):
		if m.sel > 0 {
			m.sel--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.sel < len(m.shows)-1 {
			m.sel++
		}
		if m.sel >= len(m.shows)-1 {
			if req, ok := m.pager.Next(); ok {
				return m, m.fetchPage(req)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.sel < len(m.shows) {
			return m, common.Emit(common.OpenPodcastMsg{ID: m.shows[m.sel].ID})
		}
	}
	return m, nil
}

// shiftGenre cycles the filter through "all" and the loaded genres.
func (m Model) shiftGenre(delta int) (Model, tea.Cmd) {
	if len(m.genres) == 0 || m.query != "" {
		return m, nil
	}
	idx := -1
	for i, g := range m.genres {
		if g.ID == m.genreID {
			idx = i
		}
	}
	n := len(m.genres) + 1
	idx = ((idx+1+delta)%n+n)%n - 1
	if idx < 0 {
		m.genreID = ""
	} else {
		m.genreID = m.genres[idx].ID
	}
	req := m.pager.Reset()
	m.shows = nil
	m.sel, m.start = 0, 0
	return m, m.fetchPage(req)
}

func (m Model) updateSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.Blur()
		m.clearSuggestions()
		return m, nil

	case "up":
		if m.suggestSel >= 0 {
			m.suggestSel--
		}
		return m, nil

	case "down":
		if m.suggestSel < len(m.suggestions)-1 {
			m.suggestSel++
		}
		return m, nil

	case "enter":
		if m.suggestSel >= 0 && m.suggestSel < len(m.suggestions) {
			id := m.suggestions[m.suggestSel].ID
			m.search.Blur()
			m.clearSuggestions()
			return m, common.Emit(common.OpenPodcastMsg{ID: id})
		}
		query := strings.TrimSpace(m.search.Value())
		m.search.Blur()
		m.clearSuggestions()
		if query == "" {
			if m.query != "" {
				m.query = ""
				return m, m.fetchPage(m.pager.ExitSearch())
			}
			return m, nil
		}
		m.query = query
		return m, m.fetchSearch(m.pager.EnterSearch(), query)
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}

	m.suggestSeq++
	if utf8.RuneCountInString(strings.TrimSpace(m.search.Value())) < minSuggestLen {
		m.debounce.Stop()
		m.suggestions = nil
		m.suggestSel = -1
		return m, cmd
	}
	return m, tea.Batch(cmd, m.waitSuggest(m.suggestSeq))
}

func (m *Model) clearSuggestions() {
	m.suggestSeq++
	m.debounce.Stop()
	m.suggestions = nil
	m.suggestSel = -1
}
