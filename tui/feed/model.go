// Package feed is the social timeline: paged threads of posts with likes,
// reposts and replies, plus follow suggestions.
package feed

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/CrestNiraj12/podrant/app"
	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
	"github.com/CrestNiraj12/podrant/tui/thread"
)

const (
	feedList        = "feed"
	suggestionLimit = 5
)

type pane int

const (
	postsPane pane = iota
	suggestionsPane
)

// --- Messages ---

type pageMsg struct {
	Req   app.PageRequest
	Items []domain.Item
	Snap  domain.Snapshot
	Err   error
}

type suggestionsMsg struct {
	Users []domain.SuggestedUser
	Err   error
}

type followResultMsg struct {
	UserID    string
	Following bool
	Err       error
}

// --- Model ---

// Model holds the state for the feed view.
type Model struct {
	posts    app.PostService
	accounts app.AccountService
	keys     common.KeyMap
	spinner  spinner.Model

	session domain.Session
	author  domain.Profile

	list    thread.Model
	pager   app.Cursor
	initReq app.PageRequest
	err     error

	pane        pane
	suggestions []domain.SuggestedUser
	suggestSel  int

	width  int
	height int
}

// New creates the feed view.
func New(posts app.PostService, accounts app.AccountService, session domain.Session, author domain.Profile) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	m := Model{
		posts:    posts,
		accounts: accounts,
		keys:     common.DefaultKeyMap(),
		spinner:  s,
		session:  session,
		author:   author,
		list:     thread.New(feedList),
		pager:    app.NewCursor(app.DefaultPageSize),
	}
	m.initReq = m.pager.Reset()
	return m
}

// Init loads the first page and the suggestions.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchPage(m.initReq), m.fetchSuggestions(), m.spinner.Tick)
}

// SetSize updates the available area.
func (m *Model) SetSize(w, h int) { m.width, m.height = w, h }

// SetViewer updates the signed-in viewer and profile.
func (m *Model) SetViewer(s domain.Session, p domain.Profile) {
	m.session, m.author = s, p
}

func (m Model) env() thread.Env {
	return thread.Env{
		Store:   thread.PostStore(m.posts),
		Session: m.session,
		Author:  m.author,
		Kind:    domain.KindPost,
	}
}

// --- Commands ---

func (m Model) fetchPage(req app.PageRequest) tea.Cmd {
	posts := m.posts
	return func() tea.Msg {
		ctx := context.Background()
		items, err := posts.FeedPage(ctx, req.Page)
		if err != nil {
			return pageMsg{Req: req, Err: err}
		}
		return pageMsg{Req: req, Items: items, Snap: app.ThreadSnapshot(ctx, items, posts)}
	}
}

func (m Model) fetchSuggestions() tea.Cmd {
	accounts := m.accounts
	if !m.session.SignedIn() {
		return nil
	}
	return func() tea.Msg {
		users, err := accounts.SuggestedUsers(context.Background(), suggestionLimit)
		return suggestionsMsg{Users: users, Err: err}
	}
}

func (m Model) follow(userID string, follow bool) tea.Cmd {
	accounts := m.accounts
	return func() tea.Msg {
		var err error
		if follow {
			err = accounts.Follow(context.Background(), userID)
		} else {
			err = accounts.Unfollow(context.Background(), userID)
		}
		return followResultMsg{UserID: userID, Following: follow, Err: err}
	}
}

// roots counts the top-level posts of a page, which is what the page
// size applies to.
func roots(items []domain.Item) int {
	return lo.CountBy(items, func(it domain.Item) bool { return !it.IsReply() })
}

func (m *Model) setFollowing(userID string, following bool) {
	m.suggestions = slices.Clone(m.suggestions)
	for i := range m.suggestions {
		if m.suggestions[i].Profile.UserID == userID {
			m.suggestions[i].Following = following
		}
	}
}
