// Package profile shows a user's page: header counts, the follow toggle,
// tabbed post lists and the settings form for the viewer's own profile.
package profile

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

var tabs = []domain.ProfileTab{domain.TabPosts, domain.TabReplies, domain.TabLikes}

// --- Messages ---

type profileMsg struct {
	Username  string
	Profile   domain.Profile
	Following bool
	Err       error
}

type postsMsg struct {
	User  string
	Seq   uint64
	Tab   domain.ProfileTab
	Items []domain.Item
	Snap  domain.Snapshot
	Err   error
}

type followMsg struct {
	UserID    string
	Following bool
	Err       error
}

// --- Model ---

// Model holds the state for a profile page.
type Model struct {
	posts    app.PostService
	accounts app.AccountService
	keys     common.KeyMap
	spinner  spinner.Model

	username string // requested; empty means the viewer
	session  domain.Session
	author   domain.Profile

	profile   domain.Profile
	loaded    bool
	loadErr   error
	following bool

	tab         domain.ProfileTab
	list        thread.Model
	listSeq     uint64
	listLoading bool
	listErr     error

	editing  bool
	settings Settings

	width  int
	height int
}

// New creates a profile page for username, or for the viewer when
// username is empty.
func New(posts app.PostService, accounts app.AccountService, username string, tab domain.ProfileTab, session domain.Session, author domain.Profile) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	return Model{
		posts:    posts,
		accounts: accounts,
		keys:     common.DefaultKeyMap(),
		spinner:  s,
		username: username,
		session:  session,
		author:   author,
		tab:      tab,
		list:     thread.NewFlat("profile:" + username),
	}
}

// Init loads the profile header.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchProfile(), m.spinner.Tick)
}

// Username is the requested username, empty for the viewer's own page.
func (m Model) Username() string { return m.username }

// Tab is the selected list tab.
func (m Model) Tab() domain.ProfileTab { return m.tab }

// Editing reports whether the settings form has the keyboard.
func (m Model) Editing() bool { return m.editing }

// Own reports whether the page belongs to the viewer.
func (m Model) Own() bool {
	return m.session.SignedIn() && m.profile.UserID == m.session.UserID
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

func (m Model) fetchProfile() tea.Cmd {
	accounts, username, session := m.accounts, m.username, m.session
	return func() tea.Msg {
		ctx := context.Background()
		var (
			p   domain.Profile
			err error
		)
		if username == "" {
			p, err = accounts.CurrentProfile(ctx)
		} else {
			p, err = accounts.ProfileByUsername(ctx, username)
		}
		if err != nil {
			return profileMsg{Username: username, Err: err}
		}
		var following bool
		if session.SignedIn() && p.UserID != session.UserID {
			// A failed lookup shows "follow"; the toggle corrects it.
			following, _ = accounts.IsFollowing(ctx, p.UserID)
		}
		return profileMsg{Username: username, Profile: p, Following: following}
	}
}

func (m *Model) fetchPosts() tea.Cmd {
	m.listSeq++
	m.listLoading = true
	m.listErr = nil
	seq, tab, userID, posts, user := m.listSeq, m.tab, m.profile.UserID, m.posts, m.username
	return func() tea.Msg {
		ctx := context.Background()
		items, err := posts.ProfilePosts(ctx, userID, tab)
		if err != nil {
			return postsMsg{User: user, Seq: seq, Tab: tab, Err: err}
		}
		return postsMsg{User: user, Seq: seq, Tab: tab, Items: items, Snap: app.ListSnapshot(ctx, items, posts)}
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
		return followMsg{UserID: userID, Following: follow, Err: err}
	}
}

func (m *Model) setFollowing(following bool) {
	if m.following == following {
		return
	}
	m.following = following
	if following {
		m.profile.Followers++
	} else if m.profile.Followers > 0 {
		m.profile.Followers--
	}
}

func tabIndex(t domain.ProfileTab) int {
	for i, tab := range tabs {
		if tab == t {
			return i
		}
	}
	return 0
}
