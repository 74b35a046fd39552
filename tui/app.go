package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/podrant/app"
	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/infra/config"
	"github.com/CrestNiraj12/podrant/infra/editor"
	"github.com/CrestNiraj12/podrant/tui/common"
	"github.com/CrestNiraj12/podrant/tui/compose"
	"github.com/CrestNiraj12/podrant/tui/discover"
	"github.com/CrestNiraj12/podrant/tui/feed"
	"github.com/CrestNiraj12/podrant/tui/podcast"
	"github.com/CrestNiraj12/podrant/tui/profile"
	"github.com/CrestNiraj12/podrant/tui/saved"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Podcasts  app.PodcastService
	Comments  app.CommentService
	Posts     app.PostService
	Accounts  app.AccountService
	Library   app.LibraryService
	Player    app.Player
	Editor    *editor.EnvEditor // nil composes inline only
	State     config.UIState
	StatePath string
}

type view int

const (
	discoverView view = iota
	feedView
	savedView
	profileView
	podcastView // page opened from a list
	userView    // another user's profile page
)

var tabNames = map[view]string{
	discoverView: "discover",
	feedView:     "feed",
	savedView:    "saved",
	profileView:  "profile",
}

type viewerMsg struct {
	Profile domain.Profile
	Err     error
}

// App is the root Bubble Tea model. It owns the views and routes between them.
type App struct {
	deps Deps
	keys common.KeyMap

	session domain.Session
	viewer  domain.Profile

	tab     view
	active  view
	history []view

	discover discover.Model
	feed     feed.Model
	saved    saved.Model
	mine     profile.Model
	podcast  podcast.Model
	user     profile.Model
	mounted  [userView + 1]bool

	composing    bool
	compose      compose.Model
	composeOwner view

	settingUp bool
	setup     profile.Settings

	status    string
	statusErr bool
	hints     bool

	width  int
	height int
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	session := deps.Accounts.Session()
	tab := discoverView
	for v, name := range tabNames {
		if name == deps.State.View {
			tab = v
		}
	}
	return App{
		deps:     deps,
		keys:     common.DefaultKeyMap(),
		session:  session,
		tab:      tab,
		active:   tab,
		discover: discover.New(deps.Podcasts, deps.State.GenreID),
		feed:     feed.New(deps.Posts, deps.Accounts, session, domain.Profile{}),
		saved:    saved.New(deps.Podcasts, deps.Library, deps.Player),
		mine:     profile.New(deps.Posts, deps.Accounts, "", parseTab(deps.State.ProfileTab), session, domain.Profile{}),
	}
}

func parseTab(s string) domain.ProfileTab {
	for _, t := range []domain.ProfileTab{domain.TabPosts, domain.TabReplies, domain.TabLikes} {
		if strings.EqualFold(t.String(), s) {
			return t
		}
	}
	return domain.TabPosts
}

// Init starts every tab and looks up the viewer's profile.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.discover.Init(),
		a.feed.Init(),
		a.saved.Init(),
		a.mine.Init(),
		a.loadViewer(),
	)
}

func (a App) loadViewer() tea.Cmd {
	if !a.session.SignedIn() {
		return nil
	}
	accounts := a.deps.Accounts
	return func() tea.Msg {
		p, err := accounts.CurrentProfile(context.Background())
		return viewerMsg{Profile: p, Err: err}
	}
}

// Update handles messages and routes them to the views.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case viewerMsg:
		switch {
		case msg.Err == nil:
			return a, common.Emit(common.ProfileChangedMsg{Profile: msg.Profile})
		case errors.Is(msg.Err, domain.ErrNotFound):
			a.settingUp = true
			a.setup = profile.NewSetup(a.deps.Accounts)
			return a, a.setup.Init()
		default:
			log.Warn().Err(msg.Err).Msg("loading viewer profile")
			return a, common.Failed(msg.Err)
		}

	case common.StatusMsg:
		a.status, a.statusErr = msg.Text, msg.Err != nil
		if msg.Err != nil {
			a.status = common.ErrorText(msg.Err)
		}
		return a, nil

	case common.OpenPodcastMsg:
		a.podcast = podcast.New(podcast.Deps{
			Podcasts: a.deps.Podcasts,
			Comments: a.deps.Comments,
			Library:  a.deps.Library,
			Player:   a.deps.Player,
		}, msg.ID, a.session, a.viewer)
		a.open(podcastView)
		a.resize()
		return a, a.podcast.Init()

	case common.OpenProfileMsg:
		if msg.Username == "" || msg.Username == a.viewer.Username {
			return a.switchTab(profileView)
		}
		a.user = profile.New(a.deps.Posts, a.deps.Accounts, msg.Username, domain.TabPosts, a.session, a.viewer)
		a.open(userView)
		a.resize()
		return a, a.user.Init()

	case common.BackMsg:
		a.back()
		return a, nil

	case common.ProfileChangedMsg:
		a.viewer = msg.Profile
		a.podcast.SetViewer(a.session, msg.Profile)
		return a.broadcast(msg)

	case profile.SettingsDoneMsg:
		if !a.settingUp {
			return a.broadcast(msg)
		}
		a.settingUp = false
		a.setup.Close()
		if !msg.Saved {
			return a, nil
		}
		a.mine = profile.New(a.deps.Posts, a.deps.Accounts, "", a.mine.Tab(), a.session, msg.Profile)
		a.resize()
		return a, a.mine.Init()

	case compose.RequestMsg:
		a.status = ""
		a.composing = true
		a.composeOwner = a.active
		if msg.Inline || a.deps.Editor == nil {
			a.compose = compose.NewInline(msg.Target, msg.Content)
		} else {
			a.compose = compose.NewEditor(a.deps.Editor, msg.Target, msg.Content)
		}
		return a, a.compose.Init()

	case compose.DoneMsg:
		a.composing = false
		var cmd tea.Cmd
		a, cmd = a.updateView(a.composeOwner, msg)
		return a, cmd
	}

	return a.broadcast(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a.quit()
	}

	var cmd tea.Cmd
	switch {
	case a.composing:
		a.compose, cmd = a.compose.Update(msg)
		return a, cmd
	case a.settingUp:
		a.setup, cmd = a.setup.Update(msg)
		return a, cmd
	}

	if !a.typing() {
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a.quit()
		case key.Matches(msg, a.keys.ToggleHints):
			a.hints = !a.hints
			return a, nil
		case key.Matches(msg, a.keys.Discover):
			return a.switchTab(discoverView)
		case key.Matches(msg, a.keys.Feed):
			return a.switchTab(feedView)
		case key.Matches(msg, a.keys.Saved):
			return a.switchTab(savedView)
		case key.Matches(msg, a.keys.Profile):
			return a.switchTab(profileView)
		}
	}

	a, cmd = a.updateView(a.active, msg)
	return a, cmd
}

// typing reports whether a text field has the keyboard, which disables
// the single-letter global keys.
func (a App) typing() bool {
	switch a.active {
	case discoverView:
		return a.discover.Typing()
	case profileView:
		return a.mine.Editing()
	case userView:
		return a.user.Editing()
	}
	return false
}

func (a App) switchTab(v view) (App, tea.Cmd) {
	a.tab, a.active = v, v
	a.history = nil
	a.status = ""
	if v == savedView {
		var cmd tea.Cmd
		a.saved, cmd = a.saved.Reload()
		return a, cmd
	}
	return a, nil
}

func (a *App) open(v view) {
	if a.active != v {
		a.history = append(a.history, a.active)
	}
	a.active = v
	a.mounted[v] = true
	a.status = ""
}

func (a *App) back() {
	if n := len(a.history); n > 0 {
		a.active = a.history[n-1]
		a.history = a.history[:n-1]
	} else {
		a.active = a.tab
	}
	for _, v := range []view{podcastView, userView} {
		if a.active != v && !containsView(a.history, v) {
			a.mounted[v] = false
		}
	}
}

func containsView(vs []view, v view) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

func (a App) quit() (App, tea.Cmd) {
	st := config.UIState{
		View:       tabNames[a.tab],
		GenreID:    a.discover.GenreID(),
		ProfileTab: strings.ToLower(a.mine.Tab().String()),
	}
	if a.deps.StatePath != "" {
		if err := config.SaveUIState(a.deps.StatePath, st); err != nil {
			log.Warn().Err(err).Msg("saving ui state")
		}
	}
	if err := a.deps.Player.Stop(); err != nil {
		log.Debug().Err(err).Msg("stopping player")
	}
	a.discover.Close()
	if a.settingUp {
		a.setup.Close()
	}
	return a, tea.Quit
}

func (a *App) resize() {
	h := a.height - 4
	a.discover.SetSize(a.width, h)
	a.feed.SetSize(a.width, h)
	a.saved.SetSize(a.width, h)
	a.mine.SetSize(a.width, h)
	a.podcast.SetSize(a.width, h)
	a.user.SetSize(a.width, h)
}

// updateView sends msg to one view.
func (a App) updateView(v view, msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch v {
	case discoverView:
		a.discover, cmd = a.discover.Update(msg)
	case feedView:
		a.feed, cmd = a.feed.Update(msg)
	case savedView:
		a.saved, cmd = a.saved.Update(msg)
	case profileView:
		a.mine, cmd = a.mine.Update(msg)
	case podcastView:
		if a.mounted[podcastView] {
			a.podcast, cmd = a.podcast.Update(msg)
		}
	case userView:
		if a.mounted[userView] {
			a.user, cmd = a.user.Update(msg)
		}
	}
	return a, cmd
}

// broadcast sends a non-key message to every mounted view and overlay.
// Results carry enough identity for each view to ignore the others'.
func (a App) broadcast(msg tea.Msg) (App, tea.Cmd) {
	var cmds []tea.Cmd
	for _, v := range []view{discoverView, feedView, savedView, profileView, podcastView, userView} {
		var cmd tea.Cmd
		a, cmd = a.updateView(v, msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	if a.composing {
		a.compose, cmd = a.compose.Update(msg)
		cmds = append(cmds, cmd)
	}
	if a.settingUp {
		a.setup, cmd = a.setup.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// View renders the tab bar, the active view and the status line.
func (a App) View() string {
	var b strings.Builder
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")

	switch {
	case a.composing:
		b.WriteString(a.compose.View())
	case a.settingUp:
		b.WriteString(a.setup.View())
	default:
		b.WriteString(a.activeView())
	}

	if a.status != "" {
		b.WriteString("\n")
		if a.statusErr {
			b.WriteString(common.ErrorStyle.Render(a.status))
		} else {
			b.WriteString(common.StatusBarStyle.Render(a.status))
		}
	}
	if a.hints {
		b.WriteString("\n" + common.HintLine(a.keys.Discover, a.keys.Feed, a.keys.Saved, a.keys.Profile, a.keys.ToggleHints, a.keys.Quit))
	}
	return b.String()
}

func (a App) activeView() string {
	switch a.active {
	case feedView:
		return a.feed.View()
	case savedView:
		return a.saved.View()
	case profileView:
		return a.mine.View()
	case podcastView:
		return a.podcast.View()
	case userView:
		return a.user.View()
	}
	return a.discover.View()
}

func (a App) renderTabs() string {
	parts := []string{common.AppTitleStyle.Render("podrant")}
	for _, v := range []view{discoverView, feedView, savedView, profileView} {
		label := strings.ToUpper(tabNames[v][:1]) + tabNames[v][1:]
		if v == a.tab {
			parts = append(parts, common.TabActiveStyle.Render(label))
		} else {
			parts = append(parts, common.TabInactiveStyle.Render(label))
		}
	}
	if a.viewer.Username != "" {
		parts = append(parts, common.MetadataStyle.Render("@"+a.viewer.Username))
	} else if !a.session.SignedIn() {
		parts = append(parts, common.MetadataStyle.Render("signed out"))
	}
	return strings.Join(parts, " ")
}
