package profile

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
)

// Update handles messages for the profile page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case profileMsg:
		if msg.Username != m.username {
			return m, nil
		}
		if msg.Err != nil {
			m.loadErr = msg.Err
			return m, nil
		}
		m.loadErr = nil
		m.loaded = true
		m.profile = msg.Profile
		m.following = msg.Following
		return m, m.fetchPosts()

	case postsMsg:
		if msg.User != m.username || msg.Seq != m.listSeq || msg.Tab != m.tab {
			return m, nil
		}
		m.listLoading = false
		if msg.Err != nil {
			m.listErr = msg.Err
			return m, common.Failed(msg.Err)
		}
		m.list.SetItems(msg.Items, msg.Snap)
		return m, nil

	case followMsg:
		if msg.UserID != m.profile.UserID || msg.Err == nil {
			return m, nil
		}
		m.setFollowing(!msg.Following)
		return m, common.Failed(msg.Err)

	case SettingsDoneMsg:
		if !m.editing {
			return m, nil
		}
		m.editing = false
		if msg.Saved {
			m.applyProfile(msg.Profile)
		}
		return m, nil

	case common.ProfileChangedMsg:
		m.author = msg.Profile
		if m.Own() {
			m.applyProfile(msg.Profile)
		}
		if m.editing {
			var cmd tea.Cmd
			m.settings, cmd = m.settings.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			var cmd tea.Cmd
			m.settings, cmd = m.settings.Update(msg)
			return m, cmd
		}
		return m.updateKey(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.list, cmd, _ = m.list.Update(msg, m.env())
	return m, cmd
}

// applyProfile takes the editable fields of p and keeps the counts,
// which the update endpoints do not return.
func (m *Model) applyProfile(p domain.Profile) {
	if p.UserID != "" && p.UserID != m.profile.UserID {
		return
	}
	m.profile.Username = p.Username
	m.profile.Bio = p.Bio
	if p.AvatarURL != "" {
		m.profile.AvatarURL = p.AvatarURL
	}
	if p.BannerURL != "" {
		m.profile.BannerURL = p.BannerURL
	}
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.loaded {
		updated, cmd, handled := m.list.Update(msg, m.env())
		m.list = updated
		if handled {
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, common.Emit(common.BackMsg{})
	case key.Matches(msg, m.keys.Refresh):
		m.loadErr = nil
		return m, m.fetchProfile()
	}
	if !m.loaded {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.NextPane):
		delta := 1
		if key.Matches(msg, m.keys.Left) {
			delta = -1
		}
		m.tab = tabs[(tabIndex(m.tab)+delta+len(tabs))%len(tabs)]
		m.list.Clear()
		return m, m.fetchPosts()

	case key.Matches(msg, m.keys.Follow):
		if !m.session.SignedIn() {
			return m, common.Failed(domain.ErrUnauthenticated)
		}
		if m.Own() {
			return m, nil
		}
		next := !m.following
		m.setFollowing(next)
		return m, m.follow(m.profile.UserID, next)

	case key.Matches(msg, m.keys.Settings):
		if !m.Own() {
			return m, nil
		}
		m.editing = true
		m.settings = NewSettings(m.accounts, m.profile)
		return m, m.settings.Init()
	}
	return m, nil
}
