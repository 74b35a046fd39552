package feed

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/podrant/tui/common"
)

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageMsg:
		if msg.Err != nil {
			if m.pager.Fail(msg.Req) {
				m.err = msg.Err
				return m, common.Failed(msg.Err)
			}
			return m, nil
		}
		if !m.pager.Complete(msg.Req, roots(msg.Items)) {
			return m, nil
		}
		m.err = nil
		if msg.Req.Page == 1 {
			m.list.SetItems(msg.Items, msg.Snap)
		} else {
			m.list.Append(msg.Items, msg.Snap)
		}
		return m, nil

	case suggestionsMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.suggestions = msg.Users
		m.suggestSel = max(0, min(m.suggestSel, len(m.suggestions)-1))
		return m, nil

	case followResultMsg:
		if msg.Err != nil {
			m.setFollowing(msg.UserID, !msg.Following)
			return m, common.Failed(msg.Err)
		}
		return m, nil

	case common.ProfileChangedMsg:
		m.author = msg.Profile
		return m, nil

	case tea.KeyMsg:
		if m.pane == suggestionsPane {
			return m.updateSuggestionsKey(msg)
		}
		return m.updatePostsKey(msg)
	}

	var cmd tea.Cmd
	m.list, cmd, _ = m.list.Update(msg, m.env())
	return m, cmd
}

func (m Model) updatePostsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd, handled := m.list.Update(msg, m.env())
	m.list = updated
	if handled {
		if key.Matches(msg, m.keys.Down) && m.list.AtEnd() {
			if req, ok := m.pager.Next(); ok {
				return m, tea.Batch(cmd, m.fetchPage(req))
			}
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.NextPane):
		if len(m.suggestions) > 0 {
			m.pane = suggestionsPane
		}
	}
	return m, nil
}

func (m Model) refresh() (Model, tea.Cmd) {
	req := m.pager.Reset()
	return m, tea.Batch(m.fetchPage(req), m.fetchSuggestions())
}

func (m Model) updateSuggestionsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextPane), key.Matches(msg, m.keys.Back):
		m.pane = postsPane
	case key.Matches(msg, m.keys.Up):
		if m.suggestSel > 0 {
			m.suggestSel--
		}
	case key.Matches(msg, m.keys.Down):
		if m.suggestSel < len(m.suggestions)-1 {
			m.suggestSel++
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	}

	if m.suggestSel >= len(m.suggestions) {
		return m, nil
	}
	u := m.suggestions[m.suggestSel]

	switch {
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Author):
		return m, common.Emit(common.OpenProfileMsg{Username: u.Profile.Username})
	case key.Matches(msg, m.keys.Follow):
		next := !u.Following
		m.setFollowing(u.Profile.UserID, next)
		return m, m.follow(u.Profile.UserID, next)
	}
	return m, nil
}
