package feed

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/podrant/tui/common"
	"github.com/CrestNiraj12/podrant/tui/thread"
)

// suggestionsWidth is the side column shown on wide terminals.
const suggestionsWidth = 30

// View renders the feed view.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	height := m.height - 4
	if height <= 0 {
		height = 28
	}

	side := ""
	mainWidth := width
	if len(m.suggestions) > 0 && width >= 80 {
		mainWidth = width - suggestionsWidth - 2
		side = m.renderSuggestions()
	}

	var b strings.Builder
	switch {
	case m.err != nil && m.list.Len() == 0:
		b.WriteString(common.ErrorStyle.Render(common.ErrorText(m.err)))
		b.WriteString("\n" + common.HintStyle.Render("ctrl+r: retry"))
	case m.pager.Loading() && m.list.Len() == 0:
		b.WriteString(m.spinner.View() + " Loading feed...")
	default:
		b.WriteString(m.list.View(thread.Options{
			Width:   mainWidth,
			Height:  height,
			Viewer:  m.session.UserID,
			Active:  m.pane == postsPane,
			Empty:   "No posts yet. Press p to write the first one.",
			MaxBody: 6,
		}))
		b.WriteString("\n")
		switch {
		case m.pager.Loading():
			b.WriteString(m.spinner.View() + " Loading more...")
		case !m.pager.HasMore() && m.list.Len() > 0:
			b.WriteString(common.MetadataStyle.Render("  You're all caught up."))
		}
	}
	b.WriteString("\n")
	if m.list.Confirming() {
		b.WriteString(common.ConfirmStyle.Render("Delete this post? y/n"))
	} else {
		b.WriteString(common.HintLine(m.keys.Upvote, m.keys.Repost, m.keys.Reply, m.keys.Compose, m.keys.Edit, m.keys.Delete, m.keys.Author, m.keys.NextPane))
	}

	main := lipgloss.NewStyle().Width(mainWidth).Render(b.String())
	if side == "" {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", side)
}

func (m Model) renderSuggestions() string {
	var b strings.Builder
	b.WriteString(common.HeadingStyle.Render("Who to follow") + "\n")
	for i, u := range m.suggestions {
		name := common.Truncate("@"+u.Profile.Username, suggestionsWidth-12)
		state := common.MetadataStyle.Render("follow")
		if u.Following {
			state = common.SuccessStyle.Render("following")
		}
		line := name + " " + state
		if m.pane == suggestionsPane && i == m.suggestSel {
			b.WriteString(common.CursorStyle.Render("▌ ") + common.SelectedStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if m.pane == suggestionsPane {
		b.WriteString("\n" + common.HintLine(m.keys.Follow, m.keys.Enter, m.keys.NextPane))
	}
	return lipgloss.NewStyle().Width(suggestionsWidth).Render(b.String())
}
