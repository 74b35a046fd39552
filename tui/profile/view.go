package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
	"github.com/CrestNiraj12/podrant/tui/thread"
)

// View renders the profile page.
func (m Model) View() string {
	if m.editing {
		return m.settings.View()
	}

	switch {
	case m.loadErr != nil:
		return m.renderLoadError()
	case !m.loaded:
		return m.spinner.View() + " Loading profile..."
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height - 10
	if height <= 0 {
		height = 20
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(width))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch {
	case m.listErr != nil:
		b.WriteString(common.ErrorStyle.Render(common.ErrorText(m.listErr)))
	case m.listLoading && m.list.Len() == 0:
		b.WriteString(m.spinner.View() + " Loading...")
	default:
		b.WriteString(m.list.View(thread.Options{
			Width:   width,
			Height:  height,
			Viewer:  m.session.UserID,
			Active:  true,
			Empty:   emptyText(m.tab),
			MaxBody: 4,
		}))
	}
	b.WriteString("\n")

	if m.list.Confirming() {
		b.WriteString(common.ConfirmStyle.Render("Delete this post? y/n"))
		return b.String()
	}
	hints := []string{common.HintLine(m.keys.Left, m.keys.Right, m.keys.Upvote, m.keys.Reply, m.keys.Author)}
	if m.Own() {
		hints = append(hints, common.HintLine(m.keys.Settings))
	} else if m.session.SignedIn() {
		hints = append(hints, common.HintLine(m.keys.Follow))
	}
	hints = append(hints, common.HintLine(m.keys.Back))
	b.WriteString(strings.Join(hints, common.HintStyle.Render(" • ")))
	return b.String()
}

func (m Model) renderLoadError() string {
	if errors.Is(m.loadErr, domain.ErrNotFound) {
		if m.username == "" {
			return common.MetadataStyle.Render("You have not set up a profile yet.")
		}
		return common.MetadataStyle.Render(fmt.Sprintf("No user named @%s.", m.username)) +
			"\n" + common.HintLine(m.keys.Back)
	}
	if errors.Is(m.loadErr, domain.ErrUnauthenticated) {
		return common.MetadataStyle.Render("Sign in with `podrant login` to see your profile.")
	}
	return common.ErrorStyle.Render(common.ErrorText(m.loadErr)) + "\n" +
		common.HintStyle.Render("ctrl+r: retry • esc: back")
}

func (m Model) renderHeader(width int) string {
	p := m.profile
	name := common.HeadingStyle.Render("@" + p.Username)
	switch {
	case m.Own():
		name += " " + common.OwnBadgeStyle.Render("you")
	case m.following:
		name += " " + common.SuccessStyle.Render("✓ following")
	}

	counts := fmt.Sprintf("%s followers · %s following · %s posts",
		common.FormatCount(p.Followers), common.FormatCount(p.Following), common.FormatCount(p.Posts))

	lines := []string{name, common.MetadataStyle.Render(counts)}
	if p.Bio != "" {
		lines = append(lines, common.ContentStyle.Render(common.ClampLines(p.Bio, width-2, 3)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == m.tab {
			parts = append(parts, common.TabActiveStyle.Render(t.String()))
		} else {
			parts = append(parts, common.TabInactiveStyle.Render(t.String()))
		}
	}
	return strings.Join(parts, " ")
}

func emptyText(t domain.ProfileTab) string {
	switch t {
	case domain.TabReplies:
		return "No replies yet."
	case domain.TabLikes:
		return "No liked posts yet."
	}
	return "No posts yet."
}
