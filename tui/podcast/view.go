package podcast

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
	"github.com/CrestNiraj12/podrant/tui/thread"
)

// View renders the podcast page.
func (m Model) View() string {
	switch {
	case m.loading && m.podcast.ID == "":
		return m.spinner.View() + " Loading podcast..."
	case m.err != nil && m.podcast.ID == "":
		return common.ErrorStyle.Render(common.ErrorText(m.err)) + "\n" +
			common.HintStyle.Render("ctrl+r: retry • esc: back")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	if m.pane == commentsPane {
		b.WriteString(m.renderComments())
	} else {
		b.WriteString(m.renderEpisodes())
	}
	return b.String()
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m Model) renderHeader() string {
	p := m.podcast
	width := m.contentWidth()

	title := common.HeadingStyle.Render(common.Truncate(p.Title, width-2))
	meta := []string{p.Author}
	if p.TotalEpisodes > 0 {
		meta = append(meta, fmt.Sprintf("%d episodes", p.TotalEpisodes))
	}
	subs := m.deps.Library.SubscriberCount(p.ID)
	sub := fmt.Sprintf("%s subscribers", common.FormatCount(subs))
	if m.deps.Library.IsSubscribed(p.ID) {
		sub = common.SuccessStyle.Render("✓ Subscribed") + common.MetadataStyle.Render(" · "+sub)
	} else {
		sub = common.MetadataStyle.Render(sub + " · S: subscribe")
	}

	lines := []string{
		title,
		common.MetadataStyle.Render(common.Truncate(strings.Join(meta, " · "), width-2)),
		sub,
	}
	if p.Description != "" {
		lines = append(lines, common.ContentStyle.Render(common.ClampLines(p.Description, width-4, 2)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEpisodes() string {
	if len(m.episodes) == 0 {
		return common.MetadataStyle.Render("  No episodes.")
	}
	const linesPerEpisode = 2
	height := m.height - 9
	if height <= 0 {
		height = 24
	}
	start, end := common.Window(len(m.episodes), m.sel, 0, max(1, height/linesPerEpisode))
	width := m.contentWidth()
	playing, isPlaying := m.deps.Player.NowPlaying()

	var b strings.Builder
	for i := start; i < end; i++ {
		ep := m.episodes[i]
		marks := ""
		if isPlaying && playing.ID == ep.ID {
			marks += common.SuccessStyle.Render("▶ ")
		}
		if m.deps.Library.IsSaved(ep.ID) {
			marks += common.VoteActiveStyle.Render("★ ")
		}
		title := common.Truncate(ep.Title, width-6)
		if i == m.sel {
			b.WriteString(common.CursorStyle.Render("▌ ") + marks + common.SelectedStyle.Render(title) + "\n")
		} else {
			b.WriteString("  " + marks + common.UnselectedStyle.Render(title) + "\n")
		}
		b.WriteString("  " + m.episodeMeta(ep) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(common.HintLine(m.keys.Enter, m.keys.Upvote, m.keys.Downvote, m.keys.Save, m.keys.Play, m.keys.Stop, m.keys.Back))
	return b.String()
}

func (m Model) episodeMeta(ep domain.Episode) string {
	parts := []string{}
	if !ep.Date.IsZero() {
		parts = append(parts, ep.Date.Format("Jan 02 2006"))
	}
	if d := ep.DurationLabel(); d != "" {
		parts = append(parts, d)
	}
	e := m.deps.Library.EpisodeVotes(ep.ID)
	thumbs := []string{
		mark(e.Vote == domain.ChoiceUp, "👍 "+common.FormatCount(e.Up)),
		mark(e.Vote == domain.ChoiceDown, "👎 "+common.FormatCount(e.Down)),
	}
	if r := e.Ratio(); r >= 0 {
		thumbs = append(thumbs, common.MetadataStyle.Render(fmt.Sprintf("%d%% liked", r)))
	}
	return common.MetadataStyle.Render(strings.Join(parts, " · ")) + "  " + strings.Join(thumbs, " ")
}

func mark(active bool, s string) string {
	if active {
		return common.VoteActiveStyle.Render(s)
	}
	return common.MetadataStyle.Render(s)
}

func (m Model) renderComments() string {
	var b strings.Builder
	title := ""
	for _, ep := range m.episodes {
		if ep.ID == m.episodeID {
			title = ep.Title
		}
	}
	b.WriteString(common.TabActiveStyle.Render("Comments") + " " +
		common.MetadataStyle.Render(common.Truncate(title, m.contentWidth()-14)) + "\n\n")

	switch {
	case m.commentsLoading && m.comments.Len() == 0:
		b.WriteString(m.spinner.View() + " Loading comments...")
		return b.String()
	case m.commentsErr != nil:
		b.WriteString(common.ErrorStyle.Render(common.ErrorText(m.commentsErr)))
		b.WriteString("\n" + common.HintStyle.Render("ctrl+r: retry"))
		return b.String()
	}

	height := m.height - 12
	if height <= 0 {
		height = 24
	}
	b.WriteString(m.comments.View(thread.Options{
		Width:  m.contentWidth(),
		Height: height,
		Viewer: m.session.UserID,
		Active: true,
		Empty:  "No comments yet. Press p to start the conversation.",
	}))
	b.WriteString("\n\n")
	if m.comments.Confirming() {
		b.WriteString(common.ConfirmStyle.Render("Delete this comment? y/n"))
		return b.String()
	}
	b.WriteString(common.HintLine(m.keys.Upvote, m.keys.Downvote, m.keys.Reply, m.keys.Compose, m.keys.Edit, m.keys.Delete, m.keys.Author, m.keys.NextPane))
	return b.String()
}
