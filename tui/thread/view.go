package thread

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
)

// linesPerRow approximates a rendered item for scrolling.
const linesPerRow = 4

// Options tune one render of the list.
type Options struct {
	Width   int
	Height  int
	Viewer  string
	Active  bool   // Draw the cursor
	Empty   string // Shown when there are no rows
	MaxBody int    // Body lines per item, 0 for all
}

// View renders the visible window of rows.
func (m *Model) View(o Options) string {
	if len(m.rows) == 0 {
		if o.Empty == "" {
			o.Empty = "Nothing here yet."
		}
		return common.MetadataStyle.Render("  " + o.Empty)
	}
	visible := max(1, o.Height/linesPerRow)
	var end int
	m.start, end = common.Window(len(m.rows), m.cursor, m.start, visible)

	var b strings.Builder
	if m.focus != "" {
		b.WriteString(common.MetadataStyle.Render("  ← esc: back to full thread") + "\n")
	}
	for i := m.start; i < end; i++ {
		selected := o.Active && i == m.cursor
		b.WriteString(m.renderRow(m.rows[i], selected, o))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func guides(depth int) string {
	if depth <= 0 {
		return ""
	}
	return common.ThreadGuideStyle.Render(strings.Repeat("│ ", depth))
}

func (m *Model) renderRow(r Row, selected bool, o Options) string {
	cursor := "  "
	if selected {
		cursor = common.CursorStyle.Render("▌ ")
	}
	depth := r.Node.Depth
	prefix := cursor + guides(depth)

	if r.More {
		label := fmt.Sprintf("⋯ %d more %s", r.Node.Hidden, plural(r.Node.Hidden, "reply", "replies"))
		style := common.MetadataStyle
		if selected {
			style = common.SelectedStyle
		}
		return prefix + guides(1) + style.Render(label)
	}

	it := r.Node.Item
	head := []string{common.AuthorStyle.Render("@" + it.Username)}
	if ts := common.RelativeTime(it.CreatedAt, m.now()); ts != "" {
		head = append(head, common.TimestampStyle.Render(ts))
	}
	if it.Edited {
		head = append(head, common.TimestampStyle.Render("edited"))
	}
	if it.IsOwnedBy(o.Viewer) {
		head = append(head, common.OwnBadgeStyle.Render("you"))
	}
	if IsPending(it.ID) {
		head = append(head, common.MetadataStyle.Render("sending…"))
	}

	bodyWidth := max(12, o.Width-4-2*depth)
	body := common.ClampLines(it.Body, bodyWidth, o.MaxBody)
	style := common.UnselectedStyle
	if selected {
		style = common.SelectedStyle
	}

	pad := "  " + guides(depth)
	lines := []string{prefix + strings.Join(head, common.MetadataStyle.Render(" · "))}
	for _, l := range strings.Split(style.Render(body), "\n") {
		lines = append(lines, pad+l)
	}
	lines = append(lines, pad+Metrics(it.Kind, r.Node.Engagement))
	return strings.Join(lines, "\n")
}

// Metrics renders the engagement line. Comments show votes; posts show
// likes and reposts.
func Metrics(kind domain.ItemKind, e domain.Engagement) string {
	mark := func(active bool, s string) string {
		if active {
			return common.VoteActiveStyle.Render(s)
		}
		return common.MetadataStyle.Render(s)
	}
	var parts []string
	switch kind {
	case domain.KindComment:
		parts = []string{
			mark(e.Vote == domain.ChoiceUp, "▲ "+common.FormatCount(e.Up)),
			mark(e.Vote == domain.ChoiceDown, "▼ "+common.FormatCount(e.Down)),
		}
	default:
		parts = []string{
			mark(e.Vote == domain.ChoiceUp, "♥ "+common.FormatCount(e.Up)),
			mark(e.Reposted, "⟳ "+common.FormatCount(e.Reposts)),
		}
	}
	parts = append(parts, mark(false, "↩ "+common.FormatCount(e.Replies)))
	return strings.Join(parts, "  ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
