package discover

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/podrant/tui/common"
)

// View renders the discover view.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderGenres())
	b.WriteString("\n")
	if m.search.Focused() {
		b.WriteString(m.search.View())
		b.WriteString("\n")
		b.WriteString(m.renderSuggestions())
	} else if m.query != "" {
		b.WriteString(common.HeadingStyle.Render(fmt.Sprintf("Results for %q", m.query)))
		b.WriteString(common.MetadataStyle.Render("  esc: back to browsing"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil && len(m.shows) == 0:
		b.WriteString(common.ErrorStyle.Render(common.ErrorText(m.err)))
		b.WriteString("\n" + common.HintStyle.Render("ctrl+r: retry"))
		return b.String()
	case m.pager.Loading() && len(m.shows) == 0:
		b.WriteString(m.spinner.View() + " Loading podcasts...")
		return b.String()
	case len(m.shows) == 0:
		b.WriteString(common.MetadataStyle.Render("  No podcasts found."))
		return b.String()
	}

	b.WriteString(m.renderList())
	return b.String()
}

func (m Model) renderGenres() string {
	chip := func(name string, active bool) string {
		if active {
			return common.GenreActiveStyle.Render(name)
		}
		return common.GenreStyle.Render(name)
	}
	chips := []string{chip("All", m.genreID == "")}
	for _, g := range m.genres {
		chips = append(chips, chip(g.Name, g.ID == m.genreID))
	}
	line := strings.Join(chips, " ")
	if m.width > 0 {
		line = common.Truncate(line, m.width)
	}
	return line
}

func (m Model) renderSuggestions() string {
	if len(m.suggestions) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range m.suggestions {
		line := "  " + p.Title
		if p.Author != "" {
			line += common.MetadataStyle.Render(" · " + p.Author)
		}
		if i == m.suggestSel {
			line = common.CursorStyle.Render("▌") + common.SuggestionStyle.Render(line[1:])
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderList() string {
	const linesPerShow = 2
	height := m.height - 6
	if height <= 0 {
		height = 30
	}
	var end int
	start := m.start
	start, end = common.Window(len(m.shows), m.sel, start, max(1, height/linesPerShow))

	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		p := m.shows[i]
		title := common.Truncate(p.Title, width-4)
		meta := p.Author
		if p.TotalEpisodes > 0 {
			meta += fmt.Sprintf(" · %d episodes", p.TotalEpisodes)
		}
		meta = common.Truncate(meta, width-4)
		if i == m.sel {
			b.WriteString(common.CursorStyle.Render("▌ ") + common.SelectedStyle.Render(title) + "\n")
		} else {
			b.WriteString("  " + common.UnselectedStyle.Render(title) + "\n")
		}
		b.WriteString("  " + common.MetadataStyle.Render(meta) + "\n")
	}

	switch {
	case m.pager.Loading():
		b.WriteString(m.spinner.View() + " Loading more...")
	case m.query == "" && !m.pager.HasMore():
		b.WriteString(common.MetadataStyle.Render("  End of results."))
	}
	return b.String()
}
