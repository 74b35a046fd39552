package saved

import (
	"strings"

	"github.com/CrestNiraj12/podrant/tui/common"
)

// View renders the saved episodes.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.HeadingStyle.Render("Saved episodes"))
	b.WriteString("\n\n")

	switch {
	case m.loading && len(m.episodes) == 0:
		b.WriteString(m.spinner.View() + " Loading...")
		return b.String()
	case m.err != nil:
		b.WriteString(common.ErrorStyle.Render(common.ErrorText(m.err)))
		b.WriteString("\n" + common.HintStyle.Render("ctrl+r: retry"))
		return b.String()
	case len(m.episodes) == 0:
		b.WriteString(common.MetadataStyle.Render("Nothing saved yet. Press s on an episode to keep it here."))
		return b.String()
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height - 6
	if height <= 0 {
		height = 24
	}
	start, end := common.Window(len(m.episodes), m.sel, 0, max(1, height/2))
	playing, isPlaying := m.player.NowPlaying()

	for i := start; i < end; i++ {
		ep := m.episodes[i]
		marks := ""
		if isPlaying && playing.ID == ep.ID {
			marks = common.SuccessStyle.Render("▶ ")
		}
		title := common.Truncate(ep.Title, width-6)
		if i == m.sel {
			b.WriteString(common.CursorStyle.Render("▌ ") + marks + common.SelectedStyle.Render(title) + "\n")
		} else {
			b.WriteString("  " + marks + common.UnselectedStyle.Render(title) + "\n")
		}
		meta := []string{}
		if !ep.Date.IsZero() {
			meta = append(meta, ep.Date.Format("Jan 02 2006"))
		}
		meta = append(meta, ep.DurationLabel())
		b.WriteString("  " + common.MetadataStyle.Render(strings.Join(meta, " · ")) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(common.HintLine(m.keys.Enter, m.keys.Play, m.keys.Stop, m.keys.Save, m.keys.Refresh))
	return b.String()
}
