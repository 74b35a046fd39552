package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
)

// View renders the compose view based on the active mode.
func (m Model) View() string {
	switch m.mode {
	case editorMode:
		return m.status + "\n"

	case inlineMode:
		var b strings.Builder
		b.WriteString(common.AppTitleStyle.Render(domain.AppTitle))
		b.WriteString("  " + m.target.title() + "\n")
		if m.target.Context != "" {
			b.WriteString(common.Indent(common.MetadataStyle.Render(m.target.Context), 1) + "\n")
		}
		b.WriteString("\n")
		b.WriteString(m.textarea.View())
		b.WriteString("\n")

		if m.status != "" {
			b.WriteString(common.StatusBarStyle.Render(common.ErrorStyle.Render(m.status)))
		} else {
			b.WriteString(common.StatusBarStyle.Render(
				fmt.Sprintf("  ctrl+d: publish • esc: cancel • %d/%d chars",
					utf8.RuneCountInString(m.textarea.Value()), domain.MaxBodyLength),
			))
		}
		return b.String()
	}
	return ""
}
