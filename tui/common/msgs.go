package common

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/podrant/domain"
)

// Messages shared between views. The root model handles them.

// OpenPodcastMsg asks the root to show a podcast's page.
type OpenPodcastMsg struct {
	ID string
}

// OpenProfileMsg asks the root to show a profile by username. An empty
// username opens the viewer's own profile.
type OpenProfileMsg struct {
	Username string
}

// BackMsg asks the root to return to the previous view.
type BackMsg struct{}

// StatusMsg replaces the status line.
type StatusMsg struct {
	Text string
	Err  error
}

// ProfileChangedMsg announces the viewer's new or updated profile.
type ProfileChangedMsg struct {
	Profile domain.Profile
}

// Status returns a command that shows text on the status line.
func Status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

// Failed returns a command that reports err on the status line.
func Failed(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg { return StatusMsg{Err: err} }
}

// Emit wraps msg in a command.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
