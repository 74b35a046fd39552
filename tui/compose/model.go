package compose

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/infra/editor"
)

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

// Target says what the composed text becomes.
type Target struct {
	Kind     domain.ItemKind
	Scope    string // Episode ID for comments
	ParentID string // Set for replies
	EditID   string // Set when editing an existing item
	Context  string // Shown above the text, e.g. "Replying to @ana"
}

// IsEdit reports whether the target replaces an existing item.
func (t Target) IsEdit() bool { return t.EditID != "" }

func (t Target) title() string {
	noun := "post"
	if t.Kind == domain.KindComment {
		noun = "comment"
	}
	switch {
	case t.IsEdit():
		return "Edit " + noun
	case t.ParentID != "":
		return "Reply"
	default:
		return "New " + noun
	}
}

// --- Messages ---

// RequestMsg asks the root to open a compose view for Target, prefilled
// with Content.
type RequestMsg struct {
	Target  Target
	Content string
	Inline  bool
}

// Request returns a command emitting a RequestMsg.
func Request(target Target, content string, inline bool) tea.Cmd {
	return func() tea.Msg {
		return RequestMsg{Target: target, Content: content, Inline: inline}
	}
}

// DoneMsg is sent when composing is complete. Content is empty when the
// user cancelled.
type DoneMsg struct {
	Target  Target
	Content string
	Err     error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Model holds the state for the compose view.
type Model struct {
	mode     mode
	editor   *editor.EnvEditor
	target   Target
	status   string
	textarea textarea.Model // Only used in inline mode
	tmpPath  string         // Temp file path for editor mode
	original string         // Initial content for editing
}

// NewEditor creates a compose model that opens $EDITOR via tea.ExecProcess.
func NewEditor(ed *editor.EnvEditor, target Target, content string) Model {
	return Model{
		mode:     editorMode,
		editor:   ed,
		target:   target,
		status:   "Opening editor...",
		original: content,
	}
}

// NewInline creates a compose model with an inline textarea.
func NewInline(target Target, content string) Model {
	ta := textarea.New()
	ta.Placeholder = placeholder(target)
	ta.CharLimit = domain.MaxBodyLength
	ta.SetWidth(72)
	ta.SetHeight(6)
	ta.SetValue(content)
	ta.Focus()

	return Model{
		mode:     inlineMode,
		target:   target,
		textarea: ta,
		original: content,
	}
}

func placeholder(t Target) string {
	switch {
	case t.Kind == domain.KindComment && t.ParentID == "":
		return "What did you think of this episode?"
	case t.ParentID != "":
		return "Write a reply..."
	default:
		return "What are you listening to?"
	}
}

// Target returns what this compose session produces.
func (m Model) Target() Target { return m.target }

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor()
	case inlineMode:
		return textarea.Blink
	}
	return nil
}

// launchEditor hands the terminal to the editor; Bubble Tea resumes and
// delivers editorFinishedMsg when it exits.
func (m *Model) launchEditor() tea.Cmd {
	cmd, tmpPath, err := m.editor.Cmd(m.original, m.target.Context)
	if err != nil {
		return done(DoneMsg{Target: m.target, Err: fmt.Errorf("preparing editor: %w", err)})
	}
	m.tmpPath = tmpPath
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorFinishedMsg:
		if msg.err != nil {
			return m, done(DoneMsg{Target: m.target, Err: fmt.Errorf("editor: %w", msg.err)})
		}
		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			return m, done(DoneMsg{Target: m.target, Err: err})
		}
		return m, m.finish(content)

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}
		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{Target: m.target})
		case "ctrl+d":
			if utf8.RuneCountInString(m.textarea.Value()) > domain.MaxBodyLength {
				m.status = fmt.Sprintf("Too long: %d characters max.", domain.MaxBodyLength)
				return m, nil
			}
			return m, m.finish(m.textarea.Value())
		}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	if m.mode == inlineMode {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

// finish validates the text; unchanged or empty text cancels.
func (m Model) finish(content string) tea.Cmd {
	body, err := domain.ValidateBody(content)
	if err == domain.ErrEmptyBody || body == m.original {
		return done(DoneMsg{Target: m.target})
	}
	if err != nil {
		return done(DoneMsg{Target: m.target, Err: err})
	}
	return done(DoneMsg{Target: m.target, Content: body})
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
