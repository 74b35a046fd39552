package compose

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/infra/editor"
)

func doneFrom(t *testing.T, cmd tea.Cmd) DoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(DoneMsg)
	if !ok {
		t.Fatalf("expected DoneMsg, got %T", cmd())
	}
	return msg
}

func TestInline_PublishTrimsContent(t *testing.T) {
	target := Target{Kind: domain.KindComment, Scope: "ep1", ParentID: "c1"}
	m := NewInline(target, "")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("  great episode  ")})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	msg := doneFrom(t, cmd)
	if msg.Content != "great episode" || msg.Err != nil {
		t.Fatalf("unexpected done %+v", msg)
	}
	if msg.Target != target {
		t.Fatalf("target not carried through: %+v", msg.Target)
	}
}

func TestInline_EscAndUnchangedCancel(t *testing.T) {
	m := NewInline(Target{Kind: domain.KindPost}, "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if msg := doneFrom(t, cmd); msg.Content != "" || msg.Err != nil {
		t.Fatalf("esc should cancel, got %+v", msg)
	}

	edit := NewInline(Target{Kind: domain.KindPost, EditID: "p1"}, "same text")
	_, cmd = edit.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if msg := doneFrom(t, cmd); msg.Content != "" {
		t.Fatalf("unchanged edit should cancel, got %+v", msg)
	}

	empty := NewInline(Target{Kind: domain.KindPost}, "")
	_, cmd = empty.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if msg := doneFrom(t, cmd); msg.Content != "" || msg.Err != nil {
		t.Fatalf("empty text should cancel quietly, got %+v", msg)
	}
}

func TestEditorFinished_ReadsAndStripsInstructions(t *testing.T) {
	path := t.TempDir() + "/draft.md"
	content := "<!--\nwrite below\n-->\n\nfrom the editor\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	m := NewEditor(editor.NewEnvEditor(), Target{Kind: domain.KindPost}, "")
	_, cmd := m.Update(editorFinishedMsg{tmpPath: path})
	if msg := doneFrom(t, cmd); msg.Content != "from the editor" {
		t.Fatalf("unexpected content %q", msg.Content)
	}
}

func TestEditorFinished_TooLongIsAnError(t *testing.T) {
	path := t.TempDir() + "/draft.md"
	if err := os.WriteFile(path, []byte(strings.Repeat("x", domain.MaxBodyLength+1)), 0o600); err != nil {
		t.Fatal(err)
	}
	m := NewEditor(editor.NewEnvEditor(), Target{Kind: domain.KindComment}, "")
	_, cmd := m.Update(editorFinishedMsg{tmpPath: path})
	if msg := doneFrom(t, cmd); msg.Err != domain.ErrBodyTooLong {
		t.Fatalf("expected ErrBodyTooLong, got %+v", msg)
	}
}

func TestTargetTitle(t *testing.T) {
	cases := map[string]Target{
		"New post":     {Kind: domain.KindPost},
		"New comment":  {Kind: domain.KindComment},
		"Reply":        {Kind: domain.KindComment, ParentID: "c1"},
		"Edit comment": {Kind: domain.KindComment, EditID: "c1", ParentID: "c0"},
	}
	for want, target := range cases {
		if got := target.title(); got != want {
			t.Fatalf("title = %q, want %q", got, want)
		}
	}
}
