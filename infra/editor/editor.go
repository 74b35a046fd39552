package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/CrestNiraj12/podrant/domain"
)

// EnvEditor builds external editor commands from $VISUAL or $EDITOR
// (fallback: "vi"). Callers run the command through tea.ExecProcess so the
// terminal leaves raw mode first.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const commentEnd = "-->"

func instructions(context string) string {
	var b strings.Builder
	b.WriteString("<!--\n")
	b.WriteString(domain.AppTitle + ": write below this block.\n")
	if context != "" {
		b.WriteString(context + "\n")
	}
	b.WriteString("\n")
	b.WriteString("- Save and exit to publish (e.g. :wq in vi).\n")
	b.WriteString("- Emptying the text or leaving it unchanged cancels.\n")
	fmt.Fprintf(&b, "- At most %d characters.\n", domain.MaxBodyLength)
	b.WriteString(commentEnd + "\n\n")
	return b.String()
}

// command splits the configured editor so values like "code --wait" work.
func command() (string, []string) {
	raw := os.Getenv("VISUAL")
	if strings.TrimSpace(raw) == "" {
		raw = os.Getenv("EDITOR")
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "vi", nil
	}
	return fields[0], fields[1:]
}

// Cmd writes content below an instruction block to a temp file and returns
// the editor command for it. context is an optional line such as
// "Replying to @ana".
func (e *EnvEditor) Cmd(content, context string) (*exec.Cmd, string, error) {
	tmpFile, err := os.CreateTemp("", domain.AppTitle+"-*.md")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(instructions(context) + content); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	name, args := command()
	cmd := exec.Command(name, append(args, tmpPath)...)
	return cmd, tmpPath, nil
}

// ReadContent returns the edited text without the instruction block and
// removes the temp file.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	content := string(data)
	if strings.HasPrefix(strings.TrimSpace(content), "<!--") {
		if idx := strings.Index(content, commentEnd); idx != -1 {
			content = content[idx+len(commentEnd):]
		}
	}
	return strings.TrimSpace(content), nil
}
