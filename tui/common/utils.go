package common

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/podrant/domain"
)

// Truncate shortens s to width cells, ANSI-aware, with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// ClampLines wraps text to width and keeps at most n lines.
func ClampLines(text string, width, n int) string {
	if width < 12 {
		width = 12
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(text)
	lines := strings.Split(wrapped, "\n")
	if n <= 0 || len(lines) <= n {
		return wrapped
	}
	return strings.Join(lines[:n], "\n") + "…"
}

// RelativeTime renders a compact age such as "5m" or "3d".
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case t.Year() == now.Year():
		return t.Format("Jan 02")
	default:
		return t.Format("Jan 02 2006")
	}
}

// FormatCount renders counts as 999, 1.2k, 3.4M.
func FormatCount(n int) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 1_000_000:
		return trimZero(fmt.Sprintf("%.1fk", float64(n)/1000))
	default:
		return trimZero(fmt.Sprintf("%.1fM", float64(n)/1_000_000))
	}
}

func trimZero(s string) string {
	return strings.Replace(s, ".0", "", 1)
}

// ErrorText maps errors to short status-line messages.
func ErrorText(err error) string {
	var apiErr *domain.APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUnauthenticated):
		return "Sign in first: run `podrant login`."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Session expired: run `podrant login` again."
	case errors.Is(err, domain.ErrNotOwner):
		return "Not found or not yours."
	case errors.Is(err, domain.ErrNotFound):
		return "Not found."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("%s error (%d).", apiErr.Service, apiErr.Status)
	default:
		return err.Error()
	}
}

// Indent prefixes every line of s with n spaces.
func Indent(s string, n int) string {
	if n <= 0 {
		return s
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// Window returns the [start, end) slice of a list of n rows that keeps
// cursor visible within height rows, given the previous start.
func Window(n, cursor, start, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	if n <= 0 {
		return 0, 0
	}
	cursor = max(0, min(cursor, n-1))
	if cursor < start {
		start = cursor
	}
	if cursor >= start+height {
		start = cursor - height + 1
	}
	start = max(0, min(start, max(0, n-height)))
	return start, min(n, start+height)
}
