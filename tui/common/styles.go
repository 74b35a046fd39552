package common

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#1DB954")
	dim    = lipgloss.Color("#6E738D")

	// AppTitleStyle styles the application title. Rendered at call site with content.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(1, 2, 0, 1)

	// TaglineStyle styles the app's tagline.
	TaglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true).
			MarginLeft(1)

	// TabActiveStyle and TabInactiveStyle render the view switcher.
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(dim).
				Padding(0, 1)

	// AuthorStyle styles usernames.
	AuthorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DC4E4"))

	TimestampStyle = lipgloss.NewStyle().
			Foreground(dim)

	ContentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5"))

	// HeadingStyle styles podcast and profile headings.
	HeadingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F5A97F"))

	// SelectedStyle highlights the focused row.
	SelectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	// UnselectedStyle gives other rows a subtle border.
	UnselectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	// CursorStyle marks the selected line in compact lists.
	CursorStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	OwnBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true).
			MarginLeft(1)

	MetadataStyle = lipgloss.NewStyle().
			Foreground(dim)

	// VoteActiveStyle colors the viewer's own vote, like or repost.
	VoteActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	ThreadGuideStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#444444"))

	HintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5B6078"))

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(dim).
			Padding(1, 0, 0, 0)

	// ConfirmStyle styles yes/no prompts.
	ConfirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true)

	// SuggestionStyle renders the search suggestion dropdown.
	SuggestionStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	// GenreActiveStyle and GenreStyle render the genre chips.
	GenreActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1E2030")).
				Background(accent).
				Padding(0, 1)

	GenreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A9A9A9")).
			Background(lipgloss.Color("#2F2F2F")).
			Padding(0, 1)
)
