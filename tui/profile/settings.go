package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/podrant/app"
	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
)

const maxBioLength = 160

type field int

const (
	usernameField field = iota
	bioField
	avatarField
	bannerField
)

type availability int

const (
	availUnknown availability = iota
	availChecking
	availFree
	availTaken
)

// SettingsDoneMsg is sent when the settings form closes. Saved is false
// when the user cancelled.
type SettingsDoneMsg struct {
	Profile domain.Profile
	Saved   bool
}

type availabilityTickMsg struct {
	Seq   uint64
	Fired bool
}

type availabilityMsg struct {
	Seq       uint64
	Available bool
	Err       error
}

type savedMsg struct {
	Profile domain.Profile
	Err     error
}

// Settings edits the viewer's profile. In setup mode it only asks for a
// username and creates the profile.
type Settings struct {
	accounts app.AccountService
	setup    bool
	original domain.Profile

	inputs []textinput.Model
	focus  int

	debounce *app.Debouncer
	checkSeq uint64
	avail    availability

	saving bool
	err    error
}

// NewSettings creates the form for an existing profile.
func NewSettings(accounts app.AccountService, p domain.Profile) Settings {
	s := Settings{
		accounts: accounts,
		original: p,
		debounce: app.NewDebouncer(app.SuggestDelay),
	}
	s.inputs = []textinput.Model{
		newInput("username", p.Username, 30),
		newInput("bio", p.Bio, maxBioLength),
		newInput("avatar image path", "", 512),
		newInput("banner image path", "", 512),
	}
	s.inputs[0].Focus()
	return s
}

// NewSetup creates the first-run username form.
func NewSetup(accounts app.AccountService) Settings {
	s := Settings{
		accounts: accounts,
		setup:    true,
		debounce: app.NewDebouncer(app.SuggestDelay),
	}
	s.inputs = []textinput.Model{newInput("username", "", 30)}
	s.inputs[0].Focus()
	return s
}

func newInput(placeholder, value string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = ""
	ti.SetValue(value)
	return ti
}

// Init starts the cursor blink.
func (s Settings) Init() tea.Cmd { return textinput.Blink }

// Close stops the pending availability check.
func (s Settings) Close() { s.debounce.Stop() }

func (s Settings) value(f field) string {
	if int(f) >= len(s.inputs) {
		return ""
	}
	return strings.TrimSpace(s.inputs[f].Value())
}

// Update handles messages for the settings form.
func (s Settings) Update(msg tea.Msg) (Settings, tea.Cmd) {
	switch msg := msg.(type) {
	case availabilityTickMsg:
		if !msg.Fired || msg.Seq != s.checkSeq {
			return s, nil
		}
		return s, s.checkAvailability(msg.Seq, s.value(usernameField))

	case availabilityMsg:
		if msg.Seq != s.checkSeq {
			return s, nil
		}
		switch {
		case msg.Err != nil:
			s.avail = availUnknown
		case msg.Available:
			s.avail = availFree
		default:
			s.avail = availTaken
		}
		return s, nil

	case savedMsg:
		s.saving = false
		if msg.Err != nil {
			s.err = msg.Err
			if msg.Profile.UserID == "" {
				return s, nil
			}
			// The profile changed but an upload failed; keep the form open
			// with the new baseline.
			s.original = msg.Profile
			return s, common.Emit(common.ProfileChangedMsg{Profile: msg.Profile})
		}
		s.Close()
		profile := msg.Profile
		return s, tea.Batch(
			common.Emit(common.ProfileChangedMsg{Profile: profile}),
			common.Emit(SettingsDoneMsg{Profile: profile, Saved: true}),
			common.Status("Profile saved."),
		)

	case tea.KeyMsg:
		if s.saving {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			s.Close()
			return s, common.Emit(SettingsDoneMsg{Profile: s.original})
		case "tab", "down":
			return s.move(+1), nil
		case "shift+tab", "up":
			return s.move(-1), nil
		case "ctrl+s":
			return s.submit()
		case "enter":
			if s.focus == len(s.inputs)-1 {
				return s.submit()
			}
			return s.move(+1), nil
		}

		before := s.inputs[s.focus].Value()
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		if field(s.focus) == usernameField && s.inputs[s.focus].Value() != before {
			return s, tea.Batch(cmd, s.usernameChanged())
		}
		return s, cmd
	}
	return s, nil
}

func (s Settings) move(delta int) Settings {
	s.inputs = append([]textinput.Model(nil), s.inputs...)
	s.inputs[s.focus].Blur()
	s.focus = (s.focus + delta + len(s.inputs)) % len(s.inputs)
	s.inputs[s.focus].Focus()
	return s
}

// usernameChanged schedules a debounced availability lookup.
func (s *Settings) usernameChanged() tea.Cmd {
	s.checkSeq++
	s.err = nil
	name, err := domain.NormalizeUsername(s.value(usernameField))
	if err != nil || name == s.original.Username {
		s.debounce.Stop()
		s.avail = availUnknown
		return nil
	}
	s.avail = availChecking
	seq := s.checkSeq
	ch := s.debounce.Schedule()
	return func() tea.Msg {
		return availabilityTickMsg{Seq: seq, Fired: <-ch}
	}
}

func (s Settings) checkAvailability(seq uint64, raw string) tea.Cmd {
	accounts := s.accounts
	return func() tea.Msg {
		ok, err := accounts.UsernameAvailable(context.Background(), raw)
		return availabilityMsg{Seq: seq, Available: ok, Err: err}
	}
}

func (s Settings) submit() (Settings, tea.Cmd) {
	name, err := domain.NormalizeUsername(s.value(usernameField))
	if err != nil {
		s.err = err
		return s, nil
	}
	if s.avail == availTaken {
		s.err = domain.ErrUsernameTaken
		return s, nil
	}
	s.saving = true
	s.err = nil
	return s, s.save(name)
}

func (s Settings) save(username string) tea.Cmd {
	accounts, setup, original := s.accounts, s.setup, s.original
	bio := s.value(bioField)
	images := map[app.ImageKind]string{
		app.ImageAvatar: s.value(avatarField),
		app.ImageBanner: s.value(bannerField),
	}
	return func() tea.Msg {
		ctx := context.Background()
		if setup {
			p, err := accounts.CreateProfile(ctx, username)
			return savedMsg{Profile: p, Err: err}
		}

		var update app.ProfileUpdate
		if username != original.Username {
			update.Username = &username
		}
		if bio != original.Bio {
			update.Bio = &bio
		}
		p, err := accounts.UpdateProfile(ctx, update)
		if err != nil {
			return savedMsg{Err: err}
		}

		for _, kind := range []app.ImageKind{app.ImageAvatar, app.ImageBanner} {
			path := images[kind]
			if path == "" {
				continue
			}
			url, err := accounts.UploadImage(ctx, kind, path)
			if err != nil {
				return savedMsg{Profile: p, Err: err}
			}
			if kind == app.ImageAvatar {
				p.AvatarURL = url
			} else {
				p.BannerURL = url
			}
		}
		return savedMsg{Profile: p}
	}
}

// View renders the settings form.
func (s Settings) View() string {
	var b strings.Builder
	if s.setup {
		b.WriteString(common.HeadingStyle.Render("Choose a username") + "\n")
		b.WriteString(common.MetadataStyle.Render("3-30 characters: a-z, 0-9, _ and ."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(common.HeadingStyle.Render("Edit profile") + "\n\n")
	}

	labels := []string{"Username", "Bio", "Avatar", "Banner"}
	for i, in := range s.inputs {
		label := fmt.Sprintf("%-9s", labels[i])
		if i == s.focus {
			label = common.SelectedStyle.Render(label)
		} else {
			label = common.MetadataStyle.Render(label)
		}
		line := label + " " + in.View()
		if field(i) == usernameField {
			line += "  " + s.availabilityText()
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	switch {
	case s.saving:
		b.WriteString(common.MetadataStyle.Render("Saving..."))
	case s.err != nil:
		b.WriteString(common.ErrorStyle.Render(settingsError(s.err)))
	default:
		b.WriteString(common.HintStyle.Render("tab: next field • ctrl+s: save • esc: cancel"))
	}
	return b.String()
}

func (s Settings) availabilityText() string {
	switch s.avail {
	case availChecking:
		return common.MetadataStyle.Render("checking…")
	case availFree:
		return common.SuccessStyle.Render("✓ available")
	case availTaken:
		return common.ErrorStyle.Render("✗ taken")
	}
	return ""
}

func settingsError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidUsername):
		return "Username must be 3-30 characters of a-z, 0-9, _ or ."
	case errors.Is(err, domain.ErrUsernameTaken):
		return "That username is taken."
	}
	return common.ErrorText(err)
}
