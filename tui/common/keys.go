package common

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Back        key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Enter       key.Binding
	Refresh     key.Binding
	ToggleHints key.Binding

	Discover key.Binding // 1
	Feed     key.Binding // 2
	Saved    key.Binding // 3
	Profile  key.Binding // 4

	Search   key.Binding // / search podcasts
	NextPane key.Binding // tab between episodes and comments

	Compose       key.Binding // p compose via $EDITOR
	ComposeInline key.Binding // P compose inline
	Reply         key.Binding // c reply via $EDITOR
	ReplyInline   key.Binding // C reply inline
	Edit          key.Binding // e edit via $EDITOR
	EditInline    key.Binding // E edit inline
	Delete        key.Binding // d delete own item
	Confirm       key.Binding // y
	Cancel        key.Binding // n

	Upvote   key.Binding // + upvote comment, like post or episode
	Downvote key.Binding // - downvote comment or dislike episode
	Repost   key.Binding // R
	Follow   key.Binding // f
	Author   key.Binding // a open author profile
	More     key.Binding // m show collapsed replies

	Save      key.Binding // s save episode
	Subscribe key.Binding // S subscribe to podcast
	Play      key.Binding // space
	Stop      key.Binding // x

	Settings key.Binding // , profile settings
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		ToggleHints: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "keys"),
		),
		Discover: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "discover"),
		),
		Feed: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "feed"),
		),
		Saved: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "saved"),
		),
		Profile: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "profile"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Compose: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "post ($EDITOR)"),
		),
		ComposeInline: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "post (inline)"),
		),
		Reply: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "reply ($EDITOR)"),
		),
		ReplyInline: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "reply (inline)"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit ($EDITOR)"),
		),
		EditInline: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "edit (inline)"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		Upvote: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "up/like"),
		),
		Downvote: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "down/dislike"),
		),
		Repost: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "repost"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow"),
		),
		Author: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "author"),
		),
		More: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "more replies"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Subscribe: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "subscribe"),
		),
		Play: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
	}
}

// HintLine renders a compact "key: action" hint row.
func HintLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return HintStyle.Render(strings.Join(parts, " • "))
}
