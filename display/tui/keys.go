package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines all key bindings for the TUI sink.
// It implements the help.KeyMap interface for bubbles/help integration.
type keyMap struct {
	Quit  key.Binding
	Pause key.Binding
	Help  key.Binding
}

// ShortHelp returns the compact set of keybindings shown by default in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Pause, k.Quit}
}

// FullHelp returns the expanded keybinding groups shown when help is toggled.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause},
		{k.Help, k.Quit},
	}
}

// keys holds the default key bindings used by the TUI.
var keys = keyMap{
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Pause: key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "freeze display")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Bindings returns every TUI binding in display order.
func Bindings() []key.Binding {
	return []key.Binding{keys.Pause, keys.Help, keys.Quit}
}

// DuplicateKeys reports keys bound to more than one action.
func DuplicateKeys(bindings []key.Binding) []string {
	seen := make(map[string]string)
	var conflicts []string
	for _, b := range bindings {
		for _, k := range b.Keys() {
			if existing, ok := seen[k]; ok {
				conflicts = append(conflicts, fmt.Sprintf("duplicate key %q: %s vs %s", k, existing, b.Help().Desc))
				continue
			}
			seen[k] = b.Help().Desc
		}
	}
	return conflicts
}

// FormatBindings returns a two-column table of keys and their actions.
func FormatBindings(bindings []key.Binding) string {
	var sb strings.Builder
	for _, b := range bindings {
		fmt.Fprintf(&sb, "  %-20s  %s\n", strings.Join(b.Keys(), ", "), b.Help().Desc)
	}
	return sb.String()
}
