package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typetest/internal/engine"
)

type keyMap struct {
	NewTest  key.Binding
	Pause    key.Binding
	Mode     key.Binding
	Level    key.Binding
	Duration key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NewTest:  key.NewBinding(key.WithKeys("ctrl+n", "esc"), key.WithHelp("ctrl+n", "new test")),
		Pause:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "pause")),
		Mode:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "mode")),
		Level:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "level")),
		Duration: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "duration")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewTest, k.Pause, k.Mode, k.Level, k.Duration, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// engineKey translates a terminal key event into the engine's key names.
func engineKey(msg tea.KeyMsg) engine.Key {
	k := engine.Key{Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyRunes:
		k.Name = string(msg.Runes)
	case tea.KeySpace:
		k.Name = engine.KeySpace
	case tea.KeyEnter:
		k.Name = engine.KeyEnter
	case tea.KeyBackspace:
		k.Name = engine.KeyBackspace
	case tea.KeyDelete:
		k.Name = engine.KeyDelete
	case tea.KeyTab:
		k.Name = engine.KeyTab
	case tea.KeyShiftTab:
		k.Name = engine.KeyTab
		k.Shift = true
	case tea.KeyEsc:
		k.Name = engine.KeyEscape
	case tea.KeyLeft:
		k.Name = engine.KeyArrowLeft
	case tea.KeyRight:
		k.Name = engine.KeyArrowRight
	case tea.KeyUp:
		k.Name = engine.KeyArrowUp
	case tea.KeyDown:
		k.Name = engine.KeyArrowDown
	case tea.KeyHome:
		k.Name = engine.KeyHome
	case tea.KeyEnd:
		k.Name = engine.KeyEnd
	case tea.KeyPgUp:
		k.Name = engine.KeyPageUp
	case tea.KeyPgDown:
		k.Name = engine.KeyPageDown
	default:
		name := msg.String()
		if rest, ok := strings.CutPrefix(name, "ctrl+"); ok {
			k.Ctrl = true
			name = rest
		}
		k.Name = name
	}
	return k
}

// nextInput returns the input text after msg is applied to current.
func nextInput(current []rune, msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return "", false
		}
		return string(current) + string(msg.Runes), true
	case tea.KeySpace:
		return string(current) + " ", true
	case tea.KeyBackspace:
		if len(current) == 0 {
			return "", false
		}
		return string(current[:len(current)-1]), true
	case tea.KeyCtrlW:
		if len(current) == 0 {
			return "", false
		}
		return string(deleteWord(current)), true
	default:
		return "", false
	}
}

func deleteWord(runes []rune) []rune {
	end := len(runes)
	for end > 0 && runes[end-1] == ' ' {
		end--
	}
	for end > 0 && runes[end-1] != ' ' {
		end--
	}
	return runes[:end]
}
