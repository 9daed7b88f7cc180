package engine

import "github.com/samber/lo"

// Key names understood by KeyDown. Printable keys use their text.
const (
	KeyEnter      = "Enter"
	KeySpace      = " "
	KeyShift      = "Shift"
	KeyControl    = "Control"
	KeyAlt        = "Alt"
	KeyMeta       = "Meta"
	KeyCapsLock   = "CapsLock"
	KeyTab        = "Tab"
	KeyEscape     = "Escape"
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"
)

var ignorableKeys = lo.Keyify([]string{
	KeyShift, KeyControl, KeyAlt, KeyMeta, KeyCapsLock, KeyTab, KeyEscape,
	KeyBackspace, KeyDelete, KeyArrowLeft, KeyArrowRight, KeyArrowUp,
	KeyArrowDown, KeyHome, KeyEnd, KeyPageUp, KeyPageDown,
})

// Key is a key press with its modifiers.
type Key struct {
	Name  string
	Ctrl  bool
	Alt   bool
	Meta  bool
	Shift bool
}

// Modified reports whether any modifier other than shift is held.
func (k Key) Modified() bool {
	return k.Ctrl || k.Alt || k.Meta
}

// Ignorable reports whether the key never starts a run.
func (k Key) Ignorable() bool {
	_, ok := ignorableKeys[k.Name]
	return ok
}
