package input

import (
	"github.com/gdamore/tcell/v2"
)

// Mode carries the parts of the UI state that change what a key means.
type Mode struct {
	HelpVisible bool
}

// Handler converts key events to Actions.
type Handler struct {
	keymap   Keymap
	pendingG bool
}

// NewHandler creates a handler for keymap. A nil keymap uses DefaultKeymap.
func NewHandler(keymap Keymap) *Handler {
	if keymap == nil {
		keymap = DefaultKeymap()
	}
	return &Handler{keymap: keymap}
}

// Keymap returns the bindings in use.
func (h *Handler) Keymap() Keymap {
	return h.keymap
}

// Pending reports whether the first key of a chord is waiting.
func (h *Handler) Pending() bool {
	return h.pendingG
}

// Handle maps ev to an Action. ActionNone means the key was consumed without
// effect, for example the first "g" of "gg".
func (h *Handler) Handle(ev *tcell.EventKey, mode Mode) Action {
	if ev.Key() == tcell.KeyCtrlC {
		h.pendingG = false
		return ActionQuit
	}

	if mode.HelpVisible {
		h.pendingG = false
		switch {
		case ev.Key() == tcell.KeyEscape:
			return ActionHelp
		case ev.Key() == tcell.KeyRune && (ev.Rune() == '?' || ev.Rune() == 'q'):
			return ActionHelp
		}
		return ActionNone
	}

	if ev.Key() == tcell.KeyRune && ev.Rune() == 'g' && ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) == 0 {
		if h.pendingG {
			h.pendingG = false
			return ActionTop
		}
		if _, rebound := h.keymap[runeKey('g')]; !rebound {
			h.pendingG = true
			return ActionNone
		}
	}
	h.pendingG = false

	if action, ok := h.keymap.Lookup(ev); ok {
		return action
	}
	return ActionNone
}
