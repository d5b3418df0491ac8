package input

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Action is what a key press asks the browser to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionDown
	ActionUp
	ActionParent
	ActionEnter
	ActionTop
	ActionBottom
	ActionJumpDown
	ActionJumpUp
	ActionPageDown
	ActionPageUp
	ActionHome
	ActionBack
	ActionTrashDir
	ActionReload
	ActionToggleHidden
	ActionToggleIcons
	ActionToggleDetails
	ActionToggleDirsSize
	ActionHelp
	ActionMark
	ActionMarkAll
	ActionClearMarks
	ActionTrashMarked
	ActionMoveMarked
	ActionCopyMarked
	ActionLinkMarked
	ActionNewFile
	ActionNewDir
	ActionRename
	ActionChmod
	ActionYank
	ActionOpen
	ActionShell
	ActionEdit
	ActionFind
	ActionFindNext
	ActionGrowPreview
	ActionShrinkPreview
)

var actionNames = map[Action]string{
	ActionQuit:           "quit",
	ActionDown:           "down",
	ActionUp:             "up",
	ActionParent:         "parent",
	ActionEnter:          "enter",
	ActionTop:            "top",
	ActionBottom:         "bottom",
	ActionJumpDown:       "jump-down",
	ActionJumpUp:         "jump-up",
	ActionPageDown:       "page-down",
	ActionPageUp:         "page-up",
	ActionHome:           "home",
	ActionBack:           "back",
	ActionTrashDir:       "trash-dir",
	ActionReload:         "reload",
	ActionToggleHidden:   "toggle-hidden",
	ActionToggleIcons:    "toggle-icons",
	ActionToggleDetails:  "toggle-details",
	ActionToggleDirsSize: "toggle-dirs-size",
	ActionHelp:           "help",
	ActionMark:           "mark",
	ActionMarkAll:        "mark-all",
	ActionClearMarks:     "clear-marks",
	ActionTrashMarked:    "trash-marked",
	ActionMoveMarked:     "move-marked",
	ActionCopyMarked:     "copy-marked",
	ActionLinkMarked:     "link-marked",
	ActionNewFile:        "new-file",
	ActionNewDir:         "new-dir",
	ActionRename:         "rename",
	ActionChmod:          "chmod",
	ActionYank:           "yank",
	ActionOpen:           "open",
	ActionShell:          "shell",
	ActionEdit:           "edit",
	ActionFind:           "find",
	ActionFindNext:       "find-next",
	ActionGrowPreview:    "grow-preview",
	ActionShrinkPreview:  "shrink-preview",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// ParseAction resolves an action name as used in the configuration file.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for action, n := range actionNames {
		if n == name {
			return action, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// KeyID identifies a key press independent of its timestamp.
type KeyID struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// IDOf returns the lookup identity of ev. Shift is folded into the rune for
// printable keys.
func IDOf(ev *tcell.EventKey) KeyID {
	if ev.Key() == tcell.KeyRune {
		return KeyID{Key: tcell.KeyRune, Rune: ev.Rune(), Mod: ev.Modifiers() &^ tcell.ModShift}
	}
	return KeyID{Key: ev.Key(), Mod: ev.Modifiers() &^ tcell.ModCtrl}
}

func runeKey(r rune) KeyID         { return KeyID{Key: tcell.KeyRune, Rune: r} }
func specialKey(k tcell.Key) KeyID { return KeyID{Key: k} }

// Keymap binds keys to actions.
type Keymap map[KeyID]Action

// DefaultKeymap returns the built-in bindings. The "gg" chord is handled by
// Handler, not by the map.
func DefaultKeymap() Keymap {
	return Keymap{
		runeKey('q'):                    ActionQuit,
		runeKey('j'):                    ActionDown,
		specialKey(tcell.KeyDown):       ActionDown,
		runeKey('k'):                    ActionUp,
		specialKey(tcell.KeyUp):         ActionUp,
		runeKey('h'):                    ActionParent,
		specialKey(tcell.KeyLeft):       ActionParent,
		specialKey(tcell.KeyBackspace):  ActionParent,
		specialKey(tcell.KeyBackspace2): ActionParent,
		runeKey('l'):                    ActionEnter,
		specialKey(tcell.KeyRight):      ActionEnter,
		specialKey(tcell.KeyEnter):      ActionEnter,
		runeKey('G'):                    ActionBottom,
		specialKey(tcell.KeyHome):       ActionTop,
		specialKey(tcell.KeyEnd):        ActionBottom,
		specialKey(tcell.KeyCtrlD):      ActionJumpDown,
		specialKey(tcell.KeyCtrlU):      ActionJumpUp,
		specialKey(tcell.KeyPgDn):       ActionPageDown,
		specialKey(tcell.KeyPgUp):       ActionPageUp,
		runeKey('~'):                    ActionHome,
		runeKey('-'):                    ActionBack,
		runeKey('t'):                    ActionTrashDir,
		runeKey('z'):                    ActionReload,
		runeKey('.'):                    ActionToggleHidden,
		runeKey('i'):                    ActionToggleIcons,
		runeKey('s'):                    ActionToggleDetails,
		runeKey('D'):                    ActionToggleDetails,
		runeKey('A'):                    ActionToggleDirsSize,
		runeKey('?'):                    ActionHelp,
		runeKey(' '):                    ActionMark,
		runeKey('a'):                    ActionMarkAll,
		runeKey('c'):                    ActionClearMarks,
		specialKey(tcell.KeyEscape):     ActionClearMarks,
		runeKey('X'):                    ActionTrashMarked,
		runeKey('m'):                    ActionMoveMarked,
		runeKey('y'):                    ActionCopyMarked,
		runeKey('L'):                    ActionLinkMarked,
		runeKey('n'):                    ActionNewFile,
		runeKey('N'):                    ActionNewDir,
		runeKey('r'):                    ActionRename,
		runeKey('x'):                    ActionChmod,
		runeKey('Y'):                    ActionYank,
		runeKey('o'):                    ActionOpen,
		runeKey('!'):                    ActionShell,
		runeKey('e'):                    ActionEdit,
		runeKey('/'):                    ActionFind,
		specialKey(tcell.KeyCtrlN):      ActionFindNext,
		runeKey('>'):                    ActionGrowPreview,
		runeKey('<'):                    ActionShrinkPreview,
	}
}

// Lookup returns the action bound to ev.
func (k Keymap) Lookup(ev *tcell.EventKey) (Action, bool) {
	action, ok := k[IDOf(ev)]
	return action, ok
}

// Bind parses a key name and binds it to the named action.
func (k Keymap) Bind(keyName, actionName string) error {
	id, err := ParseKey(keyName)
	if err != nil {
		return err
	}
	action, err := ParseAction(actionName)
	if err != nil {
		return err
	}
	k[id] = action
	return nil
}

// KeysFor lists the names of every key bound to action, sorted.
func (k Keymap) KeysFor(action Action) []string {
	var names []string
	for id, a := range k {
		if a == action {
			names = append(names, KeyName(id))
		}
	}
	sort.Strings(names)
	return names
}

var keysByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for key, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = key
	}
	return m
}()

// ParseKey accepts a single character ("x"), a tcell key name ("PgDn",
// "Ctrl-U", "Esc"), or "space".
func ParseKey(name string) (KeyID, error) {
	if name == "" {
		return KeyID{}, fmt.Errorf("empty key name")
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return runeKey(r), nil
	}
	lower := strings.ToLower(name)
	if lower == "space" {
		return runeKey(' '), nil
	}
	lower = strings.Replace(lower, "ctrl+", "ctrl-", 1)
	if key, ok := keysByName[lower]; ok {
		return specialKey(key), nil
	}
	return KeyID{}, fmt.Errorf("unknown key %q", name)
}

// KeyName renders id the way ParseKey accepts it.
func KeyName(id KeyID) string {
	if id.Key == tcell.KeyRune {
		if id.Rune == ' ' {
			return "space"
		}
		return string(id.Rune)
	}
	if name, ok := tcell.KeyNames[id.Key]; ok {
		return name
	}
	return fmt.Sprintf("Key[%d]", int(id.Key))
}
