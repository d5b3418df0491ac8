package render

import (
	"strings"

	"github.com/kk-code-lab/ccc/internal/term"
	"github.com/kk-code-lab/ccc/internal/textutil"
	"github.com/kk-code-lab/ccc/internal/ui/input"
)

type helpEntry struct {
	action input.Action
	desc   string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{
		title: "Navigation",
		entries: []helpEntry{
			{input.ActionDown, "Move down"},
			{input.ActionUp, "Move up"},
			{input.ActionEnter, "Enter directory / edit file"},
			{input.ActionParent, "Parent directory"},
			{input.ActionTop, "First entry (also gg)"},
			{input.ActionBottom, "Last entry"},
			{input.ActionJumpDown, "Jump down"},
			{input.ActionJumpUp, "Jump up"},
			{input.ActionPageDown, "Page down"},
			{input.ActionPageUp, "Page up"},
			{input.ActionHome, "Home directory"},
			{input.ActionBack, "Previous directory"},
			{input.ActionTrashDir, "Trash directory"},
			{input.ActionFind, "Find by name"},
			{input.ActionFindNext, "Find next"},
		},
	},
	{
		title: "View",
		entries: []helpEntry{
			{input.ActionReload, "Reload"},
			{input.ActionToggleHidden, "Toggle hidden files"},
			{input.ActionToggleIcons, "Toggle icons"},
			{input.ActionToggleDetails, "Toggle details"},
			{input.ActionToggleDirsSize, "Toggle directory sizes"},
			{input.ActionGrowPreview, "Widen preview"},
			{input.ActionShrinkPreview, "Narrow preview"},
			{input.ActionHelp, "Close this help"},
		},
	},
	{
		title: "Marks",
		entries: []helpEntry{
			{input.ActionMark, "Toggle mark"},
			{input.ActionMarkAll, "Mark all"},
			{input.ActionClearMarks, "Clear marks"},
			{input.ActionTrashMarked, "Move marked to trash"},
			{input.ActionMoveMarked, "Move marked here"},
			{input.ActionCopyMarked, "Copy marked here"},
			{input.ActionLinkMarked, "Symlink marked here"},
		},
	},
	{
		title: "Files",
		entries: []helpEntry{
			{input.ActionNewFile, "New file"},
			{input.ActionNewDir, "New directory"},
			{input.ActionRename, "Rename"},
			{input.ActionChmod, "Toggle executable bit"},
			{input.ActionYank, "Copy path to clipboard"},
			{input.ActionOpen, "Open with system handler"},
			{input.ActionEdit, "Edit"},
			{input.ActionShell, "Shell in current directory"},
			{input.ActionQuit, "Quit"},
		},
	},
}

// buildHelpLines lays out the key reference for a panel width cells wide.
// Actions without a binding are left out.
func buildHelpLines(keymap input.Keymap, width int, theme Theme) []string {
	const keyColumn = 14

	var lines []string
	for i, section := range helpSections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, term.ForegroundSGR(theme.HelpKeyFg)+"\x1b[1m"+textutil.TruncateToWidth(section.title, width)+"\x1b[0m")
		for _, entry := range section.entries {
			keys := keymap.KeysFor(entry.action)
			if len(keys) == 0 {
				continue
			}
			keyText := textutil.PadToWidth(strings.Join(keys, " "), keyColumn)
			row := keyText + " " + entry.desc
			if textutil.DisplayWidth(row) > width {
				row = textutil.TruncateToWidth(row, width)
				lines = append(lines, row)
				continue
			}
			lines = append(lines, term.ForegroundSGR(theme.HelpKeyFg)+keyText+"\x1b[0m "+entry.desc)
		}
	}
	return lines
}
