package render

import "github.com/gdamore/tcell/v2"

// Theme holds the colors that are not derived from an entry's kind.
type Theme struct {
	MarkedFg      tcell.Color
	PlaceholderFg tcell.Color
	SeparatorFg   tcell.Color
	HelpKeyFg     tcell.Color
}

// DefaultTheme returns the built-in colors.
func DefaultTheme() Theme {
	return Theme{
		MarkedFg:      tcell.ColorAqua,
		PlaceholderFg: tcell.ColorGray,
		SeparatorFg:   tcell.ColorGray,
		HelpKeyFg:     tcell.ColorYellow,
	}
}
