package term

import (
	"bytes"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestForegroundSGR(t *testing.T) {
	tests := []struct {
		name  string
		color tcell.Color
		want  string
	}{
		{"default", tcell.ColorDefault, "\x1b[39m"},
		{"maroon", tcell.ColorMaroon, "\x1b[31m"},
		{"silver", tcell.ColorSilver, "\x1b[37m"},
		{"bright blue", tcell.ColorBlue, "\x1b[94m"},
		{"aqua", tcell.ColorAqua, "\x1b[96m"},
		{"palette 208", tcell.PaletteColor(208), "\x1b[38;5;208m"},
		{"rgb", tcell.NewRGBColor(1, 2, 3), "\x1b[38;2;1;2;3m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForegroundSGR(tt.color); got != tt.want {
				t.Fatalf("ForegroundSGR(%v)=%q want %q", tt.color, got, tt.want)
			}
		})
	}
}

func TestScreenBuffersUntilFlush(t *testing.T) {
	var out bytes.Buffer
	screen := NewScreen(&out)
	screen.MoveTo(3, 7)
	screen.SetReverse()
	screen.WriteString("hi")
	screen.ResetStyle()
	screen.ClearToEOL()

	if out.Len() != 0 {
		t.Fatalf("output written before Flush: %q", out.String())
	}
	if err := screen.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "\x1b[3;7H\x1b[7mhi\x1b[0m\x1b[K"
	if out.String() != want {
		t.Fatalf("got %q want %q", out.String(), want)
	}
}

func TestMoveToClampsToOrigin(t *testing.T) {
	var out bytes.Buffer
	screen := NewScreen(&out)
	screen.MoveTo(0, -4)
	screen.Flush()
	if out.String() != "\x1b[1;1H" {
		t.Fatalf("got %q", out.String())
	}
}
