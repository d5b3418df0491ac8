package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsBinaryFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content []byte
		binary  bool
	}{
		{"empty", nil, false},
		{"plain text", []byte("hello\nworld\n"), false},
		{"ansi text", []byte("\x1b[31mred\x1b[0m\n"), false},
		{"nul at start", []byte{0x00, 'a', 'b'}, true},
		{"nul far away", append([]byte(strings.Repeat("a", binaryScanChunk+10)), 0x00), true},
		{"utf16 le", []byte{0xFF, 0xFE, 0x41, 0x00, 0x0A, 0x00}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_"))
			if err := os.WriteFile(path, tt.content, 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := IsBinaryFile(path)
			if err != nil {
				t.Fatalf("IsBinaryFile: %v", err)
			}
			if got != tt.binary {
				t.Fatalf("IsBinaryFile=%v want %v", got, tt.binary)
			}
		})
	}
}

func TestIsBinaryFileMissing(t *testing.T) {
	if _, err := IsBinaryFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNormalizeTextContentUTF16LE(t *testing.T) {
	content := []byte{0xFF, 0xFE, 0x41, 0x00, 0x0D, 0x00, 0x0A, 0x00}
	got := NormalizeTextContent(content)
	want := "A\r\n"
	if got != want {
		t.Fatalf("NormalizeTextContent returned %q, want %q", got, want)
	}
}
