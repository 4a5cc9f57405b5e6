package sanitize

import "testing"

func TestForDesktopFile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple string", "Portal", "Portal"},
		{"with spaces", "Half-Life 2", "Half-Life 2"},
		{"punctuation kept", "Baldur's Gate 3: Deluxe", "Baldur's Gate 3: Deluxe"},
		{"unicode kept", "Ōkami HD", "Ōkami HD"},
		{"path separator", "AC/DC Live", "AC_DC Live"},
		{"traversal", "../../etc", ".._.._etc"},
		{"nul byte", "a\x00b", "a_b"},
		{"empty string", "", "_"},
		{"dot", ".", "__"},
		{"dot dot", "..", "___"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ForDesktopFile(tt.input)
			if result != tt.expected {
				t.Errorf("ForDesktopFile(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
