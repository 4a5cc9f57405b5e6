package sanitize

import (
	"strings"
)

// desktopFileReplacer handles characters that cannot appear in a single path element
var desktopFileReplacer = strings.NewReplacer(
	"/", "_",
	"\x00", "_",
)

// ForDesktopFile sanitizes a display name for use as a launcher entry filename.
// Only characters that would escape the target directory or break the
// filesystem call are replaced; spaces, punctuation and unicode are kept so
// the file name stays recognizable.
func ForDesktopFile(s string) string {
	s = desktopFileReplacer.Replace(s)

	// "." and ".." would resolve to the directory itself
	switch s {
	case "", ".", "..":
		return strings.Repeat("_", len(s)+1)
	}

	return s
}
