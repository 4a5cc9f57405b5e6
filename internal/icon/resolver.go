// Package icon locates Steam game icons inside nested, size-versioned icon
// theme directories.
package icon

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// Name returns the icon name referenced by a desktop entry for a game id.
func Name(id string) string {
	return "steam_icon_" + id
}

// FileName returns the icon filename for a game id.
func FileName(id string) string {
	return Name(id) + ".png"
}

// Resolve walks root and returns the icon file for id.
//
// When several sizes exist, the lexicographically greatest path wins. Steam
// lays icons out as hicolor/<W>x<H>/apps, so this usually picks the largest
// size, but "64x64" sorts after "256x256": it is a heuristic, not a
// resolution check.
func Resolve(id, root string) (string, bool) {
	want := FileName(id)
	var matches []string

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Missing root or unreadable subtree: nothing to collect there
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Name() == want {
			matches = append(matches, path)
		}
		return nil
	})

	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[len(matches)-1], true
}
