package shortcut

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/steam-shortcut-sync/internal/icon"
	"github.com/grovetools/steam-shortcut-sync/util/sanitize"
	"github.com/sirupsen/logrus"
)

const (
	// RunGameURI is the Steam URI scheme prefix that launches a game by id.
	RunGameURI = "steam://rungameid/"

	// DefaultLaunchCommand starts the Flatpak Steam client.
	DefaultLaunchCommand = "flatpak run com.valvesoftware.Steam"

	fileExt = ".desktop"
)

// Codec parses and serializes desktop entry files.
type Codec struct {
	execLine      *regexp.Regexp
	nameLine      *regexp.Regexp
	launchCommand string
	logger        *logrus.Entry
}

// NewCodec creates a Codec that writes Exec lines with launchCommand.
// If launchCommand is empty, DefaultLaunchCommand is used.
func NewCodec(launchCommand string, logger *logrus.Entry) *Codec {
	if launchCommand == "" {
		launchCommand = DefaultLaunchCommand
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Codec{
		execLine:      regexp.MustCompile(`^Exec=.*steam://rungameid/(\d+)\s*$`),
		nameLine:      regexp.MustCompile(`^Name=(.+)$`),
		launchCommand: launchCommand,
		logger:        logger,
	}
}

// Load walks dir recursively and returns every shortcut it finds.
// Files that are not Steam game entries are skipped. A missing dir yields an
// empty set.
func (c *Codec) Load(dir string) (Set, error) {
	set := make(Set)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			if path != dir {
				// Unreadable subtree, keep going with the rest
				c.logger.WithError(err).WithField("path", path).Debug("Skipping unreadable path")
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.WithError(err).WithField("path", path).Debug("Skipping unreadable file")
			return nil
		}

		if rec, ok := c.Parse(data); ok {
			set[rec] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load shortcuts from %s: %w", dir, err)
	}

	return set, nil
}

// Parse extracts a Record from desktop entry contents. The last matching
// Exec and Name lines win.
func (c *Codec) Parse(data []byte) (Record, bool) {
	var rec Record
	var haveID, haveName bool

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if m := c.execLine.FindStringSubmatch(line); m != nil {
			rec.ID = m[1]
			haveID = true
		}
		if m := c.nameLine.FindStringSubmatch(line); m != nil {
			rec.Name = m[1]
			haveName = true
		}
	}

	return rec, haveID && haveName
}

// Format renders the desktop entry for rec.
func (c *Codec) Format(rec Record) []byte {
	var b bytes.Buffer
	b.WriteString("[Desktop Entry]\n")
	fmt.Fprintf(&b, "Name=%s\n", rec.Name)
	fmt.Fprintf(&b, "Icon=%s\n", icon.Name(rec.ID))
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Exec=%s %s%s\n", c.launchCommand, RunGameURI, rec.ID)
	return b.Bytes()
}

// Write stores the desktop entry for rec in dir, replacing any existing file.
// The entry is written to a temporary file first so a launcher never reads a
// partial one.
func (c *Codec) Write(rec Record, dir string) error {
	path := filepath.Join(dir, FileName(rec.Name))

	tmp, err := os.CreateTemp(dir, ".shortcut-*")
	if err != nil {
		return fmt.Errorf("write shortcut %q: %w", rec.Name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(c.Format(rec)); err != nil {
		tmp.Close()
		return fmt.Errorf("write shortcut %q: %w", rec.Name, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod shortcut %q: %w", rec.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write shortcut %q: %w", rec.Name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write shortcut %q: %w", rec.Name, err)
	}
	return nil
}

// Remove deletes the desktop entry named after name in dir. A missing file
// returns an error wrapping fs.ErrNotExist.
func (c *Codec) Remove(name, dir string) error {
	path := filepath.Join(dir, FileName(name))
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove shortcut %q: %w", name, err)
	}
	return nil
}

// FileName returns the desktop entry filename for a display name.
func FileName(name string) string {
	return sanitize.ForDesktopFile(name) + fileExt
}
