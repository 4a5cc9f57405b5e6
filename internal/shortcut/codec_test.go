package shortcut

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCodec_Parse(t *testing.T) {
	c := NewCodec("", nil)

	testCases := []struct {
		name    string
		content string
		want    Record
		ok      bool
	}{
		{
			name:    "steam generated entry",
			content: "[Desktop Entry]\nName=Portal 2\nComment=Play this game on Steam\nExec=steam steam://rungameid/620\nIcon=steam_icon_620\nType=Application\n",
			want:    Record{Name: "Portal 2", ID: "620"},
			ok:      true,
		},
		{
			name:    "crlf line endings",
			content: "[Desktop Entry]\r\nName=Celeste\r\nExec=steam steam://rungameid/504230\r\n",
			want:    Record{Name: "Celeste", ID: "504230"},
			ok:      true,
		},
		{
			name:    "last lines win",
			content: "Name=First\nExec=steam steam://rungameid/1\nName=Second\nExec=steam steam://rungameid/2\n",
			want:    Record{Name: "Second", ID: "2"},
			ok:      true,
		},
		{
			name:    "empty name",
			content: "Name=\nExec=steam steam://rungameid/10\n",
			ok:      false,
		},
		{
			name:    "missing name",
			content: "Exec=steam steam://rungameid/10\n",
			ok:      false,
		},
		{
			name:    "non numeric id",
			content: "Name=Tool\nExec=steam steam://rungameid/abc\n",
			ok:      false,
		},
		{
			name:    "unrelated application",
			content: "[Desktop Entry]\nName=Firefox\nExec=firefox %u\n",
			ok:      false,
		},
		{
			name:    "localized name only",
			content: "Name[de]=Spiel\nExec=steam steam://rungameid/5\n",
			ok:      false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := c.Parse([]byte(tc.content))
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestCodec_Load(t *testing.T) {
	c := NewCodec("", nil)

	t.Run("recursive walk", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Portal 2.desktop"), "Name=Portal 2\nExec=steam steam://rungameid/620\n")
		writeFile(t, filepath.Join(dir, "nested", "deeper", "Hades.desktop"), "Name=Hades\nExec=steam steam://rungameid/1145360\n")
		writeFile(t, filepath.Join(dir, "firefox.desktop"), "Name=Firefox\nExec=firefox\n")
		writeFile(t, filepath.Join(dir, "blob.bin"), "\x00\x01\x02")

		set, err := c.Load(dir)
		require.NoError(t, err)
		assert.Equal(t, NewSet(
			Record{Name: "Portal 2", ID: "620"},
			Record{Name: "Hades", ID: "1145360"},
		), set)
	})

	t.Run("empty directory", func(t *testing.T) {
		set, err := c.Load(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, set)
	})

	t.Run("missing directory", func(t *testing.T) {
		set, err := c.Load(filepath.Join(t.TempDir(), "missing"))
		require.NoError(t, err)
		assert.Empty(t, set)
	})
}

func TestCodec_WriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewCodec("flatpak run com.valvesoftware.Steam", nil)
	rec := Record{Name: "Game A", ID: "100"}

	require.NoError(t, c.Write(rec, dir))

	data, err := os.ReadFile(filepath.Join(dir, "Game A.desktop"))
	require.NoError(t, err)
	assert.Equal(t, "[Desktop Entry]\n"+
		"Name=Game A\n"+
		"Icon=steam_icon_100\n"+
		"Type=Application\n"+
		"Exec=flatpak run com.valvesoftware.Steam steam://rungameid/100\n", string(data))

	set, err := c.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, NewSet(rec), set)
}

func TestCodec_WriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	c := NewCodec("", nil)

	writeFile(t, filepath.Join(dir, "Game A.desktop"), "stale contents")
	require.NoError(t, c.Write(Record{Name: "Game A", ID: "100"}, dir))

	set, err := c.Load(dir)
	require.NoError(t, err)
	assert.True(t, set.Has(Record{Name: "Game A", ID: "100"}))
}

func TestCodec_WriteLeavesOnlyEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewCodec("", nil)
	require.NoError(t, c.Write(Record{Name: "AC/DC Live", ID: "42"}, dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "AC_DC Live.desktop", entries[0].Name())

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestCodec_WriteMissingDir(t *testing.T) {
	c := NewCodec("", nil)
	err := c.Write(Record{Name: "Game A", ID: "100"}, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestCodec_Remove(t *testing.T) {
	dir := t.TempDir()
	c := NewCodec("", nil)
	rec := Record{Name: "Old Game", ID: "200"}
	require.NoError(t, c.Write(rec, dir))

	require.NoError(t, c.Remove(rec.Name, dir))
	_, err := os.Stat(filepath.Join(dir, "Old Game.desktop"))
	assert.True(t, os.IsNotExist(err))

	err = c.Remove(rec.Name, dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Portal 2.desktop", FileName("Portal 2"))
	assert.Equal(t, "AC_DC.desktop", FileName("AC/DC"))
}

func TestSet_Sorted(t *testing.T) {
	s := NewSet(
		Record{Name: "B", ID: "1"},
		Record{Name: "A", ID: "2"},
		Record{Name: "A", ID: "1"},
	)
	assert.Equal(t, []Record{{"A", "1"}, {"A", "2"}, {"B", "1"}}, s.Sorted())
}
