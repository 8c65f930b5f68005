package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
}

func TestLoadWalksDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Musica.mp3", "b/other.ogg", "notes.txt", "cover.jpeg")

	tracks, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, []string{"musica", "other"}, IDs(tracks))
	assert.Equal(t, "Musica", tracks[0].Title)
	assert.Equal(t, filepath.Join(dir, "b", "other.ogg"), tracks[1].Path)
}

func TestLoadPrefersManifest(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp3", "b.mp3")
	manifest := `
tracks:
  - id: t1
    title: First
    file: b.mp3
  - file: a.mp3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644))

	tracks, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []Track{
		{ID: "t1", Title: "First", Path: filepath.Join(dir, "b.mp3")},
		{ID: "a", Title: "a", Path: filepath.Join(dir, "a.mp3")},
	}, tracks)
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	manifest := "tracks:\n  - {id: x, file: a.mp3}\n  - {id: x, file: b.mp3}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
