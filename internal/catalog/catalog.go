// Package catalog finds the tracks a player can choose from.
package catalog

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ManifestName is the optional file listing tracks in a song directory.
const ManifestName = "tracks.yaml"

// Track is one piece of backing music. ID is stable and is what high
// scores are keyed by; Path may move without losing them.
type Track struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Path  string `yaml:"file"`
}

type manifest struct {
	Tracks []Track `yaml:"tracks"`
}

// IDs returns the identifiers of tracks, in order.
func IDs(tracks []Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

// Load reads the manifest in dir, or walks dir for audio files when there
// is none.
func Load(dir string) ([]Track, error) {
	tracks, err := readManifest(dir)
	if os.IsNotExist(errors.Cause(err)) {
		tracks, err = walk(dir)
	}
	if nil != err {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, errors.Errorf("unable to find any .mp3/.ogg/.wav track in %s", dir)
	}
	return tracks, nil
}

func readManifest(dir string) ([]Track, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if nil != err {
		return nil, errors.Wrap(err, "unable to read track manifest")
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); nil != err {
		return nil, errors.Wrap(err, "unable to parse track manifest")
	}
	seen := map[string]bool{}
	for i := range m.Tracks {
		t := &m.Tracks[i]
		if t.Path == "" {
			return nil, errors.Errorf("track %d in manifest has no file", i)
		}
		if !filepath.IsAbs(t.Path) {
			t.Path = filepath.Join(dir, t.Path)
		}
		if t.ID == "" {
			t.ID = idFromPath(t.Path)
		}
		if t.Title == "" {
			t.Title = t.ID
		}
		if seen[t.ID] {
			return nil, errors.Errorf("track id %q listed twice", t.ID)
		}
		seen[t.ID] = true
	}
	return m.Tracks, nil
}

func walk(dir string) ([]Track, error) {
	tracks := []Track{}
	seen := map[string]bool{}
	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(path.Ext(info.Name())) {
		case ".mp3", ".ogg", ".wav":
			id := idFromPath(p)
			if seen[id] {
				return nil
			}
			seen[id] = true
			tracks = append(tracks, Track{ID: id, Title: strings.TrimSuffix(info.Name(), path.Ext(info.Name())), Path: p})
		}
		return nil
	}); nil != err {
		return nil, errors.Wrap(err, "unable to walk song directory")
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].ID < tracks[j].ID })
	return tracks, nil
}

func idFromPath(p string) string {
	base := filepath.Base(p)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
