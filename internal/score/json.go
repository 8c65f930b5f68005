package score

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FileStore keeps high scores as a single JSON object of track to score.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Close() error { return nil }

// Load reads the file. A missing file is an empty table, not an error.
func (s *FileStore) Load() (map[string]int, error) {
	scores := map[string]int{}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return scores, nil
	}
	if nil != err {
		return scores, errors.Wrap(err, "unable to read high score file")
	}
	if !gjson.ValidBytes(data) {
		return scores, errors.Errorf("%s is not valid json", s.path)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return scores, errors.Errorf("%s does not hold a json object", s.path)
	}
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Number {
			scores[key.String()] = int(value.Int())
		}
		return true
	})
	return scores, nil
}

// Save writes the whole table to a temporary file and renames it over the
// old one.
func (s *FileStore) Save(scores map[string]int) error {
	tracks := make([]string, 0, len(scores))
	for t := range scores {
		tracks = append(tracks, t)
	}
	sort.Strings(tracks)

	data := []byte("{}")
	for _, t := range tracks {
		var err error
		data, err = sjson.SetBytes(data, escapeKey(t), scores[t])
		if nil != err {
			return errors.Wrapf(err, "unable to encode high score for %q", t)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".scores-*.json")
	if nil != err {
		return errors.Wrap(err, "unable to create high score file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); nil != err {
		tmp.Close()
		return errors.Wrap(err, "unable to write high score file")
	}
	if err := tmp.Close(); nil != err {
		return errors.Wrap(err, "unable to write high score file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "unable to replace high score file")
}

// escapeKey makes a track id safe to use as a single sjson path component.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r > 127:
		default:
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
