package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

const MAX_RECENT = 10

type RecentFile struct {
	Path string `yaml:"path"`
	Time int64  `yaml:"time"`
}

type RecentFiles []RecentFile

// Recent remembers the MIDI files exported and imported across sessions.
type Recent struct {
	path    string
	Exports RecentFiles `yaml:"exports"`
	Imports RecentFiles `yaml:"imports"`
}

func LoadRecent(path string) (*Recent, error) {
	r := &Recent{path: path, Exports: RecentFiles{}, Imports: RecentFiles{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return r, err
	}
	if err := yaml.Unmarshal(data, r); err != nil {
		return &Recent{path: path}, err
	}
	return r, nil
}

func (r *Recent) Save() error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

// add moves path to the end of the list, dropping the oldest past MAX_RECENT.
func add(files RecentFiles, path string, now time.Time) RecentFiles {
	files = slices.DeleteFunc(files, func(rf RecentFile) bool {
		return rf.Path == path
	})
	files = append(files, RecentFile{Path: path, Time: now.Unix()})
	if len(files) > MAX_RECENT {
		files = files[len(files)-MAX_RECENT:]
	}
	return files
}

func (r *Recent) AddExport(path string) {
	r.Exports = add(r.Exports, path, time.Now())
}

func (r *Recent) AddImport(path string) {
	r.Imports = add(r.Imports, path, time.Now())
}

// Newest first.
func (rfs RecentFiles) Newest() RecentFiles {
	s := slices.Clone(rfs)
	slices.Reverse(s)
	return s
}

// Dir is the folder of the most recently used file, or "".
func (r *Recent) Dir() string {
	var last RecentFile
	for _, rf := range append(slices.Clone(r.Exports), r.Imports...) {
		if rf.Time >= last.Time {
			last = rf
		}
	}
	if last.Path == "" {
		return ""
	}
	return filepath.Dir(last.Path)
}

// Refresh drops files that no longer exist.
func (r *Recent) Refresh() {
	gone := func(rf RecentFile) bool {
		_, err := os.Stat(rf.Path)
		return err != nil
	}
	r.Exports = slices.DeleteFunc(r.Exports, gone)
	r.Imports = slices.DeleteFunc(r.Imports, gone)
}
