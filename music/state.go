package music

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/JeanRibes/beatbox/shared"

	"gopkg.in/yaml.v3"
)

// GridStore persists a grid as one flat sequence of 256 booleans.
type GridStore struct {
	Path string
}

func NewGridStore(path string) *GridStore {
	if path == "" {
		path = DEFAULT_STATE_FILE
	}
	return &GridStore{Path: path}
}

func (s *GridStore) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// SaveToFile writes through a temporary file so a failed save never leaves a
// truncated state behind.
func (s *GridStore) SaveToFile(grid Grid) (errs error) {
	var node yaml.Node
	if err := node.Encode(grid[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	node.Style = yaml.FlowStyle
	data, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".grid-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	if _, err := tmp.Write(data); err != nil {
		errs = errors.Join(errs, err)
	}
	if err := tmp.Close(); err != nil {
		errs = errors.Join(errs, err)
	}
	if errs == nil {
		errs = os.Rename(tmp.Name(), s.Path)
	}
	if errs != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, errs)
	}
	return nil
}

func (s *GridStore) LoadFromFile() (Grid, error) {
	var grid Grid
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return grid, fmt.Errorf("%w: no saved grid at %s", ErrPersistenceUnavailable, s.Path)
		}
		return grid, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	var cells []bool
	if err := yaml.Unmarshal(data, &cells); err != nil {
		return grid, fmt.Errorf("%w: %s: %v", ErrPersistenceUnavailable, s.Path, err)
	}
	if len(cells) != NUM_CELLS {
		return grid, fmt.Errorf("%w: %s holds %d cells, want %d", ErrPersistenceUnavailable, s.Path, len(cells), NUM_CELLS)
	}
	copy(grid[:], cells)
	return grid, nil
}
