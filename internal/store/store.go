// Package store persists a selection as a small YAML document.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lululau/datepick/internal/calendar"
	"github.com/lululau/datepick/internal/selection"
)

// Snapshot is the on-disk form of a selection. A range is stored by its two
// ends; a pending anchor is stored alone with Pending set.
type Snapshot struct {
	Mode    string   `yaml:"mode"`
	Dates   []string `yaml:"dates"`
	Pending bool     `yaml:"pending,omitempty"`
}

// Capture converts the engine state into a Snapshot.
func Capture(e *selection.Engine) Snapshot {
	snap := Snapshot{Mode: e.Mode().String(), Dates: []string{}}
	if start, end, ok := e.Range(); ok {
		snap.Dates = append(snap.Dates, start.String(), end.String())
		return snap
	}
	if anchor, ok := e.Pending(); ok {
		snap.Dates = append(snap.Dates, anchor.String())
		snap.Pending = true
		return snap
	}
	for _, d := range e.Dates() {
		snap.Dates = append(snap.Dates, d.String())
	}
	return snap
}

// Restore builds an engine from a Snapshot.
func (s Snapshot) Restore() (*selection.Engine, error) {
	mode, err := selection.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	e, err := selection.New(mode)
	if err != nil {
		return nil, err
	}
	days := make([]calendar.Date, 0, len(s.Dates))
	for _, raw := range s.Dates {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return e, nil
	}
	if mode == selection.Range && s.Pending && len(days) != 1 {
		return nil, fmt.Errorf("%w: pending range needs exactly one date, got %d", selection.ErrInvalidModeOperation, len(days))
	}
	if err := e.Select(days...); err != nil {
		return nil, err
	}
	return e, nil
}

// Load reads a snapshot. A missing file yields an empty engine in
// fallback mode.
func Load(path string, fallback selection.Mode) (*selection.Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return selection.New(fallback)
		}
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse selection file %s: %w", path, err)
	}
	return snap.Restore()
}

// Save writes the engine state atomically with 0600 permissions.
func Save(path string, e *selection.Engine) error {
	if path == "" {
		return errors.New("selection path is empty")
	}
	data, err := yaml.Marshal(Capture(e))
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".datepick-selection-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
