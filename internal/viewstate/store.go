// Package viewstate persists the per-view settings of the card view: sort,
// search, mode, limit and width.
package viewstate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownView is returned when no state has been stored for a view.
	ErrUnknownView = errors.New("unknown view")
	ErrInvalidID   = errors.New("invalid view id")
)

const fileExt = ".yaml"

const (
	WidthNormal = "normal"
	WidthWide   = "wide"
)

// Record is the persisted state of one view.
type Record struct {
	Query     string `yaml:"query,omitempty"`
	Search    string `yaml:"search,omitempty"`
	Sort      string `yaml:"sort,omitempty"`
	Seed      int64  `yaml:"seed,omitempty"`
	Mode      string `yaml:"mode,omitempty"`
	Limit     int    `yaml:"limit,omitempty"`
	WidthMode string `yaml:"width_mode,omitempty"`
}

// Normalize clamps values that cannot be meaningfully stored.
func (r Record) Normalize() Record {
	if r.Limit < 0 {
		r.Limit = 0
	}
	r.WidthMode = strings.ToLower(strings.TrimSpace(r.WidthMode))
	if r.WidthMode != WidthWide {
		r.WidthMode = WidthNormal
	}
	return r
}

// WidthScale is the card size multiplier for the width mode.
func (r Record) WidthScale() float64 {
	if r.WidthMode == WidthWide {
		return 1.5
	}
	return 1
}

// Store keeps one yaml file per view under a directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) path(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id+fileExt), nil
}

// Load reads the stored state for id. A view that was never saved returns
// an error wrapping ErrUnknownView.
func (s *Store) Load(id string) (Record, error) {
	path, err := s.path(id)
	if err != nil {
		return Record{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, fmt.Errorf("%w: %s", ErrUnknownView, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("read view state %s: %w", id, err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parse view state %s: %w", id, err)
	}
	return rec.Normalize(), nil
}

// Save writes rec for id. The file is replaced atomically so a crash never
// leaves a truncated record behind.
func (s *Store) Save(id string, rec Record) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(rec.Normalize())
	if err != nil {
		return fmt.Errorf("encode view state %s: %w", id, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create view state directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+id+"-*")
	if err != nil {
		return fmt.Errorf("create temp view state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write view state %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close view state %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace view state %s: %w", id, err)
	}
	return nil
}

// Reset deletes the stored state for id.
func (s *Store) Reset(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrUnknownView, id)
	}
	if err != nil {
		return fmt.Errorf("remove view state %s: %w", id, err)
	}
	return nil
}

// List returns the ids with stored state, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list view states: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != fileExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(ids)
	return ids, nil
}
