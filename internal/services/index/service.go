package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Paintersrp/ancards/internal/pathutil"
	"github.com/Paintersrp/ancards/internal/search"
)

// ErrClosed is returned by every read after Close.
var ErrClosed = errors.New("index service closed")

// ErrUnavailable is returned when there is no vault to index.
var ErrUnavailable = errors.New("search index unavailable")

// Stats describes the index for the status line.
type Stats struct {
	LastRebuild time.Time
	Pending     int
	Documents   int
	Revision    uint64
}

// Service keeps the search index of one workspace vault. Watcher events
// only mark paths as changed; the next read folds them in and moves the
// revision forward, which is what the card view polls to learn that its
// results are stale.
type Service struct {
	mu      sync.Mutex
	vault   string
	cfg     search.Config
	ignored map[string]struct{}

	idx     *search.Index
	changed map[string]struct{}
	rev     uint64
	builtAt time.Time
	closed  bool

	now    func() time.Time
	stat   func(string) (fs.FileInfo, error)
	maxAge time.Duration
}

// NewService returns a service for vault. Nothing is read from disk until
// the first query.
func NewService(vault string, cfg search.Config) *Service {
	ignored := make(map[string]struct{}, len(cfg.IgnoredFolders))
	for _, dir := range cfg.IgnoredFolders {
		ignored[strings.ToLower(dir)] = struct{}{}
	}
	return &Service{
		vault:   pathutil.NormalizePath(vault),
		cfg:     cfg,
		ignored: ignored,
		changed: make(map[string]struct{}),
		now:     time.Now,
		stat:    os.Stat,
		maxAge:  time.Hour,
	}
}

// Query parses expression and returns the matching notes ordered by path.
// Parse failures wrap search.ErrInvalidExpression.
func (s *Service) Query(expression string) ([]search.Document, error) {
	expr, err := search.ParseExpr(expression)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return nil, err
	}
	return s.idx.Query(expr), nil
}

// Revision returns the content revision a query made now would observe.
// A failed refresh leaves the last known revision in place.
func (s *Service) Revision() uint64 {
	if s == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.refresh()
	return s.rev
}

// QueueUpdate marks a vault-relative path as changed.
func (s *Service) QueueUpdate(rel string) {
	rel = strings.TrimSpace(rel)
	if s == nil || rel == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.changed[filepath.ToSlash(rel)] = struct{}{}
	}
}

func (s *Service) Stats() Stats {
	if s == nil {
		return Stats{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		LastRebuild: s.builtAt,
		Pending:     len(s.changed),
		Documents:   s.idx.Len(),
		Revision:    s.rev,
	}
}

// Close drops the index. Later reads return ErrClosed.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.idx = nil
	s.changed = nil
	return nil
}

// refresh brings the index up to date, bumping the revision when anything
// was folded in. Callers hold s.mu.
func (s *Service) refresh() error {
	if s.closed {
		return ErrClosed
	}
	if s.idx == nil || (s.maxAge > 0 && s.now().Sub(s.builtAt) > s.maxAge) {
		return s.rebuild()
	}
	if len(s.changed) == 0 {
		return nil
	}

	changed := s.changed
	s.changed = make(map[string]struct{})
	s.rev++
	for rel := range changed {
		if err := s.reindex(rel); err != nil {
			return err
		}
	}
	return nil
}

// rebuild walks the whole vault. Queued changes are covered by the walk.
func (s *Service) rebuild() error {
	if s.vault == "" {
		return ErrUnavailable
	}
	paths, err := s.notesUnder(s.vault)
	if err != nil {
		return err
	}

	idx := search.NewIndex(s.vault, s.cfg)
	if err := idx.Build(paths); err != nil {
		return fmt.Errorf("build search index: %w", err)
	}

	s.idx = idx
	s.changed = make(map[string]struct{})
	s.builtAt = s.now()
	s.rev++
	return nil
}

func (s *Service) reindex(rel string) error {
	path := pathutil.NormalizePath(filepath.Join(s.vault, filepath.FromSlash(rel)))
	if path == "" {
		return nil
	}

	info, err := s.stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s.idx.Remove(path)
	case err != nil:
		return fmt.Errorf("stat %s: %w", path, err)
	case info.IsDir():
		// A moved or restored folder: replace everything below it.
		if err := s.idx.Remove(path); err != nil {
			return err
		}
		notes, err := s.notesUnder(path)
		if err != nil {
			return err
		}
		for _, note := range notes {
			if err := s.idx.Update(note); err != nil {
				return fmt.Errorf("update %s: %w", note, err)
			}
		}
		return nil
	}

	if err := s.idx.Update(path); err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	return nil
}

// notesUnder lists the notes below root in path order, skipping hidden and
// ignored folders.
func (s *Service) notesUnder(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if s.cfg.IsNote(d.Name()) {
				paths = append(paths, path)
			}
			return nil
		}
		if path == root {
			return nil
		}
		name := strings.ToLower(d.Name())
		if _, skip := s.ignored[name]; skip || strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
