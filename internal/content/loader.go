// Package content loads the preview text and image references shown on
// cards. Results are cached per path, including failures, so a broken note is
// read once rather than on every scroll.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Paintersrp/ancards/internal/cache"
	"github.com/Paintersrp/ancards/internal/logging"
)

const (
	DefaultPreviewChars = 240
	DefaultMaxImages    = 2
	DefaultCacheBytes   = 8 << 20
)

// Entry is the loaded content of one note.
type Entry struct {
	Path    string
	Preview string
	Images  []string
	// Err records why loading failed. Failed entries stay cached with empty
	// content so they are not retried until invalidated.
	Err error
}

// HasPreview reports whether preview text is available.
func (e Entry) HasPreview() bool { return e.Err == nil && e.Preview != "" }

// HasImages reports whether at least one image resolved.
func (e Entry) HasImages() bool { return e.Err == nil && len(e.Images) > 0 }

// Options configure a Loader.
type Options struct {
	PreviewChars int
	MaxImages    int
	// Images disables image resolution when false.
	Images      bool
	Concurrency int
	CacheBytes  int64
	Logger      *slog.Logger
}

// Loader fetches and caches card content for a vault.
type Loader struct {
	root  string
	opts  Options
	log   *slog.Logger
	cache *cache.Cache[string, Entry]

	read   func(string) ([]byte, error)
	exists func(string) bool

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewLoader returns a loader for notes under root.
func NewLoader(root string, opts Options) *Loader {
	if opts.PreviewChars <= 0 {
		opts.PreviewChars = DefaultPreviewChars
	}
	if opts.MaxImages < 0 {
		opts.MaxImages = 0
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if opts.CacheBytes <= 0 {
		opts.CacheBytes = DefaultCacheBytes
	}
	if opts.Logger == nil {
		opts.Logger = logging.New("content")
	}

	return &Loader{
		root:  root,
		opts:  opts,
		log:   opts.Logger,
		cache: cache.New[string, Entry](opts.CacheBytes, entrySize),
		read:  os.ReadFile,
		exists: func(p string) bool {
			info, err := os.Stat(p)
			return err == nil && !info.IsDir()
		},
		inflight: make(map[string]struct{}),
	}
}

func entrySize(key string, e Entry) int64 {
	size := int64(len(key) + len(e.Path) + len(e.Preview) + 64)
	for _, img := range e.Images {
		size += int64(len(img))
	}
	return size
}

// Missing filters paths down to those neither cached nor being loaded.
func (l *Loader) Missing(paths []string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []string
	for _, p := range paths {
		if _, busy := l.inflight[p]; busy {
			continue
		}
		if l.cache.Contains(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Claim marks the missing subset of paths as in flight and returns it. A
// caller that claims paths must pass them to Load.
func (l *Loader) Claim(paths []string) []string {
	missing := l.Missing(paths)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range missing {
		l.inflight[p] = struct{}{}
	}
	return missing
}

// Load reads paths concurrently. Per-path failures are logged and cached as
// empty entries; only context cancellation aborts the batch.
func (l *Loader) Load(ctx context.Context, paths []string) (map[string]Entry, error) {
	defer l.release(paths)

	results := make([]Entry, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Concurrency)

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = l.loadOne(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	out := make(map[string]Entry, len(paths))
	for _, e := range results {
		if e.Err != nil {
			l.log.Warn("content unavailable", "path", e.Path, "error", e.Err)
		}
		l.cache.Put(e.Path, e)
		out[e.Path] = e
	}
	return out, nil
}

func (l *Loader) loadOne(path string) Entry {
	data, err := l.read(path)
	if err != nil {
		return Entry{Path: path, Err: fmt.Errorf("read note: %w", err)}
	}

	ex := extract(data)
	entry := Entry{Path: path, Preview: clip(ex.text, l.opts.PreviewChars)}
	if l.opts.Images && l.opts.MaxImages > 0 {
		entry.Images = resolveImages(l.root, path, ex.images, l.opts.MaxImages, l.exists)
	}
	return entry
}

func (l *Loader) release(paths []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range paths {
		delete(l.inflight, p)
	}
}

// Lookup returns the cached entry for path.
func (l *Loader) Lookup(path string) (Entry, bool) {
	return l.cache.Get(path)
}

// Invalidate forgets path so the next batch reloads it.
func (l *Loader) Invalidate(path string) {
	l.cache.Remove(path)
}

// Purge forgets everything.
func (l *Loader) Purge() {
	l.cache.Purge()
}
