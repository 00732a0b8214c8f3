package search

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Paintersrp/ancards/internal/pathutil"
)

// Index stores the metadata records of the notes in a vault.
type Index struct {
	root string
	cfg  Config
	docs map[string]Document
}

// NewIndex constructs an empty index rooted at the provided directory.
func NewIndex(root string, cfg Config) *Index {
	return &Index{
		root: filepath.Clean(root),
		cfg:  cfg,
		docs: make(map[string]Document),
	}
}

// Root returns the vault directory.
func (idx *Index) Root() string {
	return idx.root
}

// Build replaces the index contents using the provided note paths.
func (idx *Index) Build(paths []string) error {
	idx.docs = make(map[string]Document, len(paths))
	for _, p := range paths {
		canonical := idx.normalize(p)
		if canonical == "" || idx.shouldIgnore(canonical) {
			continue
		}

		doc, err := idx.loadDocument(canonical)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("search: indexing %s: %w", canonical, err)
		}
		idx.docs[canonical] = doc
	}
	return nil
}

// Update refreshes the indexed representation of the provided path. Removed
// files and ignored folders drop out of the index.
func (idx *Index) Update(path string) error {
	if idx == nil {
		return nil
	}

	canonical := idx.normalize(path)
	if canonical == "" {
		return nil
	}

	if idx.shouldIgnore(canonical) || !idx.cfg.IsNote(canonical) {
		return idx.Remove(canonical)
	}

	doc, err := idx.loadDocument(canonical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx.Remove(canonical)
		}
		return fmt.Errorf("search: indexing %s: %w", canonical, err)
	}

	if idx.docs == nil {
		idx.docs = make(map[string]Document)
	}
	idx.docs[canonical] = doc
	return nil
}

// Remove deletes the provided path from the index if present. A directory
// path removes every note below it.
func (idx *Index) Remove(path string) error {
	if idx == nil {
		return nil
	}

	canonical := idx.normalize(path)
	if canonical == "" || len(idx.docs) == 0 {
		return nil
	}

	delete(idx.docs, canonical)
	prefix := canonical + string(filepath.Separator)
	for p := range idx.docs {
		if strings.HasPrefix(p, prefix) {
			delete(idx.docs, p)
		}
	}
	return nil
}

// Clone returns an independent copy of the index.
func (idx *Index) Clone() *Index {
	if idx == nil {
		return nil
	}

	out := &Index{
		root: idx.root,
		cfg:  idx.cfg,
		docs: make(map[string]Document, len(idx.docs)),
	}
	for path, doc := range idx.docs {
		out.docs[path] = doc.clone()
	}
	return out
}

// Len reports the number of indexed notes.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.docs)
}

// Lookup returns the record for path.
func (idx *Index) Lookup(path string) (Document, bool) {
	if idx == nil {
		return Document{}, false
	}
	doc, ok := idx.docs[idx.normalize(path)]
	if !ok {
		return Document{}, false
	}
	return doc.clone(), true
}

// Documents returns copies of every record ordered by path.
func (idx *Index) Documents() []Document {
	return idx.Query(Expr{})
}

// Query returns copies of the records matching expr ordered by path.
func (idx *Index) Query(expr Expr) []Document {
	if idx == nil || len(idx.docs) == 0 {
		return nil
	}

	matches := make([]Document, 0, len(idx.docs))
	for _, doc := range idx.docs {
		if !expr.Match(doc) {
			continue
		}
		matches = append(matches, doc.clone())
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Path < matches[j].Path
	})
	return matches
}

func (idx *Index) normalize(path string) string {
	cleaned := pathutil.NormalizePath(path)
	if cleaned == "." || cleaned == "" {
		return ""
	}
	if filepath.IsAbs(cleaned) {
		return cleaned
	}
	return filepath.Join(idx.root, cleaned)
}

func (idx *Index) shouldIgnore(path string) bool {
	rel, err := pathutil.VaultRelative(idx.root, path)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(rel, "/") {
		for _, ignored := range idx.cfg.IgnoredFolders {
			if ignored != "" && strings.EqualFold(segment, ignored) {
				return true
			}
		}
	}
	return false
}

func (idx *Index) loadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Document{}, err
	}

	fm, body := splitFrontMatter(data)
	props, tags, err := parseFrontMatter(fm)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter: %w", err)
	}

	rel, err := pathutil.VaultRelative(idx.root, path)
	if err != nil {
		rel = filepath.ToSlash(filepath.Base(path))
	}

	modified := info.ModTime().UTC()
	doc := Document{
		Path:       filepath.Clean(path),
		Rel:        rel,
		Tags:       mergeTags(tags, extractInlineTags(body)),
		CreatedAt:  createdAt(props, modified),
		ModifiedAt: modified,
		Size:       info.Size(),
		Properties: props,
	}
	doc.Name = doc.Stem()
	if title, ok := doc.Property("title"); ok && strings.TrimSpace(title) != "" {
		doc.Name = strings.TrimSpace(title)
	}
	return doc, nil
}
