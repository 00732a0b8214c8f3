package search

import (
	"path/filepath"
	"strings"
	"time"
)

// Document is the metadata record the index exposes for one note.
type Document struct {
	// Path is the cleaned absolute path and the unique key of the record.
	Path string
	// Rel is Path relative to the vault root with forward slashes.
	Rel string
	// Name is the display name: the title property when set, otherwise the
	// file stem.
	Name       string
	Tags       []string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Size       int64
	Properties map[string][]string
}

// Property returns the first value stored under name. Lookups ignore case.
func (d Document) Property(name string) (string, bool) {
	values := d.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Values returns every value stored under name.
func (d Document) Values(name string) []string {
	if v, ok := d.Properties[name]; ok {
		return v
	}
	for key, v := range d.Properties {
		if strings.EqualFold(key, name) {
			return v
		}
	}
	return nil
}

// HasTag reports whether the note carries tag or a nested tag below it, so
// "project" matches "project/alpha".
func (d Document) HasTag(tag string) bool {
	tag = normalizeTag(tag)
	if tag == "" {
		return false
	}
	for _, t := range d.Tags {
		lowered := strings.ToLower(t)
		if lowered == tag || strings.HasPrefix(lowered, tag+"/") {
			return true
		}
	}
	return false
}

// Stem returns the file name without its extension.
func (d Document) Stem() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (d Document) clone() Document {
	out := d
	out.Tags = append([]string(nil), d.Tags...)
	out.Properties = cloneProperties(d.Properties)
	return out
}

func cloneProperties(values map[string][]string) map[string][]string {
	if len(values) == 0 {
		return nil
	}

	cloned := make(map[string][]string, len(values))
	for key, vals := range values {
		cloned[key] = append([]string(nil), vals...)
	}
	return cloned
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

func equalFoldAny(value string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.EqualFold(value, c) {
			return true
		}
	}
	return false
}
