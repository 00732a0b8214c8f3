package search

import "path/filepath"

// Config describes index behavior.
type Config struct {
	// IgnoredFolders contains directory names that should be skipped when
	// indexing. Paths containing any of these folders will not be indexed.
	IgnoredFolders []string
	// Extensions lists the file extensions treated as notes. Empty means
	// markdown only.
	Extensions []string
}

// IsNote reports whether name has one of the configured note extensions.
func (c Config) IsNote(name string) bool {
	ext := filepath.Ext(name)
	if len(c.Extensions) == 0 {
		return equalFoldAny(ext, ".md")
	}
	return equalFoldAny(ext, c.Extensions...)
}
