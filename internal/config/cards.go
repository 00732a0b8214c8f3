package config

import (
	"strings"
	"time"
)

// View modes understood by the card view.
const (
	ModeMasonry = "masonry"
	ModeGrid    = "grid"
	ModeList    = "list"
)

var ValidModes = []string{ModeMasonry, ModeGrid, ModeList}

// CardsConfig tunes the card view. Zero and out-of-range values are clamped
// by Normalize rather than rejected.
type CardsConfig struct {
	CardSize                float64       `yaml:"card_size"                  json:"card_size"`
	MinColumns              int           `yaml:"min_columns"                json:"min_columns"`
	Gap                     float64       `yaml:"gap"                        json:"gap"`
	RowsPerColumn           int           `yaml:"rows_per_column"            json:"rows_per_column"`
	MaxBatch                int           `yaml:"max_batch"                  json:"max_batch"`
	InitialBatch            int           `yaml:"initial_batch"              json:"initial_batch"`
	PaneMultiplier          float64       `yaml:"pane_multiplier"            json:"pane_multiplier"`
	ScrollCooldown          time.Duration `yaml:"scroll_cooldown"            json:"scroll_cooldown"`
	ResizeCooldown          time.Duration `yaml:"resize_cooldown"            json:"resize_cooldown"`
	InitialCheckDelay       time.Duration `yaml:"initial_check_delay"        json:"initial_check_delay"`
	SettingsDebounce        time.Duration `yaml:"settings_debounce"          json:"settings_debounce"`
	PreviewChars            int           `yaml:"preview_chars"              json:"preview_chars"`
	MaxImages               int           `yaml:"max_images"                 json:"max_images"`
	ShowImages              *bool         `yaml:"show_images"                json:"show_images"`
	RelayoutOnContentSettle bool          `yaml:"relayout_on_content_settle" json:"relayout_on_content_settle"`
	DefaultMode             string        `yaml:"default_mode"               json:"default_mode"`
	DefaultSort             string        `yaml:"default_sort"               json:"default_sort"`
}

// DefaultCards returns the built-in card view settings.
func DefaultCards() CardsConfig {
	show := true
	return CardsConfig{
		CardSize:          30,
		MinColumns:        1,
		Gap:               1,
		RowsPerColumn:     3,
		MaxBatch:          24,
		InitialBatch:      20,
		PaneMultiplier:    2.0,
		ScrollCooldown:    100 * time.Millisecond,
		ResizeCooldown:    150 * time.Millisecond,
		InitialCheckDelay: 300 * time.Millisecond,
		SettingsDebounce:  300 * time.Millisecond,
		PreviewChars:      240,
		MaxImages:         2,
		ShowImages:        &show,
		DefaultMode:       ModeMasonry,
		DefaultSort:       "mtime-desc",
	}
}

// Normalize fills unset fields from DefaultCards and clamps the rest.
func (c *CardsConfig) Normalize() {
	def := DefaultCards()

	if c.CardSize <= 0 {
		c.CardSize = def.CardSize
	}
	if c.MinColumns < 1 {
		c.MinColumns = def.MinColumns
	}
	if c.Gap < 0 {
		c.Gap = 0
	}
	if c.RowsPerColumn < 1 {
		c.RowsPerColumn = def.RowsPerColumn
	}
	if c.MaxBatch < 1 {
		c.MaxBatch = def.MaxBatch
	}
	if c.InitialBatch < 1 {
		c.InitialBatch = def.InitialBatch
	}
	if c.PaneMultiplier <= 0 {
		c.PaneMultiplier = def.PaneMultiplier
	}
	if c.ScrollCooldown <= 0 {
		c.ScrollCooldown = def.ScrollCooldown
	}
	if c.ResizeCooldown <= 0 {
		c.ResizeCooldown = def.ResizeCooldown
	}
	if c.InitialCheckDelay <= 0 {
		c.InitialCheckDelay = def.InitialCheckDelay
	}
	if c.SettingsDebounce <= 0 {
		c.SettingsDebounce = def.SettingsDebounce
	}
	if c.PreviewChars < 1 {
		c.PreviewChars = def.PreviewChars
	}
	if c.MaxImages < 0 {
		c.MaxImages = 0
	}
	if c.ShowImages == nil {
		c.ShowImages = def.ShowImages
	}

	c.DefaultMode = strings.ToLower(strings.TrimSpace(c.DefaultMode))
	if !IsValidMode(c.DefaultMode) {
		c.DefaultMode = def.DefaultMode
	}
	c.DefaultSort = strings.TrimSpace(c.DefaultSort)
	if c.DefaultSort == "" {
		c.DefaultSort = def.DefaultSort
	}
}

// Images reports whether image references are resolved for previews.
func (c CardsConfig) Images() bool {
	return c.ShowImages == nil || *c.ShowImages
}

func IsValidMode(mode string) bool {
	for _, m := range ValidModes {
		if m == mode {
			return true
		}
	}
	return false
}
