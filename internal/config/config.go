package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/ancards/internal/search"
	"github.com/spf13/viper"
)

type SearchConfig struct {
	IgnoredFolders []string `yaml:"ignored_folders" json:"ignored_folders"`
	Extensions     []string `yaml:"extensions"      json:"extensions"`
}

// ViewDefinition is a named card view. Its fields seed the persisted view
// state the first time the view is opened.
type ViewDefinition struct {
	Query string `yaml:"query" json:"query"`
	Sort  string `yaml:"sort"  json:"sort"`
	Mode  string `yaml:"mode"  json:"mode"`
	Limit int    `yaml:"limit" json:"limit"`
}

type Workspace struct {
	VaultDir  string                    `yaml:"vaultdir"   json:"vault_dir"`
	Editor    string                    `yaml:"editor"     json:"editor"`
	NvimArgs  string                    `yaml:"nvimargs"   json:"nvim_args"`
	Search    SearchConfig              `yaml:"search"     json:"search"`
	Cards     CardsConfig               `yaml:"cards"      json:"cards"`
	Views     map[string]ViewDefinition `yaml:"views"      json:"views"`
	ViewOrder []string                  `yaml:"view_order" json:"view_order"`
}

type Config struct {
	Workspaces       map[string]*Workspace `yaml:"workspaces"        json:"workspaces"`
	CurrentWorkspace string                `yaml:"current_workspace" json:"current_workspace"`

	active *Workspace `yaml:"-"`
	home   string     `yaml:"-"`
}

const defaultWorkspaceName = "default"

var validEditorNames = []string{"nvim", "obsidian", "vscode", "code", "vim", "nano"}

var ValidEditors = func() map[string]bool {
	editors := make(map[string]bool, len(validEditorNames))
	for _, editor := range validEditorNames {
		editors[editor] = true
	}
	return editors
}()

func ValidateEditor(editor string) error {
	if _, valid := ValidEditors[editor]; valid {
		return nil
	}

	return fmt.Errorf(
		"invalid editor: %q. Please choose from %s.",
		editor,
		validEditorList(),
	)
}

func validEditorList() string {
	quoted := make([]string, len(validEditorNames))
	for i, name := range validEditorNames {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}
	if len(quoted) < 2 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// flatConfig is the single-workspace layout written by older releases and
// by hand-edited files without a workspaces key.
type flatConfig struct {
	VaultDir string                    `yaml:"vaultdir"`
	Editor   string                    `yaml:"editor"`
	NvimArgs string                    `yaml:"nvimargs"`
	Search   SearchConfig              `yaml:"search"`
	Cards    CardsConfig               `yaml:"cards"`
	Views    map[string]ViewDefinition `yaml:"views"`
}

func newWorkspace() *Workspace {
	return &Workspace{
		Cards: DefaultCards(),
		Views: make(map[string]ViewDefinition),
	}
}

func (ws *Workspace) ensureDefaults() {
	if ws.Views == nil {
		ws.Views = make(map[string]ViewDefinition)
	}
	ws.Cards.Normalize()

	// Views missing from the order are appended alphabetically.
	var missing []string
	for name := range ws.Views {
		if !containsString(ws.ViewOrder, name) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	ws.ViewOrder = append(ws.ViewOrder, missing...)
}

// SearchConfig converts the workspace search settings for the vault index.
func (ws *Workspace) SearchConfig() search.Config {
	exts := make([]string, 0, len(ws.Search.Extensions))
	for _, ext := range ws.Search.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return search.Config{
		IgnoredFolders: append([]string(nil), ws.Search.IgnoredFolders...),
		Extensions:     exts,
	}
}

// View returns the named view definition. Unknown names yield an empty
// definition and false.
func (ws *Workspace) View(name string) (ViewDefinition, bool) {
	def, ok := ws.Views[name]
	return def, ok
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) == 0 {
		cfg.Workspaces = map[string]*Workspace{
			defaultWorkspaceName: newWorkspace(),
		}
		cfg.CurrentWorkspace = defaultWorkspaceName
	} else {
		raw := make(map[string]interface{})
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		if _, ok := raw["workspaces"]; ok {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		} else {
			var flat flatConfig
			if err := yaml.Unmarshal(data, &flat); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			cfg = fromFlat(&flat)
		}
	}
	cfg.home = home

	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}

	if ws.Editor != "" {
		if err := ValidateEditor(ws.Editor); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func fromFlat(flat *flatConfig) *Config {
	ws := newWorkspace()
	ws.VaultDir = flat.VaultDir
	ws.Editor = flat.Editor
	ws.NvimArgs = flat.NvimArgs
	ws.Search = flat.Search
	ws.Cards = flat.Cards
	if flat.Views != nil {
		ws.Views = flat.Views
	}
	ws.ensureDefaults()

	return &Config{
		Workspaces: map[string]*Workspace{
			defaultWorkspaceName: ws,
		},
		CurrentWorkspace: defaultWorkspaceName,
		active:           ws,
	}
}

func (cfg *Config) ensureInitialized() error {
	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}

	if cfg.CurrentWorkspace == "" {
		if len(cfg.Workspaces) == 0 {
			cfg.Workspaces[defaultWorkspaceName] = newWorkspace()
			cfg.CurrentWorkspace = defaultWorkspaceName
		} else {
			cfg.CurrentWorkspace = cfg.WorkspaceNames()[0]
		}
	}

	return cfg.setActiveWorkspace(cfg.CurrentWorkspace)
}

func (cfg *Config) setActiveWorkspace(name string) error {
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	ws, ok := cfg.Workspaces[name]
	if !ok {
		return fmt.Errorf("workspace %q does not exist", name)
	}
	if ws == nil {
		ws = newWorkspace()
		cfg.Workspaces[name] = ws
	}

	ws.ensureDefaults()
	cfg.CurrentWorkspace = name
	cfg.active = ws

	syncWorkspaceWithViper(ws)
	return nil
}

func syncWorkspaceWithViper(ws *Workspace) {
	viper.Set("vaultdir", ws.VaultDir)
	viper.Set("editor", ws.Editor)
	viper.Set("nvimargs", ws.NvimArgs)
	viper.Set("cards.card_size", ws.Cards.CardSize)
	viper.Set("cards.min_columns", ws.Cards.MinColumns)
	viper.Set("cards.gap", ws.Cards.Gap)
	viper.Set("cards.default_mode", ws.Cards.DefaultMode)
	viper.Set("cards.default_sort", ws.Cards.DefaultSort)
}

func (cfg *Config) ActiveWorkspace() (*Workspace, error) {
	if cfg.active != nil {
		return cfg.active, nil
	}

	if cfg.CurrentWorkspace == "" {
		return nil, fmt.Errorf("no workspace is currently selected")
	}

	if err := cfg.setActiveWorkspace(cfg.CurrentWorkspace); err != nil {
		return nil, err
	}

	return cfg.active, nil
}

func (cfg *Config) WorkspaceNames() []string {
	names := make([]string, 0, len(cfg.Workspaces))
	for name := range cfg.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActivateWorkspace switches the active workspace for this process without
// persisting the choice.
func (cfg *Config) ActivateWorkspace(name string) error {
	return cfg.setActiveWorkspace(name)
}

// Init writes a fresh config under home holding ws as the default workspace.
// An existing config with a vault is left alone.
func Init(home string, ws *Workspace) (*Config, error) {
	if existing, err := Load(home); err == nil {
		if active, _ := existing.ActiveWorkspace(); active != nil && active.VaultDir != "" {
			return nil, fmt.Errorf("%s already configures vault %s", GetConfigPath(home), active.VaultDir)
		}
	}
	if ws == nil || strings.TrimSpace(ws.VaultDir) == "" {
		return nil, fmt.Errorf("vault directory is required")
	}
	if ws.Editor != "" {
		if err := ValidateEditor(ws.Editor); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Workspaces:       map[string]*Workspace{defaultWorkspaceName: ws},
		CurrentWorkspace: defaultWorkspaceName,
		home:             home,
	}
	if err := cfg.setActiveWorkspace(defaultWorkspaceName); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(ws.VaultDir, 0o755); err != nil {
		return nil, fmt.Errorf("create vault directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SwitchWorkspace activates name and persists it as the current workspace.
func (cfg *Config) SwitchWorkspace(name string) error {
	if err := cfg.setActiveWorkspace(name); err != nil {
		return err
	}
	return cfg.Save()
}

// AddWorkspace registers ws under name. The active workspace only changes
// when makeCurrent is set.
func (cfg *Config) AddWorkspace(name string, ws *Workspace, makeCurrent bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	if _, exists := cfg.Workspaces[name]; exists {
		return fmt.Errorf("workspace %q already exists", name)
	}
	if ws == nil {
		ws = newWorkspace()
	}
	ws.ensureDefaults()

	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}
	cfg.Workspaces[name] = ws

	if makeCurrent {
		if err := cfg.setActiveWorkspace(name); err != nil {
			return err
		}
	}
	return cfg.Save()
}

// RemoveWorkspace deletes name. The current workspace cannot be removed.
func (cfg *Config) RemoveWorkspace(name string) error {
	if _, exists := cfg.Workspaces[name]; !exists {
		return fmt.Errorf("workspace %q does not exist", name)
	}
	if name == cfg.CurrentWorkspace {
		return fmt.Errorf("cannot remove the current workspace %q", name)
	}
	delete(cfg.Workspaces, name)
	return cfg.Save()
}

// Home is the directory the config was loaded from.
func (cfg *Config) Home() string {
	if cfg.home != "" {
		return cfg.home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func (cfg *Config) GetConfigPath() string {
	return GetConfigPath(cfg.Home())
}

func (cfg *Config) AddView(name string, view ViewDefinition) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("view name cannot be empty")
	}
	if view.Mode != "" && !IsValidMode(view.Mode) {
		return fmt.Errorf("invalid view mode %q", view.Mode)
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}

	if ws.Views == nil {
		ws.Views = make(map[string]ViewDefinition)
	}

	ws.Views[name] = view
	if !containsString(ws.ViewOrder, name) {
		ws.ViewOrder = append(ws.ViewOrder, name)
	}

	return cfg.Save()
}

func (cfg *Config) RemoveView(name string) error {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}

	if _, ok := ws.Views[name]; !ok {
		return fmt.Errorf("view %q does not exist", name)
	}

	delete(ws.Views, name)
	order := ws.ViewOrder[:0]
	for _, existing := range ws.ViewOrder {
		if existing != name {
			order = append(order, existing)
		}
	}
	ws.ViewOrder = order

	return cfg.Save()
}

func (cfg *Config) Save() error {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}

	if ws.Editor != "" {
		if err := ValidateEditor(ws.Editor); err != nil {
			return err
		}
	}

	syncWorkspaceWithViper(ws)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
