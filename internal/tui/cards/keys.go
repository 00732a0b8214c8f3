package cards

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up         key.Binding
	down       key.Binding
	left       key.Binding
	right      key.Binding
	pageUp     key.Binding
	pageDown   key.Binding
	top        key.Binding
	bottom     key.Binding
	open       key.Binding
	copyPath   key.Binding
	cycleSort  key.Binding
	shuffle    key.Binding
	cycleMode  key.Binding
	search     key.Binding
	moreLimit  key.Binding
	lessLimit  key.Binding
	toggleWide key.Binding
	detail     key.Binding
	help       key.Binding
	quit       key.Binding

	// search box
	submit key.Binding
	cancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		pageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		pageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
		copyPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		cycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		shuffle: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "shuffle"),
		),
		cycleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mode"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		moreLimit: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "raise limit"),
		),
		lessLimit: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "lower limit"),
		),
		toggleWide: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "wide cards"),
		),
		detail: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "detail"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "apply"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.open, k.search, k.cycleSort, k.cycleMode, k.detail, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right, k.pageUp, k.pageDown, k.top, k.bottom},
		{k.open, k.copyPath, k.detail, k.search},
		{k.cycleSort, k.shuffle, k.cycleMode, k.toggleWide, k.moreLimit, k.lessLimit},
		{k.help, k.quit},
	}
}
