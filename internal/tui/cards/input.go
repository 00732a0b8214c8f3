package cards

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/masonry"
	"github.com/Paintersrp/ancards/internal/results"
	"github.com/Paintersrp/ancards/internal/viewstate"
)

// handleKey reports quit=true when the program should exit.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.find.Focused() {
		return m.handleSearchKey(msg), false
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		if err := m.Close(); err != nil {
			m.log.Warn("closing card view", "error", err)
		}
		return tea.Quit, true

	case key.Matches(msg, m.keys.up):
		return m.move(dirUp), false
	case key.Matches(msg, m.keys.down):
		return m.move(dirDown), false
	case key.Matches(msg, m.keys.left):
		return m.move(dirLeft), false
	case key.Matches(msg, m.keys.right):
		return m.move(dirRight), false

	case key.Matches(msg, m.keys.pageUp):
		return m.page(-1), false
	case key.Matches(msg, m.keys.pageDown):
		return m.page(1), false

	case key.Matches(msg, m.keys.top):
		return m.focus(m.surface.first()), false
	case key.Matches(msg, m.keys.bottom):
		return m.focus(m.surface.last()), false

	case key.Matches(msg, m.keys.open):
		return m.openFocused(), false
	case key.Matches(msg, m.keys.copyPath):
		m.copyFocused()

	case key.Matches(msg, m.keys.cycleSort):
		sort, _ := results.ParseSort(m.rec.Sort)
		m.rec.Sort = string(sort.Next())
		m.reload()
		m.commit()
	case key.Matches(msg, m.keys.shuffle):
		m.rec.Sort = string(results.SortRandom)
		m.rec.Seed++
		m.reload()
		m.commit()
	case key.Matches(msg, m.keys.cycleMode):
		m.setMode(nextMode(m.rec.Mode))

	case key.Matches(msg, m.keys.search):
		m.searchPrev = m.rec.Search
		return m.find.Focus(), false

	case key.Matches(msg, m.keys.moreLimit):
		m.setLimit(m.rec.Limit + limitStep)
	case key.Matches(msg, m.keys.lessLimit):
		if m.rec.Limit > 0 {
			m.setLimit(m.rec.Limit - limitStep)
		}

	case key.Matches(msg, m.keys.toggleWide):
		m.toggleWidth()

	case key.Matches(msg, m.keys.detail):
		m.detail = !m.detail
		if !m.detail {
			m.detailPath, m.detailView = "", ""
		}
		if m.ready {
			// resize queues the detail render for the new pane width.
			m.resize()
		} else if m.detail {
			return m.loadDetail(), false
		}

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		if m.ready {
			m.resize()
		}
	}
	return nil, false
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.submit):
		m.find.Blur()
		m.commit()
		return nil
	case key.Matches(msg, m.keys.cancel):
		m.find.Blur()
		m.find.SetValue(m.searchPrev)
		m.setSearch(m.searchPrev)
		m.commit()
		return nil
	}

	var cmd tea.Cmd
	m.find, cmd = m.find.Update(msg)
	m.setSearch(m.find.Value())
	return cmd
}

// setSearch filters as the user types. Persisting waits for the typing to
// settle.
func (m *Model) setSearch(value string) {
	if value == m.rec.Search {
		return
	}
	m.rec.Search = value
	if m.writer != nil {
		m.writer.Stage(m.rec)
	}
	m.reload()
}

func (m *Model) setLimit(limit int) {
	m.rec.Limit = max(limit, 0)
	m.reload()
	m.commit()
}

func (m *Model) toggleWidth() {
	if m.rec.WidthMode == viewstate.WidthWide {
		m.rec.WidthMode = viewstate.WidthNormal
	} else {
		m.rec.WidthMode = viewstate.WidthWide
	}
	size := m.paramsFor(m.rec).CardSize
	// The controller subscribes to the provider, so masonry relayouts on
	// its own.
	m.params.Update(func(p *masonry.Params) { p.CardSize = size })
	if m.rec.Mode != config.ModeMasonry {
		m.layout()
	}
	m.commit()
}

func (m *Model) move(d direction) tea.Cmd {
	next := m.surface.neighbour(m.focused(), d)
	if next == nil {
		if d == dirDown {
			// Nothing below; the loader may still have results to add.
			m.loader.OnScroll()
		}
		return nil
	}
	return m.focus(next)
}

func (m *Model) page(sign int) tea.Cmd {
	if !m.surface.scrollBy(sign * max(m.surface.height-1, 1)) {
		return nil
	}
	m.loader.OnScroll()
	if c := m.surface.visibleNear(m.focused()); c != nil {
		m.focusKey = c.Key()
		if m.detail {
			return m.loadDetail()
		}
	}
	return nil
}

func (m *Model) focus(c *card) tea.Cmd {
	if c == nil {
		return nil
	}
	changed := c.Key() != m.focusKey
	m.focusKey = c.Key()
	m.surface.reveal(c)
	m.loader.OnScroll()
	if changed && m.detail {
		return m.loadDetail()
	}
	return nil
}

func nextMode(mode string) string {
	for i, candidate := range config.ValidModes {
		if candidate == mode {
			return config.ValidModes[(i+1)%len(config.ValidModes)]
		}
	}
	return config.ModeMasonry
}
