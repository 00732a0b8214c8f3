package cards

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/Paintersrp/ancards/internal/results"
)

func (m *Model) View() string {
	if !m.ready {
		return "Loading cards..."
	}

	body := m.body()
	if m.detail {
		pane := detailStyle.
			Width(max(m.width-m.surface.width-4, 0)).
			Height(m.surface.height).
			MaxHeight(m.surface.height).
			Render(m.detailView)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, pane)
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		body,
		m.footer(),
		m.help.View(m.keys),
	))
}

func (m *Model) header() string {
	sort, _ := results.ParseSort(m.rec.Sort)
	counts := fmt.Sprintf("%d/%d", m.Displayed(), m.outcome.Total())
	if m.outcome.Matched > m.outcome.Total() {
		counts += fmt.Sprintf(" of %d", m.outcome.Matched)
	}
	summary := metaStyle.Render(strings.Join([]string{counts, sort.Label(), m.rec.Mode}, " · "))

	parts := []string{titleStyle.Render(m.opts.ViewID), summary}
	if m.find.Focused() || m.rec.Search != "" {
		parts = append(parts, " ", m.find.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) body() string {
	height := m.surface.height
	switch {
	case m.outcome.Err != nil:
		return lipgloss.NewStyle().Height(height).Render(errorStyle.Render(m.outcome.Message))
	case m.outcome.Total() == 0:
		msg := "No notes match this view."
		if m.rec.Search != "" {
			msg = fmt.Sprintf("No notes match %q.", m.rec.Search)
		}
		return lipgloss.NewStyle().Height(height).Render(emptyStyle.Render(msg))
	}
	return m.surface.View(m.focused())
}

func (m *Model) footer() string {
	line := m.status
	style := statusStyle
	if m.statusErr {
		style = errorStyle
	}
	if line == "" && m.opts.Status != nil {
		line = m.opts.Status.Value()
		style = metaStyle
	}
	if m.width > 0 {
		line = truncate.StringWithTail(line, uint(max(m.width-2, 0)), ellipsis)
	}
	return style.Render(line)
}
