package cards

import (
	"math"
	"sort"
	"strings"

	"github.com/Paintersrp/ancards/internal/masonry"
	"github.com/Paintersrp/ancards/internal/paging"
)

// surface is the scrollable card canvas. Units are terminal cells
// horizontally and lines vertically. A scrollbar column is reserved while the
// content overflows, so the usable width depends on the container height.
type surface struct {
	attached bool
	width    int
	height   int
	cards    []*card

	containerHeight float64
	scrollTop       int
}

func (s *surface) Attached() bool { return s.attached }

func (s *surface) Width() float64 {
	w := s.width
	if s.overflows() {
		w--
	}
	return float64(max(w, 0))
}

func (s *surface) Elements() []masonry.Element {
	out := make([]masonry.Element, len(s.cards))
	for i, c := range s.cards {
		out[i] = c
	}
	return out
}

func (s *surface) SetContainerHeight(h float64) {
	s.containerHeight = h
	s.clampScroll()
}

func (s *surface) ResetContainer() {
	s.containerHeight = 0
	s.scrollTop = 0
}

// Geometry implements paging.Region.
func (s *surface) Geometry() paging.Geometry {
	return paging.Geometry{
		ScrollTop:    float64(s.scrollTop),
		ScrollHeight: s.contentHeight(),
		ClientHeight: float64(s.height),
	}
}

// Scrollable and Parent make the surface its own scrolling region.
func (s *surface) Scrollable() bool    { return true }
func (s *surface) Parent() paging.Node { return nil }

func (s *surface) contentHeight() float64 {
	return math.Ceil(s.containerHeight)
}

func (s *surface) overflows() bool {
	return s.height > 0 && int(s.contentHeight()) > s.height
}

func (s *surface) maxScroll() int {
	return max(int(s.contentHeight())-s.height, 0)
}

func (s *surface) clampScroll() {
	s.scrollTop = min(max(s.scrollTop, 0), s.maxScroll())
}

// scrollBy moves the viewport and reports whether it moved.
func (s *surface) scrollBy(n int) bool {
	before := s.scrollTop
	s.scrollTop += n
	s.clampScroll()
	return s.scrollTop != before
}

// reveal scrolls the minimum amount needed to show c.
func (s *surface) reveal(c *card) bool {
	if c == nil || !c.placed {
		return false
	}
	top := int(math.Round(c.place.Top))
	bottom := top + c.span
	switch {
	case top < s.scrollTop:
		return s.scrollBy(top - s.scrollTop)
	case bottom > s.scrollTop+s.height:
		return s.scrollBy(min(bottom-(s.scrollTop+s.height), top-s.scrollTop))
	}
	return false
}

// layoutStatic places cards for the non-masonry modes and returns the column
// count. Grid rows share the height of their tallest card; list mode is a
// single full-width column.
func (s *surface) layoutStatic(list bool, p masonry.Params) int {
	return s.placeStatic(list, p, false)
}

func (s *surface) placeStatic(list bool, p masonry.Params, again bool) int {
	width := s.Width()
	columns, cardWidth := 1, width
	if !list {
		columns, cardWidth = masonry.Geometry(width, p.CardSize, p.MinColumns, p.Gap)
	}

	top := 0.0
	for start, row := 0, 0; start < len(s.cards); start, row = start+columns, row+1 {
		end := min(start+columns, len(s.cards))
		height := 0.0
		for _, c := range s.cards[start:end] {
			height = math.Max(height, c.Measure(cardWidth))
		}
		for i, c := range s.cards[start:end] {
			c.Place(masonry.Placement{
				Left:   float64(i) * (cardWidth + p.Gap),
				Top:    top,
				Width:  cardWidth,
				Row:    row,
				Parity: row % 2,
			})
			c.span = int(height)
		}
		top += height + p.Gap
	}
	if len(s.cards) > 0 {
		top -= p.Gap
	}

	s.SetContainerHeight(top)
	if s.Width() != width && !again {
		// The scrollbar appeared or went away; place once more at the new
		// width.
		return s.placeStatic(list, p, true)
	}
	return columns
}

type column struct {
	x     int
	cards []*card
}

// View renders the visible window of the canvas.
func (s *surface) View(focused *card) string {
	if s.height <= 0 || s.width <= 0 {
		return ""
	}

	var cardWidth int
	byX := make(map[int]*column)
	for _, c := range s.cards {
		if !c.placed {
			continue
		}
		x := int(math.Round(c.place.Left))
		col, ok := byX[x]
		if !ok {
			col = &column{x: x}
			byX[x] = col
		}
		col.cards = append(col.cards, c)
		cardWidth = int(math.Floor(c.place.Width))
	}

	cols := make([]*column, 0, len(byX))
	for _, col := range byX {
		cols = append(cols, col)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].x < cols[j].x })

	rows := make([]strings.Builder, s.height)
	cursor := 0
	for _, col := range cols {
		pad := strings.Repeat(" ", max(col.x-cursor, 0))
		window := s.columnWindow(col, cardWidth, focused)
		for i := range rows {
			rows[i].WriteString(pad)
			rows[i].WriteString(window[i])
		}
		cursor = col.x + cardWidth
	}

	used := int(s.Width())
	if fill := used - cursor; fill > 0 {
		blank := strings.Repeat(" ", fill)
		for i := range rows {
			rows[i].WriteString(blank)
		}
	}
	if s.overflows() {
		bar := s.scrollbar()
		for i := range rows {
			rows[i].WriteString(bar[i])
		}
	}

	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].String()
	}
	return strings.Join(out, "\n")
}

func (s *surface) columnWindow(col *column, width int, focused *card) []string {
	blank := strings.Repeat(" ", max(width, 0))
	window := make([]string, s.height)
	for i := range window {
		window[i] = blank
	}

	for _, c := range col.cards {
		top := int(math.Round(c.place.Top))
		if top >= s.scrollTop+s.height || top+c.span <= s.scrollTop {
			continue
		}
		lines := c.render(width, c.span, c == focused)
		for i, line := range lines {
			y := top + i - s.scrollTop
			if y < 0 || y >= s.height {
				continue
			}
			window[y] = line
		}
	}
	return window
}

func (s *surface) scrollbar() []string {
	bar := make([]string, s.height)
	total := s.contentHeight()
	thumb := max(int(float64(s.height)*float64(s.height)/total), 1)
	start := 0
	if s.maxScroll() > 0 {
		start = int(float64(s.scrollTop) / float64(s.maxScroll()) * float64(s.height-thumb))
	}
	for i := range bar {
		if i >= start && i < start+thumb {
			bar[i] = scrollThumb
		} else {
			bar[i] = scrollTrack
		}
	}
	return bar
}
