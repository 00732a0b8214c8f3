package cards

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/ancards/internal/content"
	"github.com/Paintersrp/ancards/internal/masonry"
	"github.com/Paintersrp/ancards/internal/search"
)

func testCard(name, preview string) *card {
	c := newCard(search.Document{
		Path:       "/vault/notes/" + name + ".md",
		Rel:        "notes/" + name + ".md",
		Name:       name,
		ModifiedAt: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}, "/vault")
	c.setEntry(content.Entry{Path: c.Key(), Preview: preview})
	return c
}

func testCards(n int) []*card {
	out := make([]*card, n)
	for i := range out {
		out[i] = testCard(fmt.Sprintf("card-%02d", i), strings.Repeat("word ", i%4*6))
	}
	return out
}

func TestCardMeasureGrowsWhenNarrow(t *testing.T) {
	c := testCard("a fairly long title for a card", strings.Repeat("lorem ipsum ", 20))
	wide := c.Measure(60)
	narrow := c.Measure(24)
	if narrow <= wide {
		t.Fatalf("expected narrow card taller, got %.0f <= %.0f", narrow, wide)
	}

	lines := c.render(24, int(narrow), false)
	if len(lines) != int(narrow) {
		t.Fatalf("expected %d rendered lines, got %d", int(narrow), len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 24 {
			t.Fatalf("line %d has width %d, want 24", i, w)
		}
	}
}

func TestCardBodyShowsFolderAndTags(t *testing.T) {
	c := testCard("tagged", "")
	c.doc.Tags = []string{"go", "tui"}
	c.version++

	var texts []string
	for _, l := range c.body(40) {
		texts = append(texts, l.text)
	}
	joined := strings.Join(texts, "\n")
	if !strings.Contains(joined, "notes · 2024-03-09") {
		t.Fatalf("expected folder and date meta line, got:\n%s", joined)
	}
	if !strings.Contains(joined, "#go #tui") {
		t.Fatalf("expected tags, got:\n%s", joined)
	}
}

func TestCardTitleIsCapped(t *testing.T) {
	c := testCard(strings.Repeat("title ", 30), "")
	titles := 0
	for _, l := range c.body(12) {
		if l.kind == lineTitle {
			titles++
		}
	}
	if titles != maxTitleLines {
		t.Fatalf("expected %d title lines, got %d", maxTitleLines, titles)
	}
}

func TestCardShowsUnavailableContent(t *testing.T) {
	c := testCard("broken", "")
	c.setEntry(content.Entry{Path: c.Key(), Err: fmt.Errorf("read note: denied")})
	found := false
	for _, l := range c.body(30) {
		if l.text == "content unavailable" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unavailable marker")
	}
}

func TestGridRowsShareHeight(t *testing.T) {
	s := &surface{attached: true, width: 95, height: 200, cards: testCards(7)}
	cols := s.layoutStatic(false, masonry.Params{CardSize: 30, MinColumns: 1, Gap: 1})
	if cols != 3 {
		t.Fatalf("expected 3 columns, got %d", cols)
	}

	for row := 0; row*3 < len(s.cards); row++ {
		end := min(row*3+3, len(s.cards))
		first := s.cards[row*3]
		for _, c := range s.cards[row*3 : end] {
			if c.span != first.span || c.place.Top != first.place.Top {
				t.Fatalf("row %d is not uniform", row)
			}
		}
	}
	if s.cards[3].place.Top <= s.cards[0].place.Top {
		t.Fatalf("expected second row below the first")
	}
}

func TestListModeUsesFullWidth(t *testing.T) {
	s := &surface{attached: true, width: 80, height: 500, cards: testCards(4)}
	cols := s.layoutStatic(true, masonry.Params{CardSize: 30, MinColumns: 1, Gap: 1})
	if cols != 1 {
		t.Fatalf("expected a single column, got %d", cols)
	}
	for _, c := range s.cards {
		if c.place.Left != 0 || c.place.Width != 80 {
			t.Fatalf("expected full width card, got left=%.0f width=%.0f", c.place.Left, c.place.Width)
		}
	}
}

func TestScrollbarReservesColumn(t *testing.T) {
	s := &surface{attached: true, width: 64, height: 10, cards: testCards(12)}
	s.layoutStatic(false, masonry.Params{CardSize: 30, MinColumns: 1, Gap: 1})

	if !s.overflows() {
		t.Fatalf("expected overflowing content")
	}
	if s.Width() != 63 {
		t.Fatalf("expected scrollbar to take a column, got width %.0f", s.Width())
	}
	for _, c := range s.cards {
		if c.place.Left+c.place.Width > s.Width() {
			t.Fatalf("card %s overlaps the scrollbar", c.Key())
		}
	}

	view := s.View(nil)
	lines := strings.Split(view, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 64 {
			t.Fatalf("line %d has width %d, want 64", i, w)
		}
	}
}

func TestRevealScrollsMinimally(t *testing.T) {
	s := &surface{attached: true, width: 40, height: 10, cards: testCards(10)}
	s.layoutStatic(true, masonry.Params{CardSize: 30, MinColumns: 1, Gap: 1})

	target := s.cards[5]
	if !s.reveal(target) {
		t.Fatalf("expected reveal to scroll")
	}
	bottom := target.top() + target.span
	if bottom != s.scrollTop+s.height && target.top() != s.scrollTop {
		t.Fatalf("expected card aligned to an edge, top=%d bottom=%d scroll=%d", target.top(), bottom, s.scrollTop)
	}
	if s.reveal(target) {
		t.Fatalf("expected no scroll once visible")
	}

	if !s.reveal(s.cards[0]) || s.scrollTop != 0 {
		t.Fatalf("expected scroll back to top, got %d", s.scrollTop)
	}
}

func TestNeighbourNavigation(t *testing.T) {
	s := &surface{attached: true, width: 95, height: 200, cards: testCards(6)}
	s.layoutStatic(false, masonry.Params{CardSize: 30, MinColumns: 1, Gap: 1})

	c := s.cards
	if got := s.neighbour(c[0], dirRight); got != c[1] {
		t.Fatalf("expected right of 0 to be 1, got %v", got.Key())
	}
	if got := s.neighbour(c[0], dirDown); got != c[3] {
		t.Fatalf("expected below 0 to be 3, got %v", got.Key())
	}
	if got := s.neighbour(c[4], dirUp); got != c[1] {
		t.Fatalf("expected above 4 to be 1, got %v", got.Key())
	}
	if got := s.neighbour(c[0], dirLeft); got != nil {
		t.Fatalf("expected nothing left of the first column")
	}
	if got := s.neighbour(nil, dirDown); got != c[0] {
		t.Fatalf("expected first card without focus")
	}
	if s.last() != c[3] && s.last() != c[4] && s.last() != c[5] {
		t.Fatalf("expected last card in the bottom row")
	}
}
