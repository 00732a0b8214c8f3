package cards

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Paintersrp/ancards/internal/content"
	"github.com/Paintersrp/ancards/internal/masonry"
	"github.com/Paintersrp/ancards/internal/pathutil"
	"github.com/Paintersrp/ancards/internal/search"
)

const (
	// border plus one cell of padding on each side
	cardChromeX = 4
	cardChromeY = 2

	maxTitleLines = 3
	maxTagLines   = 2
	ellipsis      = "…"
)

type bodyLine struct {
	text string
	kind lineKind
}

type lineKind int

const (
	lineTitle lineKind = iota
	lineMeta
	lineTags
	linePreview
	lineImage
	lineBlank
)

// card is one note rendered as a box. It implements masonry.Element.
type card struct {
	doc    search.Document
	folder string
	entry  content.Entry
	loaded bool

	// version changes whenever the rendered body may change.
	version uint64

	place  masonry.Placement
	placed bool
	span   int

	measuredInner   int
	measuredVersion uint64
	measuredBody    []bodyLine
}

func newCard(doc search.Document, vault string) *card {
	folder, _, err := pathutil.VaultRelativeComponents(vault, doc.Path)
	if err != nil {
		folder = ""
	}
	return &card{doc: doc, folder: folder, version: 1}
}

func (c *card) Key() string { return c.doc.Path }

// setDoc refreshes the record after an index change.
func (c *card) setDoc(doc search.Document) {
	if doc.ModifiedAt.Equal(c.doc.ModifiedAt) && doc.Name == c.doc.Name && strings.Join(doc.Tags, ",") == strings.Join(c.doc.Tags, ",") {
		c.doc = doc
		return
	}
	c.doc = doc
	c.version++
}

func (c *card) setEntry(e content.Entry) {
	c.entry = e
	c.loaded = true
	c.version++
}

// Measure returns the card height in lines at width cells.
func (c *card) Measure(width float64) float64 {
	return float64(len(c.body(innerWidth(width))) + cardChromeY)
}

func (c *card) Place(p masonry.Placement) {
	c.place = p
	c.placed = true
	c.span = int(c.Measure(p.Width))
}

func (c *card) SetRow(row, parity int) {
	c.place.Row = row
	c.place.Parity = parity
}

func (c *card) Clear() {
	c.place = masonry.Placement{}
	c.placed = false
	c.span = 0
}

func innerWidth(width float64) int {
	inner := int(math.Floor(width)) - cardChromeX
	if inner < 1 {
		inner = 1
	}
	return inner
}

func (c *card) body(inner int) []bodyLine {
	if c.measuredBody != nil && c.measuredInner == inner && c.measuredVersion == c.version {
		return c.measuredBody
	}

	var lines []bodyLine
	add := func(kind lineKind, text string, limit int) {
		wrapped := strings.Split(wordwrap.String(text, inner), "\n")
		for i, l := range wrapped {
			if limit > 0 && i == limit {
				lines[len(lines)-1].text = truncate.StringWithTail(lines[len(lines)-1].text, uint(max(inner-1, 0)), "") + ellipsis
				break
			}
			lines = append(lines, bodyLine{text: truncate.StringWithTail(l, uint(inner), ellipsis), kind: kind})
		}
	}

	add(lineTitle, c.doc.Name, maxTitleLines)

	meta := c.doc.ModifiedAt.Format("2006-01-02")
	if c.folder != "" {
		meta = c.folder + " · " + meta
	}
	lines = append(lines, bodyLine{text: truncate.StringWithTail(meta, uint(inner), ellipsis), kind: lineMeta})

	if len(c.doc.Tags) > 0 {
		add(lineTags, "#"+strings.Join(c.doc.Tags, " #"), maxTagLines)
	}

	switch {
	case !c.loaded:
	case c.entry.Err != nil:
		lines = append(lines, bodyLine{kind: lineBlank}, bodyLine{text: "content unavailable", kind: lineMeta})
	case c.entry.HasPreview():
		lines = append(lines, bodyLine{kind: lineBlank})
		add(linePreview, c.entry.Preview, 0)
	}

	if c.loaded && c.entry.HasImages() {
		for _, img := range c.entry.Images {
			lines = append(lines, bodyLine{text: truncate.StringWithTail("▣ "+filepath.Base(img), uint(inner), ellipsis), kind: lineImage})
		}
	}

	c.measuredInner = inner
	c.measuredVersion = c.version
	c.measuredBody = lines
	return lines
}

// render draws the card into exactly height lines of width cells.
func (c *card) render(width, height int, focused bool) []string {
	if width <= cardChromeX || height <= cardChromeY {
		out := make([]string, max(height, 0))
		for i := range out {
			out[i] = strings.Repeat(" ", max(width, 0))
		}
		return out
	}

	body := c.body(width - cardChromeX)
	styled := make([]string, 0, len(body))
	for _, l := range body {
		switch l.kind {
		case lineTitle:
			styled = append(styled, cardTitleStyle.Render(l.text))
		case lineMeta:
			styled = append(styled, metaStyle.Render(l.text))
		case lineTags:
			styled = append(styled, tagStyle.Render(l.text))
		case linePreview:
			styled = append(styled, previewTextStyle.Render(l.text))
		case lineImage:
			styled = append(styled, imageStyle.Render(l.text))
		default:
			styled = append(styled, "")
		}
	}
	if len(styled) > height-cardChromeY {
		styled = styled[:height-cardChromeY]
	}

	border := rowBorders[c.place.Parity&1]
	if focused {
		border = focusedBorder
	}

	box := cardStyle.
		BorderForeground(border).
		Width(width - 2).
		Height(height - cardChromeY).
		Render(strings.Join(styled, "\n"))

	out := strings.Split(box, "\n")
	if len(out) > height {
		out = out[:height]
	}
	return out
}
