package cards

import "math"

type direction int

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
)

func (c *card) left() int   { return int(math.Round(c.place.Left)) }
func (c *card) top() int    { return int(math.Round(c.place.Top)) }
func (c *card) middle() int { return c.top() + c.span/2 }

// neighbour finds the card next to from in direction d. Vertical moves stay in
// the same column; horizontal moves pick the card in the adjacent column whose
// middle is closest to the middle of from.
func (s *surface) neighbour(from *card, d direction) *card {
	if from == nil || !from.placed {
		return s.first()
	}

	var best *card
	bestScore := math.MaxInt
	for _, c := range s.cards {
		if c == from || !c.placed {
			continue
		}
		var score int
		switch d {
		case dirUp:
			if c.left() != from.left() || c.top() >= from.top() {
				continue
			}
			score = from.top() - c.top()
		case dirDown:
			if c.left() != from.left() || c.top() <= from.top() {
				continue
			}
			score = c.top() - from.top()
		case dirLeft, dirRight:
			dx := c.left() - from.left()
			if (d == dirLeft && dx >= 0) || (d == dirRight && dx <= 0) {
				continue
			}
			dy := c.middle() - from.middle()
			// Column distance dominates so the adjacent column always wins.
			score = abs(dx)*100000 + abs(dy)
		}
		if score < bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

func (s *surface) first() *card {
	for _, c := range s.cards {
		if c.placed {
			return c
		}
	}
	return nil
}

func (s *surface) last() *card {
	var out *card
	bottom := -1
	for _, c := range s.cards {
		if c.placed && c.top()+c.span > bottom {
			out, bottom = c, c.top()+c.span
		}
	}
	return out
}

// visibleNear returns the card in the column of from that is nearest the top
// of the viewport, falling back to any visible card.
func (s *surface) visibleNear(from *card) *card {
	var fallback *card
	for _, c := range s.cards {
		if !c.placed || c.top()+c.span <= s.scrollTop || c.top() >= s.scrollTop+s.height {
			continue
		}
		if from != nil && c.left() == from.left() {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
