// Package masonry packs measured cards into columns. The calculator and
// extender are pure functions over plain values; the applier and controller
// carry the side effects.
package masonry

import (
	"math"
	"sort"
)

// RowTolerance is the largest difference between two card tops that still
// counts as the same visual row.
const RowTolerance = 20

// MinUsableWidth is the narrowest container the engine lays out. Narrower
// surfaces are treated as not yet laid out.
const MinUsableWidth = 1

// Box is one measured card.
type Box struct {
	Key    string
	Height float64
}

// Position is where a card was placed.
type Position struct {
	Key    string
	Column int
	Left   float64
	Top    float64
	Height float64
}

// Result is an immutable snapshot of one layout pass.
type Result struct {
	Positions       []Position
	ColumnHeights   []float64
	ContainerHeight float64
	CardWidth       float64
	Columns         int
	ContainerWidth  float64
}

// Len reports the number of placed cards.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Positions)
}

// Geometry resolves the column count and the uniform card width for a
// container. minColumns below one and negative gaps are clamped.
func Geometry(containerWidth, cardSize float64, minColumns int, gap float64) (int, float64) {
	if minColumns < 1 {
		minColumns = 1
	}
	if gap < 0 {
		gap = 0
	}
	if cardSize <= 0 {
		cardSize = 1
	}

	columns := int(math.Floor((containerWidth + gap) / (cardSize + gap)))
	if columns < minColumns {
		columns = minColumns
	}

	cardWidth := (containerWidth - gap*float64(columns-1)) / float64(columns)
	if cardWidth < 0 {
		cardWidth = 0
	}
	return columns, cardWidth
}

// Compute lays out cards from scratch using greedy shortest-column packing.
func Compute(cards []Box, containerWidth, cardSize float64, minColumns int, gap float64) Result {
	if gap < 0 {
		gap = 0
	}
	columns, cardWidth := Geometry(containerWidth, cardSize, minColumns, gap)
	return pack(cards, make([]float64, columns), containerWidth, cardWidth, gap)
}

// Extend places newCards after a prior pass, seeding the packer with the
// prior column heights. The caller guarantees the container width is unchanged
// and that newCards are a pure append. Positions cover newCards only; the
// returned heights describe the combined state.
func Extend(newCards []Box, priorHeights []float64, containerWidth, cardWidth float64, columns int, gap float64) Result {
	if gap < 0 {
		gap = 0
	}
	if columns < 1 {
		columns = 1
	}

	heights := make([]float64, columns)
	copy(heights, priorHeights)
	return pack(newCards, heights, containerWidth, cardWidth, gap)
}

func pack(cards []Box, heights []float64, containerWidth, cardWidth, gap float64) Result {
	positions := make([]Position, 0, len(cards))
	for _, card := range cards {
		col := shortest(heights)
		positions = append(positions, Position{
			Key:    card.Key,
			Column: col,
			Left:   float64(col) * (cardWidth + gap),
			Top:    heights[col],
			Height: card.Height,
		})
		heights[col] += card.Height + gap
	}

	return Result{
		Positions:       positions,
		ColumnHeights:   heights,
		ContainerHeight: maxOf(heights),
		CardWidth:       cardWidth,
		Columns:         len(heights),
		ContainerWidth:  containerWidth,
	}
}

// shortest returns the leftmost column with the smallest height.
func shortest(heights []float64) int {
	best := 0
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[best] {
			best = i
		}
	}
	return best
}

func maxOf(values []float64) float64 {
	var m float64
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// Append merges an extension computed by Extend into r and returns the
// combined snapshot. r is not modified.
func (r Result) Append(ext Result) Result {
	positions := make([]Position, 0, len(r.Positions)+len(ext.Positions))
	positions = append(positions, r.Positions...)
	positions = append(positions, ext.Positions...)

	heights := make([]float64, len(ext.ColumnHeights))
	copy(heights, ext.ColumnHeights)

	return Result{
		Positions:       positions,
		ColumnHeights:   heights,
		ContainerHeight: ext.ContainerHeight,
		CardWidth:       ext.CardWidth,
		Columns:         ext.Columns,
		ContainerWidth:  ext.ContainerWidth,
	}
}

// VisualRows groups positions into rows by their top offset. Tops are visited
// in ascending order and a new row starts whenever the step from the previous
// top exceeds RowTolerance. The returned slice is indexed like positions.
func VisualRows(positions []Position) []int {
	rows := make([]int, len(positions))
	if len(positions) == 0 {
		return rows
	}

	order := make([]int, len(positions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return positions[order[a]].Top < positions[order[b]].Top
	})

	row := 0
	prev := positions[order[0]].Top
	for _, idx := range order {
		top := positions[idx].Top
		if top-prev > RowTolerance {
			row++
		}
		rows[idx] = row
		prev = top
	}
	return rows
}
