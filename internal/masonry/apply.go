package masonry

// Placement is what the applier writes onto one element.
type Placement struct {
	Left   float64
	Top    float64
	Width  float64
	Row    int
	Parity int
	// Transition asks the element to animate from its previous placement.
	Transition bool
}

// Element is a rendered card the engine can measure and position.
type Element interface {
	Key() string
	// Measure returns the element height when rendered at width.
	Measure(width float64) float64
	Place(p Placement)
	// SetRow restamps row metadata without moving the element.
	SetRow(row, parity int)
	// Clear removes every masonry placement from the element.
	Clear()
}

// Surface is the container the engine lays out into.
type Surface interface {
	// Attached reports whether the container is still mounted.
	Attached() bool
	Width() float64
	Elements() []Element
	SetContainerHeight(h float64)
	// ResetContainer reverts the container to its non-masonry state.
	ResetContainer()
}

// Apply writes result onto elements. Elements before from keep their
// placement and only receive refreshed row metadata, since an append can
// reshuffle the visual rows of earlier cards. It returns false when the
// surface is detached.
func Apply(surface Surface, elements []Element, result Result, from int) bool {
	if surface == nil || !surface.Attached() {
		return false
	}
	if from < 0 {
		from = 0
	}

	surface.SetContainerHeight(result.ContainerHeight)

	rows := VisualRows(result.Positions)
	for i, el := range elements {
		if i >= len(result.Positions) {
			break
		}
		row := rows[i]
		if i < from {
			el.SetRow(row, row%2)
			continue
		}
		pos := result.Positions[i]
		el.Place(Placement{
			Left:       pos.Left,
			Top:        pos.Top,
			Width:      result.CardWidth,
			Row:        row,
			Parity:     row % 2,
			Transition: true,
		})
	}
	return true
}

// Revert strips masonry placement from every element and the container.
func Revert(surface Surface) {
	if surface == nil {
		return
	}
	for _, el := range surface.Elements() {
		el.Clear()
	}
	surface.ResetContainer()
}
