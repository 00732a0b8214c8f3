package paging

// Geometry is the scroll state of a scrolling region.
type Geometry struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// DistanceFromBottom is how far the viewport bottom is from the end of the
// content.
func (g Geometry) DistanceFromBottom() float64 {
	return g.ScrollHeight - (g.ScrollTop + g.ClientHeight)
}

// Region is anything whose scroll geometry can be read.
type Region interface {
	Geometry() Geometry
}

// Node is a region in a container tree.
type Node interface {
	Region
	// Scrollable reports whether the node clips and scrolls its overflow.
	Scrollable() bool
	// Parent returns the enclosing node, or nil at the root.
	Parent() Node
}

// ResolveRegion picks the region the loader watches: an explicit
// height-capped results container when one is configured, otherwise the
// nearest scrollable ancestor of from (from included). It returns nil when
// neither exists.
func ResolveRegion(explicit Region, from Node) Region {
	if explicit != nil {
		return explicit
	}
	for n := from; n != nil; n = n.Parent() {
		if n.Scrollable() {
			return n
		}
	}
	return nil
}
