package d3

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d bounding box.
type Box r3.Box

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Grow returns the box with every face pushed outwards by d.
func (a Box) Grow(d float64) Box {
	v := Elem(d)
	return Box{Min: r3.Sub(a.Min, v), Max: r3.Add(a.Max, v)}
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v r3.Vec) Box {
	return Box{Min: MinElem(a.Min, v), Max: MaxElem(a.Max, v)}
}
