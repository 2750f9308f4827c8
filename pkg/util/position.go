package util

// Positioned is an element laid out relative to an offset parent.
// OffsetParent must return a nil interface for the outermost element.
type Positioned interface {
	Offset() (left, top int)
	OffsetParent() Positioned
}

// Point is an absolute position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ElementPosition sums the offsets along el's offset parent chain.
func ElementPosition(el Positioned) Point {
	var p Point
	for el != nil {
		left, top := el.Offset()
		p.X += left
		p.Y += top
		el = el.OffsetParent()
	}
	return p
}
