package model

import "math"

// BBox represents an axis-aligned bounding box in page space.
//
// The origin is the top-left corner of the page and Y grows downward, which
// is the convention used by layout dumps. Readers that work in PDF user
// space (origin bottom-left) convert before constructing a BBox.
type BBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// NewBBox creates a bounding box from its four edges, normalizing the
// corners so that X0 <= X1 and Y0 <= Y1.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y0
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Width() * b.Height()
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.X1 <= b.X0 || b.Y1 <= b.Y0
}

// Intersects checks if two bounding boxes share any interior area
func (b BBox) Intersects(other BBox) bool {
	return b.X0 < other.X1 && other.X0 < b.X1 &&
		b.Y0 < other.Y1 && other.Y0 < b.Y1
}

// Intersection returns the intersection of two bounding boxes. The result
// is the zero BBox when they do not intersect.
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	return BBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
}

// Union returns the smallest box containing both boxes. An empty receiver
// is treated as absent.
func (b BBox) Union(other BBox) BBox {
	if b == (BBox{}) {
		return other
	}
	if other == (BBox{}) {
		return b
	}
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// CoverageBy returns the fraction of this box's own area that lies inside
// other, between 0 and 1. A zero-area box is never covered.
func (b BBox) CoverageBy(other BBox) float64 {
	area := b.Area()
	if area == 0 {
		return 0
	}
	return b.Intersection(other).Area() / area
}
