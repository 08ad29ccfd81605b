package geometry

// Point is a 2D coordinate. Whether it is in pixels or centimeters depends on
// where it came from; the type does not track units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned rectangle spanning [MinX, MaxX] × [MinY, MaxY].
// In pixel space MinY is the top edge; in plate space (cm, Y up) MinY is the
// bottom edge.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// RectXYWH builds a Rect from an origin corner and a size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.MinX + r.MaxX) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.MinY + r.MaxY) / 2 }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// Contains reports whether p lies inside r. Edges count as inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Overlaps reports whether r and o share interior area. Rectangles that only
// touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Pad grows r by d on every side. A negative d shrinks it.
func (r Rect) Pad(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

// Within reports whether r lies entirely inside o, edges included.
func (r Rect) Within(o Rect) bool {
	return r.MinX >= o.MinX && r.MaxX <= o.MaxX && r.MinY >= o.MinY && r.MaxY <= o.MaxY
}
