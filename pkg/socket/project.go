package socket

import (
	"math"

	"github.com/matzehuels/platecut/pkg/geometry"
	"github.com/matzehuels/platecut/pkg/layout"
)

// Layout is a group projected into pixel space.
type Layout struct {
	GroupID string
	Units   []geometry.Rect // pixel rectangles, first unit first
	Anchor  geometry.Point  // pixel position of the anchor
}

// Bounds returns the pixel rectangle covering every unit.
func (l Layout) Bounds() geometry.Rect {
	if len(l.Units) == 0 {
		return geometry.Rect{MinX: l.Anchor.X, MinY: l.Anchor.Y, MaxX: l.Anchor.X, MaxY: l.Anchor.Y}
	}
	b := l.Units[0]
	for _, u := range l.Units[1:] {
		b.MinX = math.Min(b.MinX, u.MinX)
		b.MinY = math.Min(b.MinY, u.MinY)
		b.MaxX = math.Max(b.MaxX, u.MaxX)
		b.MaxY = math.Max(b.MaxY, u.MaxY)
	}
	return b
}

// Contains reports whether px lies on any unit, edges included.
func (l Layout) Contains(px geometry.Point) bool {
	for _, u := range l.Units {
		if u.Contains(px) {
			return true
		}
	}
	return false
}

// Separators returns the pixel rectangles of the gaps between neighbouring
// units, in order.
func (l Layout) Separators() []geometry.Rect {
	if len(l.Units) < 2 {
		return nil
	}
	out := make([]geometry.Rect, 0, len(l.Units)-1)
	for i := 1; i < len(l.Units); i++ {
		a, b := l.Units[i-1], l.Units[i]
		if b.MinX >= a.MaxX {
			out = append(out, geometry.Rect{MinX: a.MaxX, MinY: a.MinY, MaxX: b.MinX, MaxY: a.MaxY})
		} else {
			// vertical groups grow upward, so b sits above a on screen
			out = append(out, geometry.Rect{MinX: a.MinX, MinY: b.MaxY, MaxX: a.MaxX, MaxY: a.MinY})
		}
	}
	return out
}

// Project maps g onto its plate. Vertical positions flip because plate space
// measures up from the bottom edge while pixels count down from the top:
//
//	pixelY = plateTop + plateHeight − cm·scale
func Project(g Group, p layout.PlateLayout, scale float64) Layout {
	size := SizeCm * scale
	half := size / 2
	bottom := p.Rect.MinY + p.Rect.Height()

	toPx := func(cm geometry.Point) geometry.Point {
		return geometry.Point{X: p.Rect.MinX + cm.X*scale, Y: bottom - cm.Y*scale}
	}

	centers := g.UnitCenters()
	l := Layout{GroupID: g.ID, Anchor: toPx(g.Anchor()), Units: make([]geometry.Rect, len(centers))}
	for i, c := range centers {
		px := toPx(c)
		l.Units[i] = geometry.RectXYWH(px.X-half, px.Y-half, size, size)
	}
	return l
}

// ProjectAll projects every group whose plate is present in f. Groups on
// plates outside the frame (e.g. while one plate is focused) are skipped.
func ProjectAll(f layout.Frame, groups []Group) []Layout {
	out := make([]Layout, 0, len(groups))
	for _, g := range groups {
		p, ok := f.Plate(g.PlateIndex)
		if !ok {
			continue
		}
		out = append(out, Project(g, p, f.Scale))
	}
	return out
}

// HitTest returns the first group, in list order, with a unit under px.
func HitTest(f layout.Frame, groups []Group, px geometry.Point) (Group, bool) {
	for _, g := range groups {
		p, ok := f.Plate(g.PlateIndex)
		if !ok {
			continue
		}
		if Project(g, p, f.Scale).Contains(px) {
			return g, true
		}
	}
	return Group{}, false
}
