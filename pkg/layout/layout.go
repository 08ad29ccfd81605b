package layout

import (
	"math"

	"github.com/matzehuels/platecut/pkg/geometry"
	"github.com/matzehuels/platecut/pkg/plate"
)

const (
	// PaddingPx is the default empty border around the plate row.
	PaddingPx = 40.0
	// PlateGapPx is the default horizontal gap between neighbouring plates.
	PlateGapPx = 20.0
)

// Viewport is the drawable area in pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the viewport has no drawable area.
func (v Viewport) Empty() bool { return !(v.Width > 0) || !(v.Height > 0) }

// PlateLayout is one plate placed in pixel space.
type PlateLayout struct {
	Index    int           // position in the original plate list
	Rect     geometry.Rect // pixel rectangle
	WidthCm  float64
	HeightCm float64
	Scale    float64 // pixels per centimeter, shared by the whole frame
}

// ToPx converts a plate-space point (cm from the bottom-left corner) into
// viewport pixels.
func (p PlateLayout) ToPx(cm geometry.Point) geometry.Point {
	return geometry.Point{
		X: p.Rect.MinX + cm.X*p.Scale,
		Y: p.Rect.MinY + p.Rect.Height() - cm.Y*p.Scale,
	}
}

// ToCm converts viewport pixels into plate space. It is the inverse of ToPx.
func (p PlateLayout) ToCm(px geometry.Point) geometry.Point {
	return geometry.Point{
		X: geometry.PxToCm(px.X-p.Rect.MinX, p.Scale),
		Y: geometry.PxToCm(p.Rect.MinY+p.Rect.Height()-px.Y, p.Scale),
	}
}

// Contains reports whether a pixel point falls on the plate, edges included.
func (p PlateLayout) Contains(px geometry.Point) bool { return p.Rect.Contains(px) }

// Frame is the result of one layout pass. Scale and plate rectangles are only
// meaningful together, so they travel as one value.
type Frame struct {
	Scale    float64
	Plates   []PlateLayout
	Viewport Viewport
}

// Plate looks a plate up by its original index.
func (f Frame) Plate(index int) (PlateLayout, bool) {
	for _, p := range f.Plates {
		if p.Index == index {
			return p, true
		}
	}
	return PlateLayout{}, false
}

// PlateAt returns the first plate whose rectangle contains px.
func (f Frame) PlateAt(px geometry.Point) (PlateLayout, bool) {
	for _, p := range f.Plates {
		if p.Contains(px) {
			return p, true
		}
	}
	return PlateLayout{}, false
}

// Bounds returns the pixel rectangle covering every plate.
func (f Frame) Bounds() geometry.Rect {
	if len(f.Plates) == 0 {
		return geometry.Rect{}
	}
	b := f.Plates[0].Rect
	for _, p := range f.Plates[1:] {
		b.MinX = math.Min(b.MinX, p.Rect.MinX)
		b.MinY = math.Min(b.MinY, p.Rect.MinY)
		b.MaxX = math.Max(b.MaxX, p.Rect.MaxX)
		b.MaxY = math.Max(b.MaxY, p.Rect.MaxY)
	}
	return b
}

// Option configures a layout pass.
type Option func(*options)

type options struct {
	padding float64
	gap     float64
	focus   int
	focused bool
}

// WithPadding sets the viewport padding in pixels.
func WithPadding(px float64) Option { return func(o *options) { o.padding = px } }

// WithPlateGap sets the gap between plates in pixels.
func WithPlateGap(px float64) Option { return func(o *options) { o.gap = px } }

// WithFocus lays out only the plate at index. Its PlateLayout keeps the
// original index so socket groups still resolve against it.
func WithFocus(index int) Option {
	return func(o *options) { o.focus, o.focused = index, true }
}

// Compute fits plates into vp. It is a pure function of its inputs; ok is
// false when the result would be degenerate and nothing should be drawn.
func Compute(plates []plate.Dimension, vp Viewport, opts ...Option) (Frame, bool) {
	o := options{padding: PaddingPx, gap: PlateGapPx}
	for _, opt := range opts {
		opt(&o)
	}

	type entry struct {
		index int
		dim   plate.Dimension
	}
	var entries []entry
	if o.focused {
		if o.focus < 0 || o.focus >= len(plates) {
			return Frame{}, false
		}
		entries = []entry{{o.focus, plates[o.focus].Footprint()}}
	} else {
		entries = make([]entry, len(plates))
		for i, d := range plates {
			entries[i] = entry{i, d.Footprint()}
		}
	}

	if len(entries) == 0 || vp.Empty() {
		return Frame{}, false
	}

	var totalW, maxH float64
	for _, e := range entries {
		totalW += e.dim.WidthCm
		maxH = math.Max(maxH, e.dim.HeightCm)
	}
	if totalW <= 0 || maxH <= 0 {
		return Frame{}, false
	}

	n := float64(len(entries))
	availW := vp.Width - 2*o.padding - (n-1)*o.gap
	availH := vp.Height - 2*o.padding
	if availW <= 0 || availH <= 0 {
		return Frame{}, false
	}

	scale := math.Min(availW/totalW, availH/maxH)

	f := Frame{Scale: scale, Viewport: vp, Plates: make([]PlateLayout, 0, len(entries))}
	x := o.padding
	for _, e := range entries {
		w := e.dim.WidthCm * scale
		h := e.dim.HeightCm * scale
		y := o.padding + (availH-h)/2
		f.Plates = append(f.Plates, PlateLayout{
			Index:    e.index,
			Rect:     geometry.RectXYWH(x, y, w, h),
			WidthCm:  e.dim.WidthCm,
			HeightCm: e.dim.HeightCm,
			Scale:    scale,
		})
		x += w + o.gap
	}
	return f, true
}
