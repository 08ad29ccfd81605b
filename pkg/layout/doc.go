// Package layout fits a row of plates into a pixel viewport.
//
// # Overview
//
// [Compute] takes the ordered plate dimensions (centimeters) and a viewport
// (pixels) and returns a [Frame]: one uniform scale plus a [PlateLayout] per
// plate. Plates sit left to right with a fixed pixel gap, each centered
// vertically in the available height:
//
//	availW = W − 2·padding − (n−1)·gap
//	availH = H − 2·padding
//	scale  = min(availW / Σ widthCm, availH / max heightCm)
//
// Zero or negative plate sides contribute no footprint. When nothing can be
// drawn (no plates, an empty viewport, zero total footprint, or padding that
// eats the whole viewport) Compute reports ok=false and callers skip
// rendering.
//
// # Coordinate Spaces
//
// Plate space is centimeters with the origin at a plate's bottom-left corner
// and Y growing upward. Pixel space has its origin at the viewport's top-left
// corner and Y growing downward. [PlateLayout.ToPx] and [PlateLayout.ToCm]
// convert between the two for a single plate.
//
// # Options
//
//   - [WithPadding]: viewport padding in pixels (default [PaddingPx])
//   - [WithPlateGap]: pixel gap between plates (default [PlateGapPx])
//   - [WithFocus]: lay out a single plate while keeping its original index
package layout
