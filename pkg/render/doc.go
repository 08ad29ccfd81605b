// Package render turns a computed layout into output artifacts.
//
// # Scene
//
// [Build] collects everything a drawing needs from a [layout.Frame] and the
// socket groups: plate rectangles with their "#n" and "W × H cm" labels,
// projected socket units, the separators between units, and helper lines
// from the active group's anchor to the left and bottom plate edges.
// Rendering never recomputes geometry; the scene is the single source.
//
//	frame, ok := layout.Compute(plates, layout.Viewport{Width: 800, Height: 600})
//	if !ok {
//		return // nothing to draw
//	}
//	scene := render.Build(frame, groups, render.WithActivePlate(0))
//	svg := render.SVG(scene)
//
// # Formats
//
//   - [SVG]: standalone SVG document
//   - [JSON]: the scene itself, for browser front ends
//   - [PNG]: raster via Graphviz (neato with pinned node positions)
//   - [PDF]: SVG converted with rsvg-convert
//
// [Render] dispatches on a [Format] and reports timing to the observability
// layout hooks.
//
// [layout.Frame]: github.com/matzehuels/platecut/pkg/layout.Frame
package render
