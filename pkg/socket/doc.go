// Package socket models socket groups and projects them into pixel space.
//
// A [Group] is one or more square cutouts of [SizeCm] placed in a line with
// [GapCm] between them. Its anchor is the center of the first unit (the
// leftmost for horizontal groups, the bottommost for vertical ones) measured
// in centimeters from the plate's bottom-left corner. Horizontal groups grow
// to the right, vertical groups grow upward.
//
// [Project] maps a group onto its plate's [layout.PlateLayout] and returns the
// per-unit pixel rectangles. Renderers and hit-testing share that one
// projection, so what is drawn is exactly what can be grabbed.
//
// [Collection] is the in-process authoritative list of groups. Writers always
// replace the whole list; readers get copies.
package socket
