// Package geometry provides the small set of 2D primitives shared by the
// layout, projection, and validation packages.
//
// Two coordinate spaces are in play. Plate space is measured in centimeters
// from a plate's bottom-left corner with Y increasing upward. Pixel space has
// its origin at the top-left of the viewport with Y increasing downward.
// [Rect] and [Point] are unit-agnostic; the packages that produce them decide
// which space they live in.
package geometry
