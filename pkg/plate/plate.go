// Package plate models the rectangular panels being laid out.
//
// Dimensions cross the external boundary as decimal strings (the form the
// dimension store persists). [Parse] converts them to centimeters and never
// fails: anything that is not a finite number becomes a zero-sized side, which
// the layout engine treats as contributing no footprint.
//
// Parsing is strict. A value with trailing text such as "40cm" is not read
// as its leading number; it parses as 0, matching [ValidateValue], which
// rejects it as not a valid number.
package plate

import (
	"math"
	"strconv"
	"strings"
)

// Dimension is a plate's size in centimeters. The position of a Dimension in
// its list is the plate's identity; socket groups reference plates by index.
type Dimension struct {
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
}

// Raw is the boundary form of a Dimension: two decimal strings, exactly as
// entered and stored.
type Raw struct {
	Width  string `json:"width" toml:"width" bson:"width"`
	Height string `json:"height" toml:"height" bson:"height"`
}

// Initial is the plate every new project starts with.
var Initial = Raw{Width: "151.5", Height: "40"}

// ParseValue parses a decimal string in centimeters. Empty, malformed, NaN and
// infinite values yield 0, as do numbers followed by a unit ("40cm").
func ParseValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Parse converts a raw dimension into centimeters.
func Parse(r Raw) Dimension {
	return Dimension{WidthCm: ParseValue(r.Width), HeightCm: ParseValue(r.Height)}
}

// ParseAll converts a list of raw dimensions, preserving order.
func ParseAll(raws []Raw) []Dimension {
	out := make([]Dimension, len(raws))
	for i, r := range raws {
		out[i] = Parse(r)
	}
	return out
}

// Format renders a Dimension back into its boundary form using the shortest
// representation that round-trips.
func Format(d Dimension) Raw {
	return Raw{Width: FormatValue(d.WidthCm), Height: FormatValue(d.HeightCm)}
}

// FormatValue renders centimeters as the shortest decimal string.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatFixed renders centimeters with a fixed number of decimals, the way
// labels and listings show them ("151.5", "40.0").
func FormatFixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// Footprint returns the dimension with negative sides clamped to zero.
func (d Dimension) Footprint() Dimension {
	return Dimension{WidthCm: math.Max(0, d.WidthCm), HeightCm: math.Max(0, d.HeightCm)}
}

// IsZero reports whether the plate has no usable area.
func (d Dimension) IsZero() bool {
	return d.WidthCm <= 0 || d.HeightCm <= 0
}

// Label returns the human-readable size, e.g. "151.5 × 40 cm".
func (d Dimension) Label() string {
	return FormatValue(d.WidthCm) + " × " + FormatValue(d.HeightCm) + " cm"
}
