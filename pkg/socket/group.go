package socket

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/geometry"
	"github.com/matzehuels/platecut/pkg/plate"
)

const (
	// SizeCm is the side length of one square cutout.
	SizeCm = 7.0
	// GapCm separates neighbouring cutouts inside a group.
	GapCm = 0.5
	// MinCount and MaxCount bound the number of units in a group.
	MinCount = 1
	MaxCount = 5
)

// Orientation is the axis a group grows along.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Valid reports whether o is a known orientation.
func (o Orientation) Valid() bool { return o == Horizontal || o == Vertical }

// ParseOrientation accepts "horizontal"/"vertical" and their first letters.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return "", errors.New(errors.ErrCodeInvalidSocket, "unknown orientation %q (want horizontal or vertical)", s)
}

// Group is one socket group placed on a plate.
type Group struct {
	ID          string      `json:"id" toml:"id" bson:"id"`
	PlateIndex  int         `json:"plate_index" toml:"plate_index" bson:"plate_index"`
	Count       int         `json:"count" toml:"count" bson:"count"`
	Orientation Orientation `json:"orientation" toml:"orientation" bson:"orientation"`
	AnchorXCm   float64     `json:"anchor_x_cm" toml:"anchor_x_cm" bson:"anchor_x_cm"`
	AnchorYCm   float64     `json:"anchor_y_cm" toml:"anchor_y_cm" bson:"anchor_y_cm"`
}

// NewID returns a fresh group identifier.
func NewID() string { return uuid.NewString() }

// Anchor returns the group's anchor in plate space.
func (g Group) Anchor() geometry.Point { return geometry.Point{X: g.AnchorXCm, Y: g.AnchorYCm} }

// WithAnchor returns a copy of g moved to p.
func (g Group) WithAnchor(p geometry.Point) Group {
	g.AnchorXCm, g.AnchorYCm = p.X, p.Y
	return g
}

// Validate checks the group's shape. It does not look at the plate; that is
// the placement validator's job.
func (g Group) Validate() error {
	if err := errors.ValidateGroupID(g.ID); err != nil {
		return err
	}
	if g.Count < MinCount || g.Count > MaxCount {
		return errors.New(errors.ErrCodeInvalidSocket, "count must be between %d and %d, got %d", MinCount, MaxCount, g.Count)
	}
	if !g.Orientation.Valid() {
		return errors.New(errors.ErrCodeInvalidSocket, "unknown orientation %q", g.Orientation)
	}
	if g.PlateIndex < 0 {
		return errors.New(errors.ErrCodeInvalidSocket, "plate index must not be negative, got %d", g.PlateIndex)
	}
	return nil
}

// LengthCm is the extent of a group of count units along its axis.
func LengthCm(count int) float64 {
	if count < 1 {
		return 0
	}
	n := float64(count)
	return n*SizeCm + (n-1)*GapCm
}

// BoundingBox returns the plate-space box (cm, Y up) covered by a group with
// the given anchor, count and orientation.
func BoundingBox(anchor geometry.Point, count int, o Orientation) geometry.Rect {
	half := SizeCm / 2
	r := geometry.Rect{
		MinX: anchor.X - half, MinY: anchor.Y - half,
		MaxX: anchor.X + half, MaxY: anchor.Y + half,
	}
	extra := LengthCm(count) - SizeCm
	if extra < 0 {
		extra = 0
	}
	if o == Vertical {
		r.MaxY += extra
	} else {
		r.MaxX += extra
	}
	return r
}

// BoundingBox returns the group's box in plate space.
func (g Group) BoundingBox() geometry.Rect {
	return BoundingBox(g.Anchor(), g.Count, g.Orientation)
}

// UnitCenters returns the center of every unit in plate space, first unit
// (the anchor) first.
func (g Group) UnitCenters() []geometry.Point {
	if g.Count < 1 {
		return nil
	}
	step := SizeCm + GapCm
	out := make([]geometry.Point, g.Count)
	for i := range out {
		d := float64(i) * step
		if g.Orientation == Vertical {
			out[i] = geometry.Point{X: g.AnchorXCm, Y: g.AnchorYCm + d}
		} else {
			out[i] = geometry.Point{X: g.AnchorXCm + d, Y: g.AnchorYCm}
		}
	}
	return out
}

// LeftDistance is the anchor's distance from the left edge as shown to users.
func (g Group) LeftDistance() string { return plate.FormatFixed(g.AnchorXCm, 1) }

// BottomDistance is the anchor's distance from the bottom edge as shown to users.
func (g Group) BottomDistance() string { return plate.FormatFixed(g.AnchorYCm, 1) }

// PositionLabel renders the anchor the way the editor labels it.
func (g Group) PositionLabel() string {
	return fmt.Sprintf("L: %scm B: %scm", g.LeftDistance(), g.BottomDistance())
}

// OnPlate returns the groups placed on plate index, in list order.
func OnPlate(groups []Group, index int) []Group {
	var out []Group
	for _, g := range groups {
		if g.PlateIndex == index {
			out = append(out, g)
		}
	}
	return out
}

// Find returns the position of the group with id, or -1.
func Find(groups []Group, id string) int {
	for i, g := range groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// RemovePlate drops the groups on plate index and shifts the plate index of
// groups on later plates down by one, matching a plate list with that entry
// removed.
func RemovePlate(groups []Group, index int) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		switch {
		case g.PlateIndex == index:
			continue
		case g.PlateIndex > index:
			g.PlateIndex--
		}
		out = append(out, g)
	}
	return out
}
