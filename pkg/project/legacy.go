package project

import (
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
)

// Record is a socket group as found in a file. It accepts the current
// snake_case shape and the older camelCase shape with string distances.
type Record struct {
	ID          string `json:"id" toml:"id"`
	Count       int    `json:"count" toml:"count"`
	Orientation string `json:"orientation" toml:"orientation"`

	PlateIndex *int     `json:"plate_index,omitempty" toml:"plate_index,omitempty"`
	AnchorXCm  *float64 `json:"anchor_x_cm,omitempty" toml:"anchor_x_cm,omitempty"`
	AnchorYCm  *float64 `json:"anchor_y_cm,omitempty" toml:"anchor_y_cm,omitempty"`

	LegacyPlateIndex *int     `json:"plateIndex,omitempty" toml:"plateIndex,omitempty"`
	LegacyAnchorX    *float64 `json:"anchorX,omitempty" toml:"anchorX,omitempty"`
	LegacyAnchorY    *float64 `json:"anchorY,omitempty" toml:"anchorY,omitempty"`
	LeftDistance     string   `json:"leftDistance,omitempty" toml:"leftDistance,omitempty"`
	BottomDistance   string   `json:"bottomDistance,omitempty" toml:"bottomDistance,omitempty"`
}

// NormalizeLegacy resolves a record into a Group. The numeric anchor is
// authoritative; display strings are parsed only when it is absent. A record
// without an id gets a fresh one, and a missing orientation means horizontal.
func NormalizeLegacy(r Record) socket.Group {
	g := socket.Group{
		ID:          r.ID,
		Count:       r.Count,
		Orientation: socket.Orientation(r.Orientation),
		PlateIndex:  firstInt(r.PlateIndex, r.LegacyPlateIndex),
		AnchorXCm:   resolve(r.AnchorXCm, r.LegacyAnchorX, r.LeftDistance),
		AnchorYCm:   resolve(r.AnchorYCm, r.LegacyAnchorY, r.BottomDistance),
	}
	if g.ID == "" {
		g.ID = socket.NewID()
	}
	if g.Orientation == "" {
		g.Orientation = socket.Horizontal
	}
	return g
}

// recordOf is the inverse used when writing: only current fields are set.
func recordOf(g socket.Group) Record {
	idx, x, y := g.PlateIndex, g.AnchorXCm, g.AnchorYCm
	return Record{
		ID:          g.ID,
		Count:       g.Count,
		Orientation: string(g.Orientation),
		PlateIndex:  &idx,
		AnchorXCm:   &x,
		AnchorYCm:   &y,
	}
}

func firstInt(vs ...*int) int {
	for _, v := range vs {
		if v != nil {
			return *v
		}
	}
	return 0
}

func resolve(current, legacy *float64, display string) float64 {
	switch {
	case current != nil:
		return *current
	case legacy != nil:
		return *legacy
	}
	return plate.ParseValue(display)
}
