// Package placement decides whether a socket group may sit at a position.
//
// [Validate] runs two checks in order and reports the first failure:
//
//  1. Edge clearance: the group's bounding box keeps at least
//     EdgeClearanceCm from every plate edge (left, right, top, bottom).
//     A box exactly at the threshold is accepted.
//  2. Inter-group clearance: the candidate's box grown by
//     InterGroupClearanceCm must not overlap the box of any other group on
//     the same plate. Touching is allowed, so groups exactly
//     InterGroupClearanceCm apart are accepted.
//
// The function is pure and runs in time linear in the number of groups.
package placement

import (
	"fmt"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/geometry"
	"github.com/matzehuels/platecut/pkg/socket"
)

const (
	// EdgeClearanceCm is the default minimum distance from a plate edge.
	EdgeClearanceCm = 3.0
	// InterGroupClearanceCm is the default minimum distance between groups.
	InterGroupClearanceCm = 4.0
)

// Options overrides the clearances. Zero values fall back to the defaults;
// use a negative value to disable a check. Options built with [Exact] take
// zero literally.
type Options struct {
	EdgeClearanceCm       float64
	InterGroupClearanceCm float64

	exact bool
}

// Exact returns Options whose values are used as given, so 0 means no
// clearance rather than the default.
func Exact(edge, interGroup float64) Options {
	return Options{EdgeClearanceCm: edge, InterGroupClearanceCm: interGroup, exact: true}
}

func (o Options) edge() float64 {
	if o.EdgeClearanceCm == 0 && !o.exact {
		return EdgeClearanceCm
	}
	return o.EdgeClearanceCm
}

func (o Options) interGroup() float64 {
	if o.InterGroupClearanceCm == 0 && !o.exact {
		return InterGroupClearanceCm
	}
	return o.InterGroupClearanceCm
}

// Candidate is a proposed group shape and position.
type Candidate struct {
	AnchorXCm   float64
	AnchorYCm   float64
	Count       int
	Orientation socket.Orientation
}

// CandidateOf returns the candidate describing g's current state.
func CandidateOf(g socket.Group) Candidate {
	return Candidate{AnchorXCm: g.AnchorXCm, AnchorYCm: g.AnchorYCm, Count: g.Count, Orientation: g.Orientation}
}

// At returns c moved to p.
func (c Candidate) At(p geometry.Point) Candidate {
	c.AnchorXCm, c.AnchorYCm = p.X, p.Y
	return c
}

// BoundingBox returns the candidate's plate-space box.
func (c Candidate) BoundingBox() geometry.Rect {
	return socket.BoundingBox(geometry.Point{X: c.AnchorXCm, Y: c.AnchorYCm}, c.Count, c.Orientation)
}

// Kind classifies a violation.
type Kind string

const (
	KindEdge       Kind = "edge_clearance"
	KindInterGroup Kind = "inter_group_clearance"
)

// Edge names a plate edge.
type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// Violation explains why a candidate was rejected.
type Violation struct {
	Kind       Kind    `json:"kind"`
	Edge       Edge    `json:"edge,omitempty"`
	RequiredCm float64 `json:"required_cm"`
	ActualCm   float64 `json:"actual_cm"`
	ConflictID string  `json:"conflict_id,omitempty"`
}

// Error implements error with a message suitable for users.
func (v *Violation) Error() string {
	switch v.Kind {
	case KindEdge:
		return fmt.Sprintf("Too close to the %s edge: keep at least %scm (is %scm)", v.Edge, trim(v.RequiredCm), trim(v.ActualCm))
	case KindInterGroup:
		return fmt.Sprintf("Too close to another socket group: keep at least %scm apart", trim(v.RequiredCm))
	}
	return "invalid placement"
}

// AsError converts the violation into a coded error for outer layers.
func (v *Violation) AsError() error {
	if v == nil {
		return nil
	}
	return errors.New(errors.ErrCodePlacement, "%s", v.Error())
}

func trim(v float64) string { return fmt.Sprintf("%.1f", v) }

// Result is the verdict for one candidate.
type Result struct {
	Valid  bool       `json:"valid"`
	Reason *Violation `json:"reason,omitempty"`
}

// Err returns the reason as a coded error, or nil for a valid result.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r.Reason.AsError()
}

// Validate checks c against a plate of plateW × plateH centimeters and the
// groups already on it. The group with excludeID (the one being moved) is
// ignored; pass "" when placing a new group. Groups on other plates must be
// filtered out by the caller.
func Validate(c Candidate, plateW, plateH float64, siblings []socket.Group, excludeID string, opts Options) Result {
	box := c.BoundingBox()

	if edge := opts.edge(); edge >= 0 {
		checks := []struct {
			edge Edge
			dist float64
		}{
			{EdgeLeft, box.MinX},
			{EdgeRight, plateW - box.MaxX},
			{EdgeTop, plateH - box.MaxY},
			{EdgeBottom, box.MinY},
		}
		for _, ck := range checks {
			if !geometry.AtLeast(ck.dist, edge) {
				return Result{Reason: &Violation{Kind: KindEdge, Edge: ck.edge, RequiredCm: edge, ActualCm: ck.dist}}
			}
		}
	}

	if gap := opts.interGroup(); gap >= 0 {
		padded := box.Pad(gap - geometry.Eps)
		for _, s := range siblings {
			if s.ID == excludeID && excludeID != "" {
				continue
			}
			if padded.Overlaps(s.BoundingBox()) {
				return Result{Reason: &Violation{
					Kind:       KindInterGroup,
					RequiredCm: gap,
					ActualCm:   distance(box, s.BoundingBox()),
					ConflictID: s.ID,
				}}
			}
		}
	}

	return Result{Valid: true}
}

// ValidateGroup validates g in place on its plate, using every other group in
// all that shares its plate.
func ValidateGroup(g socket.Group, plateW, plateH float64, all []socket.Group, opts Options) Result {
	return Validate(CandidateOf(g), plateW, plateH, socket.OnPlate(all, g.PlateIndex), g.ID, opts)
}

// distance is the gap between two boxes along the axis that separates them
// most, or 0 when they overlap.
func distance(a, b geometry.Rect) float64 {
	dx := max(b.MinX-a.MaxX, a.MinX-b.MaxX, 0)
	dy := max(b.MinY-a.MaxY, a.MinY-b.MaxY, 0)
	return max(dx, dy)
}
