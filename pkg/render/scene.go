package render

import (
	"fmt"

	"github.com/matzehuels/platecut/pkg/geometry"
	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
)

// Scene is a fully resolved drawing in viewport pixels.
type Scene struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Scale   float64      `json:"scale"`
	Plates  []ScenePlate `json:"plates"`
	Groups  []SceneGroup `json:"groups"`
	Helpers []HelperLine `json:"helpers,omitempty"`
}

// ScenePlate is one drawn plate.
type ScenePlate struct {
	Index  int           `json:"index"`
	Label  string        `json:"label"`
	Size   string        `json:"size"`
	Rect   geometry.Rect `json:"rect"`
	Active bool          `json:"active,omitempty"`
}

// SceneGroup is one drawn socket group.
type SceneGroup struct {
	ID          string             `json:"id"`
	PlateIndex  int                `json:"plate_index"`
	Orientation socket.Orientation `json:"orientation"`
	Units       []geometry.Rect    `json:"units"`
	Separators  []geometry.Rect    `json:"separators,omitempty"`
	Anchor      geometry.Point     `json:"anchor"`
	Position    string             `json:"position"`
	Active      bool               `json:"active,omitempty"`
}

// HelperLine is a dimension line with its distance label.
type HelperLine struct {
	From  geometry.Point `json:"from"`
	To    geometry.Point `json:"to"`
	Label string         `json:"label"`
}

// Option configures Build.
type Option func(*sceneOptions)

type sceneOptions struct {
	activePlate int
	activeGroup string
}

// WithActivePlate highlights the plate at index. Negative disables it.
func WithActivePlate(index int) Option {
	return func(o *sceneOptions) { o.activePlate = index }
}

// WithActiveGroup highlights a group and draws its helper lines.
func WithActiveGroup(id string) Option {
	return func(o *sceneOptions) { o.activeGroup = id }
}

// Build resolves f and groups into a Scene. Groups on plates missing from f
// are left out.
func Build(f layout.Frame, groups []socket.Group, opts ...Option) Scene {
	o := sceneOptions{activePlate: -1}
	for _, opt := range opts {
		opt(&o)
	}

	s := Scene{
		Width:  f.Viewport.Width,
		Height: f.Viewport.Height,
		Scale:  f.Scale,
		Plates: make([]ScenePlate, 0, len(f.Plates)),
		Groups: make([]SceneGroup, 0, len(groups)),
	}
	for _, p := range f.Plates {
		dim := plate.Dimension{WidthCm: p.WidthCm, HeightCm: p.HeightCm}
		s.Plates = append(s.Plates, ScenePlate{
			Index:  p.Index,
			Label:  fmt.Sprintf("#%d", p.Index+1),
			Size:   dim.Label(),
			Rect:   p.Rect,
			Active: p.Index == o.activePlate,
		})
	}

	for _, g := range groups {
		p, ok := f.Plate(g.PlateIndex)
		if !ok {
			continue
		}
		l := socket.Project(g, p, f.Scale)
		active := g.ID != "" && g.ID == o.activeGroup
		s.Groups = append(s.Groups, SceneGroup{
			ID:          g.ID,
			PlateIndex:  g.PlateIndex,
			Orientation: g.Orientation,
			Units:       l.Units,
			Separators:  l.Separators(),
			Anchor:      l.Anchor,
			Position:    g.PositionLabel(),
			Active:      active,
		})
		if active {
			s.Helpers = helperLines(g, p, l.Anchor)
		}
	}
	return s
}

// helperLines runs from the anchor to the left and bottom plate edges.
func helperLines(g socket.Group, p layout.PlateLayout, anchor geometry.Point) []HelperLine {
	return []HelperLine{
		{
			From:  anchor,
			To:    geometry.Point{X: p.Rect.MinX, Y: anchor.Y},
			Label: g.LeftDistance() + " cm",
		},
		{
			From:  anchor,
			To:    geometry.Point{X: anchor.X, Y: p.Rect.MaxY},
			Label: g.BottomDistance() + " cm",
		},
	}
}
