package socket

import (
	"reflect"
	"testing"

	"github.com/matzehuels/platecut/pkg/geometry"
	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/plate"
)

func testFrame(t *testing.T) layout.Frame {
	t.Helper()
	f, ok := layout.Compute([]plate.Dimension{{WidthCm: 151.5, HeightCm: 40}, {WidthCm: 60, HeightCm: 60}},
		layout.Viewport{Width: 1200, Height: 500})
	if !ok {
		t.Fatal("layout should not be degenerate")
	}
	return f
}

func TestProjectRoundTrip(t *testing.T) {
	f := testFrame(t)
	p := f.Plates[0]
	anchors := []geometry.Point{{X: 3.5, Y: 3.5}, {X: 10, Y: 10}, {X: 75.25, Y: 20.125}, {X: 148, Y: 36.5}}
	for _, a := range anchors {
		g := Group{ID: "g", Count: 1, Orientation: Horizontal, AnchorXCm: a.X, AnchorYCm: a.Y}
		l := Project(g, p, f.Scale)
		back := p.ToCm(l.Units[0].Center())
		if !geometry.Near(back.X, a.X, 1e-6) || !geometry.Near(back.Y, a.Y, 1e-6) {
			t.Errorf("anchor %+v round-trips to %+v", a, back)
		}
		if !geometry.Near(l.Anchor.X, l.Units[0].CenterX(), 1e-9) || !geometry.Near(l.Anchor.Y, l.Units[0].CenterY(), 1e-9) {
			t.Errorf("anchor pixel %+v is not the first unit center %+v", l.Anchor, l.Units[0].Center())
		}
	}
}

func TestProjectFlipsVertical(t *testing.T) {
	f := testFrame(t)
	p := f.Plates[0]
	g := Group{ID: "g", Count: 2, Orientation: Vertical, AnchorXCm: 10, AnchorYCm: 10}
	l := Project(g, p, f.Scale)
	if len(l.Units) != 2 {
		t.Fatalf("units = %d", len(l.Units))
	}
	if !(l.Units[1].MaxY < l.Units[0].MinY) {
		t.Errorf("second vertical unit should sit above the first on screen: %+v", l.Units)
	}
	wantY := p.Rect.MinY + p.Rect.Height() - 10*f.Scale
	if !geometry.Near(l.Anchor.Y, wantY, 1e-9) {
		t.Errorf("anchor y = %v, want %v", l.Anchor.Y, wantY)
	}
	seps := l.Separators()
	if len(seps) != 1 || !geometry.Near(seps[0].Height(), GapCm*f.Scale, 1e-9) {
		t.Errorf("separators = %+v", seps)
	}
}

func TestProjectHorizontal(t *testing.T) {
	f := testFrame(t)
	p := f.Plates[0]
	g := Group{ID: "g", Count: 3, Orientation: Horizontal, AnchorXCm: 10, AnchorYCm: 10}
	l := Project(g, p, f.Scale)
	for i := 1; i < len(l.Units); i++ {
		gap := l.Units[i].MinX - l.Units[i-1].MaxX
		if !geometry.Near(gap, GapCm*f.Scale, 1e-9) {
			t.Errorf("gap %d = %v px", i, gap)
		}
		if !geometry.Near(l.Units[i].Width(), SizeCm*f.Scale, 1e-9) {
			t.Errorf("unit %d width = %v", i, l.Units[i].Width())
		}
	}
	b := l.Bounds()
	if !geometry.Near(b.Width(), LengthCm(3)*f.Scale, 1e-9) {
		t.Errorf("bounds width = %v", b.Width())
	}
	if len(l.Separators()) != 2 {
		t.Errorf("separators = %d", len(l.Separators()))
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	f := testFrame(t)
	g := Group{ID: "g", Count: 4, Orientation: Vertical, AnchorXCm: 12, AnchorYCm: 6}
	a := Project(g, f.Plates[1], f.Scale)
	b := Project(g, f.Plates[1], f.Scale)
	if !reflect.DeepEqual(a, b) {
		t.Error("Project should be deterministic")
	}
}

func TestHitTest(t *testing.T) {
	f := testFrame(t)
	groups := []Group{
		{ID: "a", PlateIndex: 0, Count: 1, Orientation: Horizontal, AnchorXCm: 10, AnchorYCm: 10},
		{ID: "b", PlateIndex: 1, Count: 2, Orientation: Vertical, AnchorXCm: 20, AnchorYCm: 20},
		{ID: "orphan", PlateIndex: 7, Count: 1, Orientation: Horizontal, AnchorXCm: 10, AnchorYCm: 10},
	}
	la := Project(groups[0], f.Plates[0], f.Scale)
	lb := Project(groups[1], f.Plates[1], f.Scale)

	tests := []struct {
		name   string
		px     geometry.Point
		wantID string
	}{
		{"center of a", la.Anchor, "a"},
		{"corner of a is inclusive", geometry.Point{X: la.Units[0].MinX, Y: la.Units[0].MinY}, "a"},
		{"second unit of b", lb.Units[1].Center(), "b"},
		{"gap between units of b", lb.Separators()[0].Center(), ""},
		{"empty plate area", f.Plates[0].Rect.Center(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := HitTest(f, groups, tt.px)
			if tt.wantID == "" {
				if ok {
					t.Errorf("unexpected hit on %q", g.ID)
				}
				return
			}
			if !ok || g.ID != tt.wantID {
				t.Errorf("HitTest = %q, %v; want %q", g.ID, ok, tt.wantID)
			}
		})
	}

	if got := ProjectAll(f, groups); len(got) != 2 {
		t.Errorf("ProjectAll should skip groups on missing plates, got %d", len(got))
	}
}
