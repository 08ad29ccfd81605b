package render_test

import (
	"fmt"

	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/render"
	"github.com/matzehuels/platecut/pkg/socket"
)

func ExampleBuild() {
	plates := []plate.Dimension{{WidthCm: 100, HeightCm: 50}}
	groups := []socket.Group{{ID: "a", Count: 3, Orientation: socket.Vertical, AnchorXCm: 20, AnchorYCm: 8}}

	f, ok := layout.Compute(plates, layout.Viewport{Width: 580, Height: 330})
	if !ok {
		return
	}
	s := render.Build(f, groups, render.WithActivePlate(0), render.WithActiveGroup("a"))

	fmt.Println(s.Plates[0].Label, s.Plates[0].Size)
	fmt.Println(len(s.Groups[0].Units), "units,", len(s.Groups[0].Separators), "separators")
	for _, h := range s.Helpers {
		fmt.Printf("(%.0f,%.0f) -> (%.0f,%.0f) %s\n", h.From.X, h.From.Y, h.To.X, h.To.Y, h.Label)
	}
	// Output:
	// #1 100 × 50 cm
	// 3 units, 2 separators
	// (140,250) -> (40,250) 20.0 cm
	// (140,250) -> (140,290) 8.0 cm
}
