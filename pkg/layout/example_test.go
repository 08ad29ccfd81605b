package layout_test

import (
	"fmt"

	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/plate"
)

func ExampleCompute() {
	plates := []plate.Dimension{{WidthCm: 100, HeightCm: 50}, {WidthCm: 50, HeightCm: 100}}

	f, ok := layout.Compute(plates, layout.Viewport{Width: 1000, Height: 500})
	if !ok {
		return
	}

	fmt.Printf("scale: %.2f px/cm\n", f.Scale)
	for _, p := range f.Plates {
		fmt.Printf("#%d at x=%.0f w=%.0f h=%.0f\n", p.Index+1, p.Rect.MinX, p.Rect.Width(), p.Rect.Height())
	}
	// Output:
	// scale: 4.20 px/cm
	// #1 at x=40 w=420 h=210
	// #2 at x=480 w=210 h=420
}
