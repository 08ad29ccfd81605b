package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/platecut/pkg/geometry"
)

// pointsPerInch converts scene pixels (treated as points) to Graphviz inches.
const pointsPerInch = 72.0

// ToDOT converts s into a neato graph whose nodes are pinned at their scene
// positions. Graphviz measures Y upward, so every Y is flipped against the
// scene height.
func ToDOT(s Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  outputorder=nodesfirst;\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%.2f,%.2f\";\n", s.Width, s.Height)
	buf.WriteString("  node [fixedsize=true, fontname=\"Helvetica\", fontsize=10];\n\n")

	for _, p := range s.Plates {
		style := "filled"
		if p.Active {
			style = "filled,bold"
		}
		fmt.Fprintf(&buf, "  %q [shape=box, style=%q, fillcolor=%q, label=%q, %s];\n",
			fmt.Sprintf("plate-%d", p.Index), style, DefaultTheme.Plate,
			p.Label+"\n"+p.Size, pinned(p.Rect, s.Height))
	}
	buf.WriteString("\n")
	for _, g := range s.Groups {
		fill := DefaultTheme.Socket
		if g.Active {
			fill = DefaultTheme.SocketDrag
		}
		for i, u := range g.Units {
			fmt.Fprintf(&buf, "  %q [shape=circle, style=filled, fillcolor=%q, label=\"\", %s];\n",
				fmt.Sprintf("%s-%d", g.ID, i), fill, pinned(u, s.Height))
		}
	}
	for i, h := range s.Helpers {
		from, to := fmt.Sprintf("helper-%d-a", i), fmt.Sprintf("helper-%d-b", i)
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.01, %s];\n", from, pos(h.From, s.Height))
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.01, %s];\n", to, pos(h.To, s.Height))
		fmt.Fprintf(&buf, "  %q -- %q [style=dashed, color=%q, label=%q, fontsize=9];\n",
			from, to, DefaultTheme.Helper, h.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pinned(r geometry.Rect, height float64) string {
	return fmt.Sprintf("width=%.4f, height=%.4f, %s",
		r.Width()/pointsPerInch, r.Height()/pointsPerInch, pos(r.Center(), height))
}

func pos(p geometry.Point, height float64) string {
	return fmt.Sprintf("pos=\"%.2f,%.2f!\"", p.X, height-p.Y)
}

// PNG rasterizes s with Graphviz.
func PNG(ctx context.Context, s Scene) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ToDOT(s)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
