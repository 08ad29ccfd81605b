package render

import (
	"bytes"
	"fmt"
	"html"
)

// Theme holds the colors used by SVG.
type Theme struct {
	Background  string
	Plate       string
	PlateActive string
	Stroke      string
	Socket      string
	SocketDrag  string
	Separator   string
	Helper      string
	Text        string
}

// DefaultTheme matches the editor's palette.
var DefaultTheme = Theme{
	Background:  "#f7f7f5",
	Plate:       "#d9d4cc",
	PlateActive: "#c8bfb2",
	Stroke:      "#4a4540",
	Socket:      "#2f6f8f",
	SocketDrag:  "#e0783e",
	Separator:   "#ffffff",
	Helper:      "#b03030",
	Text:        "#222222",
}

// SVGOption configures SVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme   Theme
	labels  bool
	helpers bool
}

// WithTheme overrides the color theme.
func WithTheme(t Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithoutLabels drops plate labels and position labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithoutHelpers drops the helper lines of the active group.
func WithoutHelpers() SVGOption { return func(r *svgRenderer) { r.helpers = false } }

// SVG renders s as a standalone SVG document.
func SVG(s Scene, opts ...SVGOption) []byte {
	r := svgRenderer{theme: DefaultTheme, labels: true, helpers: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)

	for _, p := range s.Plates {
		r.renderPlate(&buf, p)
	}
	for _, g := range s.Groups {
		r.renderGroup(&buf, g)
	}
	if r.helpers {
		for _, h := range s.Helpers {
			r.renderHelper(&buf, h)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderPlate(buf *bytes.Buffer, p ScenePlate) {
	fill := r.theme.Plate
	width := 1.5
	if p.Active {
		fill, width = r.theme.PlateActive, 3
	}
	fmt.Fprintf(buf, `  <rect id="plate-%d" class="plate" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		p.Index, p.Rect.MinX, p.Rect.MinY, p.Rect.Width(), p.Rect.Height(), fill, r.theme.Stroke, width)
	if !r.labels {
		return
	}
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="12" fill="%s">%s</text>`+"\n",
		p.Rect.MinX+6, p.Rect.MinY+16, r.theme.Text, html.EscapeString(p.Label))
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="12" text-anchor="middle" fill="%s">%s</text>`+"\n",
		p.Rect.CenterX(), p.Rect.MaxY+14, r.theme.Text, html.EscapeString(p.Size))
}

func (r *svgRenderer) renderGroup(buf *bytes.Buffer, g SceneGroup) {
	fill := r.theme.Socket
	if g.Active {
		fill = r.theme.SocketDrag
	}
	fmt.Fprintf(buf, `  <g id="group-%s" class="socket-group">`+"\n", html.EscapeString(g.ID))
	for _, u := range g.Units {
		rad := u.Width() / 2
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			u.CenterX(), u.CenterY(), rad, fill, r.theme.Stroke)
	}
	for _, sep := range g.Separators {
		// a dashed line through the middle of the gap, across the units
		if sep.Width() < sep.Height() {
			fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-dasharray="3,3"/>`+"\n",
				sep.CenterX(), sep.MinY, sep.CenterX(), sep.MaxY, r.theme.Separator)
		} else {
			fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-dasharray="3,3"/>`+"\n",
				sep.MinX, sep.CenterY(), sep.MaxX, sep.CenterY(), r.theme.Separator)
		}
	}
	if r.labels && g.Active {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="11" fill="%s">%s</text>`+"\n",
			g.Anchor.X, g.Anchor.Y-6-unitRadius(g), r.theme.Text, html.EscapeString(g.Position))
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderHelper(buf *bytes.Buffer, h HelperLine) {
	fmt.Fprintf(buf, `  <line class="helper" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-dasharray="4,2"/>`+"\n",
		h.From.X, h.From.Y, h.To.X, h.To.Y, r.theme.Helper)
	if !r.labels {
		return
	}
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="10" text-anchor="middle" fill="%s">%s</text>`+"\n",
		(h.From.X+h.To.X)/2+4, (h.From.Y+h.To.Y)/2-4, r.theme.Helper, html.EscapeString(h.Label))
}

func unitRadius(g SceneGroup) float64 {
	if len(g.Units) == 0 {
		return 0
	}
	return g.Units[0].Width() / 2
}
