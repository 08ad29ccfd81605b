package render

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/observability"
)

// Format is an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatJSON, FormatPNG, FormatPDF}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported render format %q (use svg, json, png or pdf)", s)
}

// Ext is the file extension for f, dot included.
func (f Format) Ext() string { return "." + string(f) }

// ContentType is the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Render produces s in format f.
func Render(ctx context.Context, s Scene, f Format, opts ...SVGOption) ([]byte, error) {
	start := time.Now()
	var (
		out []byte
		err error
	)
	switch f {
	case FormatSVG:
		out = SVG(s, opts...)
	case FormatJSON:
		out, err = JSON(s)
	case FormatPNG:
		out, err = PNG(ctx, s)
	case FormatPDF:
		out, err = PDF(ctx, s, opts...)
	default:
		err = errors.New(errors.ErrCodeUnsupported, "unsupported render format %q", string(f))
	}
	if err != nil && errors.GetCode(err) == "" {
		err = errors.New(errors.ErrCodeInternal, "render %s: %v", f, err)
	}
	observability.Layout().OnRender(ctx, string(f), len(out), time.Since(start), err)
	return out, err
}
