// Package pipeline runs the layout → scene → render stages for a project.
//
// The CLI render and layout commands and the HTTP API share a [Runner] so
// that viewport defaults, focus handling and render caching behave the same
// everywhere:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), logger)
//	res, err := runner.Execute(ctx, p, pipeline.Options{
//		Viewport: layout.Viewport{Width: 1200, Height: 600},
//		Format:   render.FormatSVG,
//	})
package pipeline

import (
	"time"

	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/render"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Options selects what a pipeline run lays out and renders.
type Options struct {
	Viewport layout.Viewport
	Layout   []layout.Option

	// Focus is a 1-based plate index; 0 lays out every plate.
	Focus       int
	ActiveGroup string

	Format    render.Format
	NoLabels  bool
	NoHelpers bool

	// Refresh skips the cache lookup but still stores the new artifact.
	Refresh bool
}

func (o Options) layoutOptions() []layout.Option {
	opts := append([]layout.Option(nil), o.Layout...)
	if o.Focus > 0 {
		opts = append(opts, layout.WithFocus(o.Focus-1))
	}
	return opts
}

func (o Options) svgOptions() []render.SVGOption {
	var opts []render.SVGOption
	if o.NoLabels {
		opts = append(opts, render.WithoutLabels())
	}
	if o.NoHelpers {
		opts = append(opts, render.WithoutHelpers())
	}
	return opts
}

// Result is the output of a full pipeline run.
type Result struct {
	Scene    render.Scene
	Artifact []byte
	CacheHit bool
	Stats    Stats
}

// Stats holds stage timings.
type Stats struct {
	Plates     int
	Groups     int
	LayoutTime time.Duration
	RenderTime time.Duration
}
