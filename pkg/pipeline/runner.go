package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/platecut/pkg/cache"
	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/render"
)

// Runner executes pipeline stages with render caching.
//
// A Runner holds no per-run state, so one instance can serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
	TTL    time.Duration

	// OnRender, when set, runs before a cache miss is rendered. The returned
	// func is called once rendering finishes.
	OnRender func(f render.Format) (done func())
}

// NewRunner creates a runner. A nil cache disables caching and a nil logger
// discards output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Logger: logger, TTL: DefaultTTL}
}

// Execute lays p out and renders it in opts.Format.
func (r *Runner) Execute(ctx context.Context, p *project.Project, opts Options) (*Result, error) {
	res := &Result{}

	layoutStart := time.Now()
	sc, ok := r.Scene(p, opts)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to render on a %.0f × %.0f px canvas",
			opts.Viewport.Width, opts.Viewport.Height)
	}
	res.Scene = sc
	res.Stats.LayoutTime = time.Since(layoutStart)
	res.Stats.Plates = len(sc.Plates)
	res.Stats.Groups = len(p.Sockets)

	r.Logger.Debug("computed layout",
		"plates", len(sc.Plates),
		"scale", sc.Scale,
		"duration", res.Stats.LayoutTime)

	renderStart := time.Now()
	data, hit, err := r.Render(ctx, p, sc, opts)
	if err != nil {
		return nil, err
	}
	res.Artifact = data
	res.CacheHit = hit
	res.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered",
		"format", opts.Format,
		"bytes", len(data),
		"cached", hit,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// Scene lays p out on opts.Viewport and builds the drawable scene. ok is
// false when the viewport leaves no room for the plates.
func (r *Runner) Scene(p *project.Project, opts Options) (render.Scene, bool) {
	f, ok := layout.Compute(p.Dimensions(), opts.Viewport, opts.layoutOptions()...)
	if !ok {
		return render.Scene{}, false
	}
	sceneOpts := []render.Option{render.WithActivePlate(p.ActiveIndex)}
	if opts.ActiveGroup != "" {
		sceneOpts = append(sceneOpts, render.WithActiveGroup(opts.ActiveGroup))
	}
	return render.Build(f, p.Sockets, sceneOpts...), true
}

// Render returns the artifact for sc from the cache, or renders and stores
// it. hit reports whether the cache served it.
func (r *Runner) Render(ctx context.Context, p *project.Project, sc render.Scene, opts Options) (data []byte, hit bool, err error) {
	key := cache.RenderKey(p.Dimensions(), p.Sockets, cache.RenderKeyOpts{
		Format:      string(opts.Format),
		Width:       opts.Viewport.Width,
		Height:      opts.Viewport.Height,
		ActivePlate: p.ActiveIndex,
		ActiveGroup: opts.ActiveGroup,
		Scale:       sc.Scale,
		Focus:       opts.Focus,
		NoLabels:    opts.NoLabels,
		NoHelpers:   opts.NoHelpers,
	})

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			return data, true, nil
		}
	}

	if r.OnRender != nil {
		done := r.OnRender(opts.Format)
		defer done()
	}
	data, err = render.Render(ctx, sc, opts.Format, opts.svgOptions()...)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	}
	return data, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}
