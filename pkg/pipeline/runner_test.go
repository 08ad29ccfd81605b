package pipeline

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/render"
	"github.com/matzehuels/platecut/pkg/socket"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func testProject() *project.Project {
	return &project.Project{
		Plates: []plate.Raw{{Width: "100", Height: "50"}, {Width: "60", Height: "40"}},
		Sockets: []socket.Group{
			{ID: "g1", Count: 2, Orientation: socket.Horizontal, AnchorXCm: 20, AnchorYCm: 20},
		},
	}
}

var testOpts = Options{
	Viewport: layout.Viewport{Width: 580, Height: 330},
	Format:   render.FormatSVG,
}

func TestScene(t *testing.T) {
	r := NewRunner(nil, nil)

	sc, ok := r.Scene(testProject(), testOpts)
	if !ok {
		t.Fatal("expected a layout")
	}
	if len(sc.Plates) != 2 {
		t.Errorf("plates = %d, want 2", len(sc.Plates))
	}

	focused := testOpts
	focused.Focus = 1
	sc, ok = r.Scene(testProject(), focused)
	if !ok || len(sc.Plates) != 1 {
		t.Fatalf("focused scene: ok = %v, plates = %d; want 1 plate", ok, len(sc.Plates))
	}
	if sc.Scale != 5 {
		t.Errorf("focused scale = %v, want 5", sc.Scale)
	}

	tiny := testOpts
	tiny.Viewport = layout.Viewport{Width: 10, Height: 10}
	if _, ok := r.Scene(testProject(), tiny); ok {
		t.Error("tiny viewport should be degenerate")
	}
}

func TestExecuteCaches(t *testing.T) {
	ch := newMemCache()
	r := NewRunner(ch, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, testProject(), testOpts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss the cache")
	}
	if !bytes.HasPrefix(first.Artifact, []byte("<svg")) {
		t.Errorf("artifact is not SVG: %.60s", first.Artifact)
	}
	if first.Stats.Plates != 2 || first.Stats.Groups != 1 {
		t.Errorf("stats = %+v", first.Stats)
	}

	second, err := r.Execute(ctx, testProject(), testOpts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || !bytes.Equal(second.Artifact, first.Artifact) {
		t.Error("second run should be served from the cache")
	}

	refresh := testOpts
	refresh.Refresh = true
	third, err := r.Execute(ctx, testProject(), refresh)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache lookup")
	}
	if ch.sets != 2 {
		t.Errorf("cache writes = %d, want 2", ch.sets)
	}
}

func TestExecuteKeyVariesWithOptions(t *testing.T) {
	ch := newMemCache()
	r := NewRunner(ch, nil)
	ctx := context.Background()

	variants := []Options{testOpts}
	for _, mod := range []func(*Options){
		func(o *Options) { o.Format = render.FormatJSON },
		func(o *Options) { o.NoLabels = true },
		func(o *Options) { o.NoHelpers = true },
		func(o *Options) { o.ActiveGroup = "g1" },
		func(o *Options) { o.Focus = 2 },
		func(o *Options) { o.Viewport.Width = 800 },
	} {
		o := testOpts
		mod(&o)
		variants = append(variants, o)
	}

	for _, o := range variants {
		res, err := r.Execute(ctx, testProject(), o)
		if err != nil {
			t.Fatalf("Execute(%+v): %v", o, err)
		}
		if res.CacheHit {
			t.Errorf("options %+v hit an entry written for different options", o)
		}
	}
	if len(ch.data) != len(variants) {
		t.Errorf("cache entries = %d, want %d", len(ch.data), len(variants))
	}
}

func TestExecuteDegenerate(t *testing.T) {
	r := NewRunner(nil, nil)
	o := testOpts
	o.Viewport = layout.Viewport{Width: 50, Height: 50}

	_, err := r.Execute(context.Background(), testProject(), o)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestOnRenderRunsOnMissOnly(t *testing.T) {
	r := NewRunner(newMemCache(), nil)
	var started, finished int
	r.OnRender = func(f render.Format) func() {
		started++
		return func() { finished++ }
	}

	for range 2 {
		if _, err := r.Execute(context.Background(), testProject(), testOpts); err != nil {
			t.Fatal(err)
		}
	}
	if started != 1 || finished != 1 {
		t.Errorf("OnRender started %d, finished %d; want 1 and 1", started, finished)
	}
}
