package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/platecut/pkg/observability"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
	"github.com/matzehuels/platecut/pkg/store/storetest"
)

func TestMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository { return store.NewMemory() })
}

func TestFileStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository {
		s, err := store.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		return s
	})
}

func TestMemoryUnparseableDimensions(t *testing.T) {
	m := store.NewMemory()
	m.SaveRaw([]plate.Raw{{Width: "abc", Height: "40"}, {Width: "", Height: ""}})
	dims, err := m.LoadDimensions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if dims[0] != (plate.Dimension{WidthCm: 0, HeightCm: 40}) || !dims[1].IsZero() {
		t.Errorf("dims = %+v", dims)
	}
}

func TestFileStoreUnparseableDimensions(t *testing.T) {
	dir := t.TempDir()
	doc := `[{"width": "12,5", "height": "40"}]`
	if err := os.WriteFile(filepath.Join(dir, "dimensions.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := store.NewFileStore(dir)
	dims, err := s.LoadDimensions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(dims) != 1 || dims[0].WidthCm != 0 || dims[0].HeightCm != 40 {
		t.Errorf("dims = %+v", dims)
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, _ := store.NewFileStore(dir)
	ctx := context.Background()
	_ = s.SaveDimensions(ctx, []plate.Dimension{{WidthCm: 100, HeightCm: 50}})
	_ = s.SaveGroups(ctx, nil)
	_ = s.SaveActiveIndex(ctx, 0)

	for _, name := range []string{"dimensions.json", "sockets.json", "active_index.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	data, _ := os.ReadFile(filepath.Join(dir, "dimensions.json"))
	if want := `"width": "100"`; !strings.Contains(string(data), want) {
		t.Errorf("dimensions.json should hold decimal strings, got %s", data)
	}
	if s.Path() != dir {
		t.Errorf("Path() = %q", s.Path())
	}
}

func TestFileStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "sockets.json"), []byte("{"), 0o644)
	s, _ := store.NewFileStore(dir)
	if _, err := s.LoadGroups(context.Background()); err == nil {
		t.Error("corrupt document should fail to load")
	}
}

func TestProjectRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	p := &project.Project{
		Plates:      []plate.Raw{{Width: "151.5", Height: "40"}, {Width: "80", Height: "60"}},
		Sockets:     []socket.Group{{ID: "a", PlateIndex: 1, Count: 1, Orientation: socket.Vertical, AnchorXCm: 20, AnchorYCm: 20}},
		ActiveIndex: 1,
	}
	if err := store.SaveProject(ctx, m, p); err != nil {
		t.Fatal(err)
	}
	got, err := store.LoadProject(ctx, m)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Plates) != 2 || got.Plates[1].Width != "80" || got.ActiveIndex != 1 || len(got.Sockets) != 1 {
		t.Errorf("LoadProject = %+v", got)
	}

	_ = m.SaveActiveIndex(ctx, 7)
	got, _ = store.LoadProject(ctx, m)
	if got.ActiveIndex != 0 {
		t.Errorf("out of range active index should reset to 0, got %d", got.ActiveIndex)
	}
}

type countingStoreHooks struct {
	observability.NoopStoreHooks
	loads, saves int
	backend      string
}

func (h *countingStoreHooks) OnLoad(_ context.Context, backend, _ string, _ time.Duration, _ error) {
	h.loads++
	h.backend = backend
}

func (h *countingStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error) {
	h.saves++
}

func TestInstrument(t *testing.T) {
	h := &countingStoreHooks{}
	observability.SetStoreHooks(h)
	t.Cleanup(observability.Reset)

	r := store.Instrument(store.NewMemory(), "memory")
	ctx := context.Background()
	_ = store.SaveProject(ctx, r, project.New())
	_, _ = store.LoadProject(ctx, r)

	if h.saves != 3 || h.loads != 3 || h.backend != "memory" {
		t.Errorf("hooks = %+v", h)
	}
	if err := r.Close(); err != nil {
		t.Error(err)
	}
}
