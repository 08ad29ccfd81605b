package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
)

type testEnv struct {
	cli    *CLI
	repo   *store.Memory
	out    *bytes.Buffer
	dir    string
	config string
}

// newTestEnv wires a CLI to an in-memory store holding one 100×50 plate and a
// config file that keeps the render cache inside a temp dir.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "[store]\nbackend = \"memory\"\n\n[cache]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := store.NewMemory()
	if err := repo.SaveDimensions(context.Background(), []plate.Dimension{{WidthCm: 100, HeightCm: 50}}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	prevOut, prevErr := stdout, stderr
	stdout, stderr = &out, io.Discard
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })

	c := New(io.Discard, LogInfo)
	c.openStore = func(context.Context) (store.Repository, error) { return repo, nil }
	return &testEnv{cli: c, repo: repo, out: &out, dir: dir, config: cfgPath}
}

func (e *testEnv) run(args ...string) error {
	e.out.Reset()
	root := e.cli.RootCommand()
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	if err := e.run(args...); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return e.out.String()
}

func (e *testEnv) groups(t *testing.T) []socket.Group {
	t.Helper()
	groups, err := e.repo.LoadGroups(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return groups
}

func (e *testEnv) project(t *testing.T) *project.Project {
	t.Helper()
	p, err := store.LoadProject(context.Background(), e.repo)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPlateCommands(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun(t, "plate", "list")
	if !strings.Contains(out, "100 × 50 cm") {
		t.Errorf("plate list = %q", out)
	}

	e.mustRun(t, "plate", "add", " 120.5cm", "60")
	p := e.project(t)
	if len(p.Plates) != 2 || p.Plates[1] != (plate.Raw{Width: "120.5", Height: "60"}) {
		t.Fatalf("plates = %+v", p.Plates)
	}
	if p.ActiveIndex != 1 {
		t.Errorf("active = %d, want the new plate", p.ActiveIndex)
	}

	e.mustRun(t, "plate", "use", "1")
	if got := e.project(t).ActiveIndex; got != 0 {
		t.Errorf("active after use = %d, want 0", got)
	}

	e.mustRun(t, "plate", "set", "2", "80", "40")
	if got := e.project(t).Plates[1]; got != (plate.Raw{Width: "80", Height: "40"}) {
		t.Errorf("plate 2 = %+v", got)
	}

	e.mustRun(t, "plate", "rm", "2")
	if got := len(e.project(t).Plates); got != 1 {
		t.Errorf("plates after rm = %d, want 1", got)
	}
}

func TestPlateInputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"too narrow", []string{"plate", "add", "10", "50"}, errors.ErrCodeInvalidDimension},
		{"too tall", []string{"plate", "add", "100", "200"}, errors.ErrCodeInvalidDimension},
		{"not a number", []string{"plate", "add", "abc", "50"}, errors.ErrCodeInvalidDimension},
		{"unknown plate", []string{"plate", "set", "3", "100", "50"}, errors.ErrCodeNotFound},
		{"last plate", []string{"plate", "rm", "1"}, errors.ErrCodeInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			err := e.run(tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPlateAddClamp(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun(t, "plate", "add", "--clamp", "10", "500")
	if !strings.Contains(out, "width clamped to 20cm") || !strings.Contains(out, "height clamped to 128cm") {
		t.Errorf("output = %q, want clamp warnings", out)
	}
	if got := e.project(t).Plates[1]; got != (plate.Raw{Width: "20", Height: "128"}) {
		t.Errorf("clamped plate = %+v", got)
	}
}

func TestPlateRemoveDropsGroups(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "plate", "add", "100", "50")
	e.mustRun(t, "socket", "add", "--plate", "1", "--x", "20", "--y", "20")
	e.mustRun(t, "socket", "add", "--plate", "2", "--x", "20", "--y", "20")

	e.mustRun(t, "plate", "rm", "1")
	groups := e.groups(t)
	if len(groups) != 1 || groups[0].PlateIndex != 0 {
		t.Errorf("groups after rm = %+v, want the second plate's group shifted to index 0", groups)
	}
}

func TestSocketAdd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code // empty for success
	}{
		{"valid", []string{"--x", "20", "--y", "20", "-n", "2"}, ""},
		{"vertical", []string{"--x", "20", "--y", "10", "-o", "vertical", "-n", "3"}, ""},
		{"left edge", []string{"--x", "2", "--y", "20"}, errors.ErrCodePlacement},
		{"top edge", []string{"--x", "20", "--y", "45"}, errors.ErrCodePlacement},
		{"count too high", []string{"--x", "20", "--y", "20", "-n", "6"}, errors.ErrCodeInvalidSocket},
		{"bad orientation", []string{"--x", "20", "--y", "20", "-o", "diagonal"}, errors.ErrCodeInvalidSocket},
		{"missing plate", []string{"--plate", "4"}, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			err := e.run(append([]string{"socket", "add"}, tt.args...)...)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got := len(e.groups(t)); got != 1 {
					t.Errorf("groups = %d, want 1", got)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
			if got := len(e.groups(t)); got != 0 {
				t.Errorf("rejected add stored %d group(s)", got)
			}
		})
	}
}

func TestSocketAddRespectsNeighbours(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "socket", "add", "--x", "20", "--y", "20", "-n", "2")

	err := e.run("socket", "add", "--x", "35", "--y", "20")
	if !errors.Is(err, errors.ErrCodePlacement) {
		t.Fatalf("error = %v, want placement violation", err)
	}
	if !strings.Contains(errors.UserMessage(err), "4.0cm") {
		t.Errorf("message = %q, want the inter-group clearance", errors.UserMessage(err))
	}

	// 31 cm (right edge of the pair) + 4 cm clearance + 3.5 cm half unit.
	e.mustRun(t, "socket", "add", "--x", "38.5", "--y", "20")
	if got := len(e.groups(t)); got != 2 {
		t.Errorf("groups = %d, want 2", got)
	}
}

func TestSocketMoveAndRemove(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "socket", "add", "--x", "20", "--y", "20")
	id := e.groups(t)[0].ID

	e.mustRun(t, "socket", "move", id, "--x", "60")
	g := e.groups(t)[0]
	if g.AnchorXCm != 60 || g.AnchorYCm != 20 {
		t.Errorf("anchor = (%v,%v), want (60,20)", g.AnchorXCm, g.AnchorYCm)
	}

	if err := e.run("socket", "move", id, "--x", "98"); !errors.Is(err, errors.ErrCodePlacement) {
		t.Errorf("move off the plate: error = %v", err)
	}
	if g := e.groups(t)[0]; g.AnchorXCm != 60 {
		t.Errorf("rejected move changed anchor to %v", g.AnchorXCm)
	}

	if err := e.run("socket", "rm", "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("rm unknown: error = %v", err)
	}
	e.mustRun(t, "socket", "rm", id)
	if got := len(e.groups(t)); got != 0 {
		t.Errorf("groups after rm = %d", got)
	}
}

func TestSocketList(t *testing.T) {
	e := newTestEnv(t)
	if out := e.mustRun(t, "socket", "list"); !strings.Contains(out, "No socket groups") {
		t.Errorf("empty list = %q", out)
	}
	e.mustRun(t, "socket", "add", "--x", "20", "--y", "20")
	if out := e.mustRun(t, "socket", "list"); !strings.Contains(out, "L: 20.0cm B: 20.0cm") {
		t.Errorf("list = %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "socket", "add", "--x", "20", "--y", "20")
	if out := e.mustRun(t, "validate"); !strings.Contains(out, "all valid") {
		t.Errorf("validate = %q", out)
	}

	bad := append(e.groups(t), socket.Group{ID: "edge", Count: 1, Orientation: socket.Horizontal, AnchorXCm: 1, AnchorYCm: 20})
	if err := e.repo.SaveGroups(context.Background(), bad); err != nil {
		t.Fatal(err)
	}
	err := e.run("validate")
	if !errors.Is(err, errors.ErrCodePlacement) {
		t.Fatalf("error = %v, want placement violation", err)
	}
	if !strings.Contains(e.out.String(), "group edge") {
		t.Errorf("output = %q, want the offending group", e.out.String())
	}
}

func TestQuoteJSON(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "socket", "add", "--x", "20", "--y", "20", "-n", "2")
	e.mustRun(t, "socket", "add", "--x", "60", "--y", "20")

	var q project.Quote
	if err := json.Unmarshal([]byte(e.mustRun(t, "quote", "--json")), &q); err != nil {
		t.Fatal(err)
	}
	if q.Units != 3 || q.Total != 60 {
		t.Errorf("quote = %d units, %v total; want 3, 60", q.Units, q.Total)
	}
}

func TestLayoutJSON(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun(t, "layout", "--json", "--width", "580", "--height", "330")

	var scene struct {
		Scale  float64 `json:"scale"`
		Plates []struct {
			Label string `json:"label"`
		} `json:"plates"`
	}
	if err := json.Unmarshal([]byte(out), &scene); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if scene.Scale != 5 || len(scene.Plates) != 1 {
		t.Errorf("scene = %+v, want one plate at 5 px/cm", scene)
	}
}

func TestLayoutDegenerate(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun(t, "layout", "--width", "60", "--height", "60")
	if !strings.Contains(out, "Nothing to lay out") {
		t.Errorf("output = %q", out)
	}
}

func TestRenderSVGUsesCache(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "socket", "add", "--x", "20", "--y", "20")
	path := filepath.Join(e.dir, "out.svg")

	if out := e.mustRun(t, "render", "-o", path); !strings.Contains(out, "fresh") {
		t.Errorf("first render = %q, want fresh", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("<svg")) {
		t.Errorf("output does not start with <svg: %.40q", data)
	}

	if out := e.mustRun(t, "render", "-o", path); !strings.Contains(out, "cached") {
		t.Errorf("second render = %q, want cached", out)
	}
	if out := e.mustRun(t, "render", "-o", path, "--no-cache"); !strings.Contains(out, "fresh") {
		t.Errorf("--no-cache render = %q, want fresh", out)
	}
}

func TestRenderJSONToStdout(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun(t, "render", "-f", "json", "-o", "-", "--no-cache")
	if !json.Valid([]byte(out)) {
		t.Errorf("stdout is not JSON: %.60q", out)
	}
}

func TestRenderErrors(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run("render", "-f", "gif"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("gif: error = %v", err)
	}
	if err := e.run("render", "--width", "10", "--height", "10", "-o", "-"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("tiny canvas: error = %v", err)
	}
}

func TestExportImport(t *testing.T) {
	for _, ext := range []string{".json", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			e := newTestEnv(t)
			e.mustRun(t, "plate", "add", "80", "40")
			e.mustRun(t, "socket", "add", "--plate", "1", "--x", "20", "--y", "20", "-n", "3")
			path := filepath.Join(e.dir, "project"+ext)
			e.mustRun(t, "export", path)
			want := e.project(t)

			other := newTestEnv(t)
			other.mustRun(t, "import", path)
			got := other.project(t)
			if len(got.Plates) != 2 || got.Plates[1] != want.Plates[1] {
				t.Errorf("plates = %+v, want %+v", got.Plates, want.Plates)
			}
			if len(got.Sockets) != 1 || got.Sockets[0] != want.Sockets[0] {
				t.Errorf("sockets = %+v, want %+v", got.Sockets, want.Sockets)
			}
			if got.ActiveIndex != want.ActiveIndex {
				t.Errorf("active = %d, want %d", got.ActiveIndex, want.ActiveIndex)
			}
		})
	}
}

func TestImportRejectsViolations(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(e.dir, "bad.json")
	p := &project.Project{
		Plates:  []plate.Raw{{Width: "100", Height: "50"}},
		Sockets: []socket.Group{{ID: "g1", Count: 1, Orientation: socket.Horizontal, AnchorXCm: 1, AnchorYCm: 20}},
	}
	if err := project.Export(p, path); err != nil {
		t.Fatal(err)
	}

	if err := e.run("import", path); !errors.Is(err, errors.ErrCodePlacement) {
		t.Errorf("import: error = %v, want PLACEMENT_VIOLATION", err)
	}
	if got := len(e.groups(t)); got != 0 {
		t.Errorf("rejected import stored %d group(s)", got)
	}

	out := e.mustRun(t, "import", "--force", path)
	if !strings.Contains(out, "group g1") {
		t.Errorf("forced import = %q, want a warning", out)
	}
	if got := len(e.groups(t)); got != 1 {
		t.Errorf("forced import stored %d group(s), want 1", got)
	}
}

func TestExportStdout(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun(t, "export", "-", "--format", "toml")
	if !strings.Contains(out, "[[plates]]") {
		t.Errorf("toml export = %q", out)
	}
	if err := e.run("export", "project.yaml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("yaml export: error = %v", err)
	}
}

func TestCachePathAndClear(t *testing.T) {
	e := newTestEnv(t)
	want := filepath.Join(e.dir, "cache")
	if out := strings.TrimSpace(e.mustRun(t, "cache", "path")); out != filepath.ToSlash(want) && out != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	e.mustRun(t, "render", "-o", filepath.Join(e.dir, "a.svg"))
	if out := e.mustRun(t, "cache", "clear"); !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("clear = %q", out)
	}
	if out := e.mustRun(t, "cache", "clear"); !strings.Contains(out, "Cache is empty") {
		t.Errorf("second clear = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	e := newTestEnv(t)
	if out := e.mustRun(t, "completion", "bash"); !strings.Contains(out, "platecut") {
		t.Errorf("bash completion missing program name")
	}
	if err := e.run("completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestMissingConfigFile(t *testing.T) {
	e := newTestEnv(t)
	e.config = filepath.Join(e.dir, "missing.toml")
	if err := e.run("plate", "list"); err == nil {
		t.Error("missing --config file should fail")
	}
}
