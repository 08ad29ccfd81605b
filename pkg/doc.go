// Package pkg provides the core libraries of platecut, a configurator for
// rectangular plates with cut-outs for rows of wall sockets.
//
// # Overview
//
// A project is a row of plates (width × height in centimetres) plus socket
// groups anchored on them. The pkg directory is organized into four areas:
//
//  1. Domain - [plate], [socket], [geometry] and [placement] describe the
//     plates, the socket groups and the rules that keep them apart.
//  2. Presentation - [layout] fits plates into a pixel viewport, [render]
//     turns the result into SVG, PNG, PDF or JSON, and [interact] drives
//     selection and drag-and-drop on top of it.
//  3. Orchestration - [pipeline] runs layout → scene → render with caching
//     for both the CLI and the HTTP API.
//  4. Infrastructure - [store] persists projects (file, SQLite, Redis,
//     MongoDB), [cache] keeps rendered artifacts, [project] handles quotes
//     and import/export, and [errors], [observability] and [buildinfo] are
//     shared by everything else.
//
// # Data Flow
//
//	plate sizes + socket groups
//	         ↓
//	    [placement] (edge and group clearance)
//	         ↓
//	    [layout] (cm → px for the viewport)
//	         ↓
//	    [render] (scene → SVG/PNG/PDF/JSON)
//
// # Quick Start
//
//	dims := []plate.Dimension{{WidthCm: 100, HeightCm: 50}}
//	g := socket.Group{ID: "g1", Count: 2, Orientation: socket.Horizontal, AnchorXCm: 20, AnchorYCm: 20}
//
//	f, ok := layout.Compute(dims, layout.Viewport{Width: 1200, Height: 600})
//	if !ok {
//	    return // viewport too small
//	}
//	svg := render.SVG(render.Build(f, []socket.Group{g}))
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/render
//
// [plate]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/plate
// [socket]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/socket
// [geometry]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/geometry
// [placement]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/placement
// [layout]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/render
// [interact]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/interact
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/cache
// [project]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/project
// [errors]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/platecut/pkg/buildinfo
package pkg
