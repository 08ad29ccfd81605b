// Package store persists plates, socket groups and the active plate.
//
// [Repository] is the one interface the rest of platecut depends on; the
// geometry packages never see it. Every save replaces a whole collection, so
// a reader sees either the old list or the new one.
//
// Backends:
//   - [Memory]: in-process, for tests and the API server's default
//   - [FileStore]: JSON documents under the XDG data directory
//   - sqlite, redis, mongo: subpackages wrapping their drivers
//
// Plate dimensions cross the storage boundary as decimal strings. Strings that
// do not parse load as zero-sized plates, never as errors. An empty store
// reads as the initial 151.5 × 40 cm plate with active index 0.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/platecut/pkg/observability"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/socket"
)

// Collection names, shared by every backend for keys, tables and hooks.
const (
	KindDimensions  = "dimensions"
	KindSockets     = "sockets"
	KindActiveIndex = "active_index"
)

// Repository is the persistence boundary.
type Repository interface {
	LoadDimensions(ctx context.Context) ([]plate.Dimension, error)
	SaveDimensions(ctx context.Context, dims []plate.Dimension) error
	LoadGroups(ctx context.Context) ([]socket.Group, error)
	SaveGroups(ctx context.Context, groups []socket.Group) error
	LoadActiveIndex(ctx context.Context) (int, error)
	SaveActiveIndex(ctx context.Context, index int) error
	Close() error
}

// EncodeDimensions converts dimensions to their stored string form.
func EncodeDimensions(dims []plate.Dimension) []plate.Raw {
	out := make([]plate.Raw, len(dims))
	for i, d := range dims {
		out[i] = plate.Format(d)
	}
	return out
}

// DecodeDimensions converts stored strings back into dimensions. An empty
// list decodes as the initial plate.
func DecodeDimensions(raws []plate.Raw) []plate.Dimension {
	if len(raws) == 0 {
		return []plate.Dimension{plate.Parse(plate.Initial)}
	}
	return plate.ParseAll(raws)
}

// LoadProject reads everything in r into a project.
func LoadProject(ctx context.Context, r Repository) (*project.Project, error) {
	dims, err := r.LoadDimensions(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := r.LoadGroups(ctx)
	if err != nil {
		return nil, err
	}
	active, err := r.LoadActiveIndex(ctx)
	if err != nil {
		return nil, err
	}
	if active < 0 || active >= len(dims) {
		active = 0
	}
	if groups == nil {
		groups = []socket.Group{}
	}
	return &project.Project{Plates: EncodeDimensions(dims), Sockets: groups, ActiveIndex: active}, nil
}

// SaveProject writes every collection of p to r.
func SaveProject(ctx context.Context, r Repository, p *project.Project) error {
	if err := r.SaveDimensions(ctx, p.Dimensions()); err != nil {
		return err
	}
	if err := r.SaveGroups(ctx, p.Sockets); err != nil {
		return err
	}
	return r.SaveActiveIndex(ctx, p.ActiveIndex)
}

// Instrument wraps r so every call reports to observability.Store() under the
// given backend name.
func Instrument(r Repository, backend string) Repository {
	return &instrumented{next: r, backend: backend}
}

type instrumented struct {
	next    Repository
	backend string
}

func (s *instrumented) LoadDimensions(ctx context.Context) ([]plate.Dimension, error) {
	start := time.Now()
	dims, err := s.next.LoadDimensions(ctx)
	observability.Store().OnLoad(ctx, s.backend, KindDimensions, time.Since(start), err)
	return dims, err
}

func (s *instrumented) SaveDimensions(ctx context.Context, dims []plate.Dimension) error {
	start := time.Now()
	err := s.next.SaveDimensions(ctx, dims)
	observability.Store().OnSave(ctx, s.backend, KindDimensions, len(dims), time.Since(start), err)
	return err
}

func (s *instrumented) LoadGroups(ctx context.Context) ([]socket.Group, error) {
	start := time.Now()
	groups, err := s.next.LoadGroups(ctx)
	observability.Store().OnLoad(ctx, s.backend, KindSockets, time.Since(start), err)
	return groups, err
}

func (s *instrumented) SaveGroups(ctx context.Context, groups []socket.Group) error {
	start := time.Now()
	err := s.next.SaveGroups(ctx, groups)
	observability.Store().OnSave(ctx, s.backend, KindSockets, len(groups), time.Since(start), err)
	return err
}

func (s *instrumented) LoadActiveIndex(ctx context.Context) (int, error) {
	start := time.Now()
	idx, err := s.next.LoadActiveIndex(ctx)
	observability.Store().OnLoad(ctx, s.backend, KindActiveIndex, time.Since(start), err)
	return idx, err
}

func (s *instrumented) SaveActiveIndex(ctx context.Context, index int) error {
	start := time.Now()
	err := s.next.SaveActiveIndex(ctx, index)
	observability.Store().OnSave(ctx, s.backend, KindActiveIndex, 1, time.Since(start), err)
	return err
}

func (s *instrumented) Close() error { return s.next.Close() }
