package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
)

// Memory keeps everything in process. Dimensions are held in their string
// form so it behaves like the persistent backends.
type Memory struct {
	mu     sync.RWMutex
	plates []plate.Raw
	groups []socket.Group
	active int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) LoadDimensions(ctx context.Context) ([]plate.Dimension, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return DecodeDimensions(m.plates), nil
}

func (m *Memory) SaveDimensions(ctx context.Context, dims []plate.Dimension) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plates = EncodeDimensions(dims)
	return nil
}

// SaveRaw stores dimension strings verbatim.
func (m *Memory) SaveRaw(raws []plate.Raw) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plates = slices.Clone(raws)
}

func (m *Memory) LoadGroups(ctx context.Context) ([]socket.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.groups), nil
}

func (m *Memory) SaveGroups(ctx context.Context, groups []socket.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = slices.Clone(groups)
	return nil
}

func (m *Memory) LoadActiveIndex(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active, nil
}

func (m *Memory) SaveActiveIndex(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = index
	return nil
}

func (m *Memory) Close() error { return nil }

var _ Repository = (*Memory)(nil)
