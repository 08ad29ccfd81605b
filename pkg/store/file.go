package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"

	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
)

// FileStore keeps each collection in its own JSON document.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDir returns the XDG data directory used when no path is configured.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "platecut")
}

// NewFileStore creates a file-based store rooted at baseDir.
// If baseDir is empty, defaults to $XDG_DATA_HOME/platecut.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = DefaultDir()
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) path(kind string) string {
	return filepath.Join(s.baseDir, kind+".json")
}

// read decodes a document; a missing file leaves v untouched.
func (s *FileStore) read(kind string, v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", kind, err)
	}
	return nil
}

// write replaces a document atomically via rename.
func (s *FileStore) write(kind string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	tmp, err := os.CreateTemp(s.baseDir, kind+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", kind, err)
	}
	if err := os.Rename(tmp.Name(), s.path(kind)); err != nil {
		return fmt.Errorf("replace %s: %w", kind, err)
	}
	return nil
}

func (s *FileStore) LoadDimensions(ctx context.Context) ([]plate.Dimension, error) {
	var raws []plate.Raw
	if err := s.read(KindDimensions, &raws); err != nil {
		return nil, err
	}
	return DecodeDimensions(raws), nil
}

func (s *FileStore) SaveDimensions(ctx context.Context, dims []plate.Dimension) error {
	return s.write(KindDimensions, EncodeDimensions(dims))
}

func (s *FileStore) LoadGroups(ctx context.Context) ([]socket.Group, error) {
	var groups []socket.Group
	if err := s.read(KindSockets, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *FileStore) SaveGroups(ctx context.Context, groups []socket.Group) error {
	if groups == nil {
		groups = []socket.Group{}
	}
	return s.write(KindSockets, groups)
}

func (s *FileStore) LoadActiveIndex(ctx context.Context) (int, error) {
	var idx int
	if err := s.read(KindActiveIndex, &idx); err != nil {
		return 0, err
	}
	return idx, nil
}

func (s *FileStore) SaveActiveIndex(ctx context.Context, index int) error {
	return s.write(KindActiveIndex, index)
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for store files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Repository = (*FileStore)(nil)
