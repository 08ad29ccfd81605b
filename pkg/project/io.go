package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
)

// Format is a project file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext, err := errors.ValidateProjectPath(path)
	if err != nil {
		return "", err
	}
	if ext == ".toml" {
		return FormatTOML, nil
	}
	return FormatJSON, nil
}

type document struct {
	Plates      []plate.Raw `json:"plates" toml:"plates"`
	Sockets     []Record    `json:"sockets" toml:"sockets"`
	ActiveIndex int         `json:"active_index" toml:"active_index"`
}

// Read decodes a project from r. Legacy socket records are normalized, an
// empty plate list is replaced with the initial plate, and an out-of-range
// active index is reset to 0.
func Read(r io.Reader, format Format) (*Project, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported project format %q", format)
	}

	p := &Project{Plates: doc.Plates, Sockets: make([]socket.Group, 0, len(doc.Sockets)), ActiveIndex: doc.ActiveIndex}
	if len(p.Plates) == 0 {
		p.Plates = []plate.Raw{plate.Initial}
	}
	if p.ActiveIndex < 0 || p.ActiveIndex >= len(p.Plates) {
		p.ActiveIndex = 0
	}
	for _, rec := range doc.Sockets {
		p.Sockets = append(p.Sockets, NormalizeLegacy(rec))
	}
	return p, nil
}

// Write encodes p to w.
func Write(p *Project, w io.Writer, format Format) error {
	doc := document{Plates: p.Plates, Sockets: make([]Record, len(p.Sockets)), ActiveIndex: p.ActiveIndex}
	for i, g := range p.Sockets {
		doc.Sockets[i] = recordOf(g)
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported project format %q", format)
	}
	return nil
}

// Import reads a project file, choosing the format from its extension.
func Import(path string) (*Project, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Export writes p to path, choosing the format from its extension.
func Export(p *Project, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(p, f, format)
}
