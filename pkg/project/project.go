package project

import (
	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
)

// Project is a complete configuration.
type Project struct {
	Plates      []plate.Raw    `json:"plates" toml:"plates"`
	Sockets     []socket.Group `json:"sockets" toml:"sockets"`
	ActiveIndex int            `json:"active_index" toml:"active_index"`
}

// New returns a project holding only the initial plate.
func New() *Project {
	return &Project{Plates: []plate.Raw{plate.Initial}, Sockets: []socket.Group{}}
}

// Dimensions parses the plate list.
func (p *Project) Dimensions() []plate.Dimension { return plate.ParseAll(p.Plates) }

// Validate checks the project's structure: at least one plate, well-formed
// groups with unique ids, and group plate indices that exist. It does not
// run placement validation.
func (p *Project) Validate() error {
	if err := plate.ValidateCount(len(p.Plates)); err != nil {
		return err
	}
	if p.ActiveIndex < 0 || p.ActiveIndex >= len(p.Plates) {
		return errors.New(errors.ErrCodeInvalidInput, "active index %d out of range (have %d plates)", p.ActiveIndex, len(p.Plates))
	}
	seen := make(map[string]bool, len(p.Sockets))
	for _, g := range p.Sockets {
		if err := g.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSocket, err, "socket group %q", g.ID)
		}
		if seen[g.ID] {
			return errors.New(errors.ErrCodeInvalidSocket, "duplicate socket group id %q", g.ID)
		}
		seen[g.ID] = true
		if g.PlateIndex >= len(p.Plates) {
			return errors.New(errors.ErrCodeInvalidSocket, "socket group %q references plate #%d, but there are only %d", g.ID, g.PlateIndex+1, len(p.Plates))
		}
	}
	return nil
}
