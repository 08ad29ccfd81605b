package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/geometry"
	"github.com/matzehuels/platecut/pkg/placement"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/socket"
)

// socketCommand creates the socket group management command.
func (c *CLI) socketCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "socket",
		Aliases: []string{"sockets"},
		Short:   "Manage socket groups",
	}

	cmd.AddCommand(c.socketListCommand())
	cmd.AddCommand(c.socketAddCommand())
	cmd.AddCommand(c.socketMoveCommand())
	cmd.AddCommand(c.socketRemoveCommand())

	return cmd
}

func (c *CLI) socketListCommand() *cobra.Command {
	var plateNum int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List socket groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), false, func(p *project.Project) error {
				groups := p.Sockets
				if plateNum > 0 {
					i, err := plateIndex(strconv.Itoa(plateNum), len(p.Plates))
					if err != nil {
						return err
					}
					groups = socket.OnPlate(groups, i)
				}
				if len(groups) == 0 {
					printInfo("No socket groups")
					return nil
				}
				rows := make([][]string, len(groups))
				for i, g := range groups {
					rows[i] = []string{
						g.ID,
						strconv.Itoa(g.PlateIndex + 1),
						strconv.Itoa(g.Count),
						string(g.Orientation),
						g.PositionLabel(),
					}
				}
				printTable([]string{"ID", "Plate", "Count", "Orientation", "Position"}, rows)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&plateNum, "plate", "p", 0, "only list groups on plate N")
	return cmd
}

func (c *CLI) socketAddCommand() *cobra.Command {
	var (
		plateNum    int
		count       int
		orientation string
		x, y        float64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Place a new socket group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := socket.ParseOrientation(orientation)
			if err != nil {
				return err
			}
			return c.withProject(cmd.Context(), true, func(p *project.Project) error {
				i := p.ActiveIndex
				if plateNum > 0 {
					if i, err = plateIndex(strconv.Itoa(plateNum), len(p.Plates)); err != nil {
						return err
					}
				}
				g := socket.Group{
					ID:          socket.NewID(),
					PlateIndex:  i,
					Count:       count,
					Orientation: o,
					AnchorXCm:   x,
					AnchorYCm:   y,
				}
				if err := g.Validate(); err != nil {
					return err
				}
				if err := c.checkPlacement(p, g); err != nil {
					return err
				}
				p.Sockets = append(p.Sockets, g)
				printSuccess("Added %d-socket group to plate %s", g.Count, plateLabel(p, i))
				printKeyValue("ID", g.ID)
				printKeyValue("Position", g.PositionLabel())
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&plateNum, "plate", "p", 0, "plate number (default: active plate)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, fmt.Sprintf("sockets in the group (%d-%d)", socket.MinCount, socket.MaxCount))
	cmd.Flags().StringVarP(&orientation, "orientation", "o", string(socket.Horizontal), "horizontal or vertical")
	cmd.Flags().Float64Var(&x, "x", 0, "anchor distance from the left edge in cm")
	cmd.Flags().Float64Var(&y, "y", 0, "anchor distance from the bottom edge in cm")
	return cmd
}

func (c *CLI) socketMoveCommand() *cobra.Command {
	var x, y float64
	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Move a socket group to a new anchor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), true, func(p *project.Project) error {
				idx := socket.Find(p.Sockets, args[0])
				if idx < 0 {
					return errors.New(errors.ErrCodeNotFound, "socket group %q not found", args[0])
				}
				g := p.Sockets[idx]
				if !cmd.Flags().Changed("x") {
					x = g.AnchorXCm
				}
				if !cmd.Flags().Changed("y") {
					y = g.AnchorYCm
				}
				moved := g.WithAnchor(geometry.Point{X: x, Y: y})
				if err := c.checkPlacement(p, moved); err != nil {
					return err
				}
				p.Sockets[idx] = moved
				printSuccess("Moved group %s to %s", moved.ID, moved.PositionLabel())
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "anchor distance from the left edge in cm")
	cmd.Flags().Float64Var(&y, "y", 0, "anchor distance from the bottom edge in cm")
	return cmd
}

func (c *CLI) socketRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a socket group",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), true, func(p *project.Project) error {
				idx := socket.Find(p.Sockets, args[0])
				if idx < 0 {
					return errors.New(errors.ErrCodeNotFound, "socket group %q not found", args[0])
				}
				p.Sockets = append(p.Sockets[:idx], p.Sockets[idx+1:]...)
				printSuccess("Removed group %s", args[0])
				return nil
			})
		},
	}
}

// checkPlacement validates g against its plate and the other groups in p.
func (c *CLI) checkPlacement(p *project.Project, g socket.Group) error {
	if g.PlateIndex >= len(p.Plates) {
		return errors.New(errors.ErrCodeNotFound, "plate %d not found", g.PlateIndex+1)
	}
	d := plate.Parse(p.Plates[g.PlateIndex]).Footprint()
	return placement.ValidateGroup(g, d.WidthCm, d.HeightCm, p.Sockets, c.cfg.PlacementOptions()).Err()
}

// violations re-validates every group in p and returns the failures keyed by
// group ID, in group order.
func violations(p *project.Project, opts placement.Options) []groupViolation {
	var out []groupViolation
	dims := p.Dimensions()
	for _, g := range p.Sockets {
		if g.PlateIndex >= len(dims) {
			continue
		}
		d := dims[g.PlateIndex].Footprint()
		if r := placement.ValidateGroup(g, d.WidthCm, d.HeightCm, p.Sockets, opts); !r.Valid {
			out = append(out, groupViolation{group: g, reason: r.Reason})
		}
	}
	return out
}

type groupViolation struct {
	group  socket.Group
	reason *placement.Violation
}

// warnViolations prints a warning for every group on plate i that no longer
// fits after a resize.
func warnViolations(p *project.Project, i int, opts placement.Options) {
	for _, v := range violations(p, opts) {
		if v.group.PlateIndex == i {
			printWarning("group %s: %s", v.group.ID, v.reason.Error())
		}
	}
}
