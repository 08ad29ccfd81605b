package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
)

// plateCommand creates the plate management command.
func (c *CLI) plateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plate",
		Short: "Manage plate dimensions",
	}

	cmd.AddCommand(c.plateListCommand())
	cmd.AddCommand(c.plateAddCommand())
	cmd.AddCommand(c.plateSetCommand())
	cmd.AddCommand(c.plateRemoveCommand())
	cmd.AddCommand(c.plateUseCommand())

	return cmd
}

func (c *CLI) plateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), false, func(p *project.Project) error {
				rows := make([][]string, len(p.Plates))
				for i, r := range p.Plates {
					active := ""
					if i == p.ActiveIndex {
						active = "●"
					}
					n := len(socket.OnPlate(p.Sockets, i))
					rows[i] = []string{strconv.Itoa(i + 1), r.Width, r.Height, plate.Parse(r).Label(), strconv.Itoa(n), active}
				}
				printTable([]string{"#", "Width", "Height", "Size", "Groups", "Active"}, rows)
				return nil
			})
		},
	}
}

func (c *CLI) plateAddCommand() *cobra.Command {
	var clamp bool
	cmd := &cobra.Command{
		Use:   "add WIDTH HEIGHT",
		Short: "Add a plate (sizes in cm)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := plateInput(args[0], args[1], clamp)
			if err != nil {
				return err
			}
			return c.withProject(cmd.Context(), true, func(p *project.Project) error {
				p.Plates = append(p.Plates, r)
				p.ActiveIndex = len(p.Plates) - 1
				printSuccess("Added plate #%d (%s)", len(p.Plates), plate.Parse(r).Label())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clamp, "clamp", false, "clamp out-of-range sizes instead of failing")
	return cmd
}

func (c *CLI) plateSetCommand() *cobra.Command {
	var clamp bool
	cmd := &cobra.Command{
		Use:   "set N WIDTH HEIGHT",
		Short: "Resize plate N",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := plateInput(args[1], args[2], clamp)
			if err != nil {
				return err
			}
			return c.withProject(cmd.Context(), true, func(p *project.Project) error {
				i, err := plateIndex(args[0], len(p.Plates))
				if err != nil {
					return err
				}
				p.Plates[i] = r
				printSuccess("Plate #%d is now %s", i+1, plate.Parse(r).Label())
				warnViolations(p, i, c.cfg.PlacementOptions())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clamp, "clamp", false, "clamp out-of-range sizes instead of failing")
	return cmd
}

func (c *CLI) plateRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm N",
		Aliases: []string{"remove"},
		Short:   "Remove plate N and its socket groups",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), true, func(p *project.Project) error {
				i, err := plateIndex(args[0], len(p.Plates))
				if err != nil {
					return err
				}
				if !plate.CanDelete(len(p.Plates)) {
					return errors.New(errors.ErrCodeInvalidDimension, "Minimum %d plate(s) required", plate.MinPlates)
				}
				dropped := len(socket.OnPlate(p.Sockets, i))
				p.Plates = append(p.Plates[:i], p.Plates[i+1:]...)
				p.Sockets = socket.RemovePlate(p.Sockets, i)
				if p.ActiveIndex >= len(p.Plates) || p.ActiveIndex == i {
					p.ActiveIndex = 0
				} else if p.ActiveIndex > i {
					p.ActiveIndex--
				}
				printSuccess("Removed plate #%d", i+1)
				if dropped > 0 {
					printDetail("%d socket group(s) removed with it", dropped)
				}
				return nil
			})
		},
	}
}

func (c *CLI) plateUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use N",
		Short: "Make plate N the active plate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), true, func(p *project.Project) error {
				i, err := plateIndex(args[0], len(p.Plates))
				if err != nil {
					return err
				}
				p.ActiveIndex = i
				printSuccess("Plate #%d is active", i+1)
				return nil
			})
		},
	}
}

// plateInput sanitizes and validates a width/height pair, or clamps it.
func plateInput(width, height string, clamp bool) (plate.Raw, error) {
	r := plate.Raw{Width: plate.Sanitize(width), Height: plate.Sanitize(height)}
	if !clamp {
		return r, plate.Validate(r)
	}
	for _, f := range []struct {
		field plate.Field
		value string
	}{{plate.FieldWidth, r.Width}, {plate.FieldHeight, r.Height}} {
		if cv := plate.ClampValue(f.value, f.field); cv.WasClamped {
			printWarning("%s clamped to %scm", f.field, plate.FormatValue(cv.Value))
		}
	}
	return plate.Clamp(r), nil
}

// plateIndex parses a 1-based plate number.
func plateIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, errors.New(errors.ErrCodeNotFound, "plate %s not found (have %d)", s, n)
	}
	return i - 1, nil
}

// withProject loads the stored project, runs fn and, if save is set, writes
// it back.
func (c *CLI) withProject(ctx context.Context, save bool, fn func(*project.Project) error) error {
	return c.withStore(ctx, func(repo store.Repository) error {
		p, err := store.LoadProject(ctx, repo)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "load project")
		}
		if err := fn(p); err != nil {
			return err
		}
		if !save {
			return nil
		}
		if err := store.SaveProject(ctx, repo, p); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "save project")
		}
		return nil
	})
}

// plateLabel is "#n (W × H cm)".
func plateLabel(p *project.Project, i int) string {
	return fmt.Sprintf("#%d (%s)", i+1, plate.Parse(p.Plates[i]).Label())
}
