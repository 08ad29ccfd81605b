package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/project"
)

// validateCommand re-checks every plate and socket group in the store.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check plates and socket placement",
		Long: `Check every stored plate against the size limits and every socket group
against the edge and inter-group clearances. Exits non-zero on any violation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), false, func(p *project.Project) error {
				if err := plate.ValidateAll(p.Plates); err != nil {
					return err
				}
				found := violations(p, c.cfg.PlacementOptions())
				for _, v := range found {
					printError("group %s on plate #%d: %s", v.group.ID, v.group.PlateIndex+1, v.reason.Error())
				}
				if len(found) > 0 {
					return errors.New(errors.ErrCodePlacement, "%d socket group(s) violate placement rules", len(found))
				}
				printSuccess("%d plate(s), %d socket group(s): all valid", len(p.Plates), len(p.Sockets))
				return nil
			})
		},
	}
}
