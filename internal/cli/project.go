package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/project"
)

// exportCommand writes the stored project to a JSON or TOML file.
func (c *CLI) exportCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export plates and socket groups to a .json or .toml file",
		Long: `Export plates and socket groups to a project file. The format follows the
file extension; pass "-" with --format to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return c.withProject(cmd.Context(), false, func(p *project.Project) error {
				if path == "-" {
					f, err := project.FormatFromPath("stdout." + format)
					if err != nil {
						return err
					}
					return project.Write(p, stdout, f)
				}
				if err := project.Export(p, path); err != nil {
					return err
				}
				printSuccess("Exported %d plate(s), %d socket group(s)", len(p.Plates), len(p.Sockets))
				printFile(path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", string(project.FormatJSON), "format when writing to stdout: json or toml")
	return cmd
}

// importCommand replaces the stored project with a file's contents.
func (c *CLI) importCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the stored project with a .json or .toml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := project.Import(args[0])
			if err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			if err := plate.ValidateAll(in.Plates); err != nil {
				return err
			}
			found := violations(in, c.cfg.PlacementOptions())
			for _, v := range found {
				printWarning("group %s on plate #%d: %s", v.group.ID, v.group.PlateIndex+1, v.reason.Error())
			}
			if len(found) > 0 && !force {
				return errors.New(errors.ErrCodePlacement, "%d socket group(s) violate placement rules; use --force to import anyway", len(found))
			}
			return c.withProject(cmd.Context(), true, func(p *project.Project) error {
				*p = *in
				printSuccess("Imported %d plate(s), %d socket group(s)", len(p.Plates), len(p.Sockets))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "import even when socket groups violate placement rules")
	return cmd
}
