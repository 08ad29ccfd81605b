package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/pkg/project"
)

// quoteCommand prices the stored socket groups.
func (c *CLI) quoteCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price the socket cutouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), false, func(p *project.Project) error {
				q := project.NewQuote(p.Sockets, c.cfg.PricePerSocket())
				if asJSON {
					data, err := json.MarshalIndent(q, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, string(data))
					return nil
				}
				if len(q.Lines) == 0 {
					printInfo("No socket groups to price")
					return nil
				}
				rows := make([][]string, len(q.Lines))
				for i, l := range q.Lines {
					rows[i] = []string{
						l.GroupID,
						strconv.Itoa(l.PlateIndex + 1),
						strconv.Itoa(l.Count),
						string(l.Orientation),
						project.FormatPrice(l.Price),
					}
				}
				printTable([]string{"Group", "Plate", "Count", "Orientation", "Price"}, rows)
				printKeyValue("Sockets", strconv.Itoa(q.Units))
				printKeyValue("Total", project.FormatPrice(q.Total))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the quote as JSON")
	return cmd
}
