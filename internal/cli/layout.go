package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/pkg/pipeline"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/render"
)

// viewOpts are the canvas flags shared by layout, render and edit.
type viewOpts struct {
	width  float64
	height float64
	focus  int // 1-based, 0 shows every plate
	active string
}

func (o *viewOpts) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.width, "width", 0, "canvas width in px (default from config)")
	cmd.Flags().Float64Var(&o.height, "height", 0, "canvas height in px (default from config)")
	cmd.Flags().IntVar(&o.focus, "focus", 0, "only show plate N")
	cmd.Flags().StringVar(&o.active, "active", "", "highlight group ID with distance helpers")
}

// pipelineOptions merges the flags over the configured canvas.
func (c *CLI) pipelineOptions(o viewOpts) pipeline.Options {
	vp := c.cfg.Viewport()
	if o.width > 0 {
		vp.Width = o.width
	}
	if o.height > 0 {
		vp.Height = o.height
	}
	return pipeline.Options{
		Viewport:    vp,
		Layout:      c.cfg.LayoutOptions(),
		Focus:       o.focus,
		ActiveGroup: o.active,
	}
}

// layoutCommand prints the computed canvas layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		o      viewOpts
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show how plates fit on the canvas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), false, func(p *project.Project) error {
				po := c.pipelineOptions(o)
				vp := po.Viewport
				s, ok := pipeline.NewRunner(nil, c.Logger).Scene(p, po)
				if !ok {
					printWarning("Nothing to lay out on a %.0f × %.0f px canvas", vp.Width, vp.Height)
					return nil
				}
				if asJSON {
					data, err := render.JSON(s)
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, string(data))
					return nil
				}
				printKeyValue("Canvas", fmt.Sprintf("%.0f × %.0f px", vp.Width, vp.Height))
				printKeyValue("Scale", fmt.Sprintf("%.3f px/cm", s.Scale))
				rows := make([][]string, len(s.Plates))
				for i, pl := range s.Plates {
					rows[i] = []string{
						pl.Label,
						pl.Size,
						fmt.Sprintf("%.1f, %.1f", pl.Rect.MinX, pl.Rect.MinY),
						fmt.Sprintf("%.1f × %.1f", pl.Rect.Width(), pl.Rect.Height()),
					}
				}
				printTable([]string{"Plate", "Size", "Origin px", "Extent px"}, rows)
				return nil
			})
		},
	}
	o.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full scene as JSON")
	return cmd
}
