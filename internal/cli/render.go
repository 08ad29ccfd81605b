package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/render"
)

const defaultRenderBase = "plates"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	viewOpts
	format    string // svg, json, png or pdf
	output    string // output file, "-" for stdout
	noCache   bool
	noLabels  bool
	noHelpers bool
}

// renderCommand draws the stored plates and sockets to a file.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(render.FormatSVG)}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render plates and socket groups to SVG, PNG, PDF or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), f, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), json, png, pdf")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default plates.<format>, - for stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the render cache")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit plate and position labels")
	cmd.Flags().BoolVar(&opts.noHelpers, "no-helpers", false, "omit distance helper lines")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, f render.Format, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner := c.newRunner(opts.noCache)
	defer runner.Close()
	runner.OnRender = func(f render.Format) func() {
		if f != render.FormatPNG && f != render.FormatPDF {
			return func() {}
		}
		return startSpinner(ctx, stderr, "Rendering "+string(f)+"...").Stop
	}

	return c.withProject(ctx, false, func(p *project.Project) error {
		po := c.pipelineOptions(opts.viewOpts)
		po.Format = f
		po.NoLabels = opts.noLabels
		po.NoHelpers = opts.noHelpers

		res, err := runner.Execute(ctx, p, po)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return err
		}
		logger.Debugf("Laid out %d plate(s) at %.3f px/cm", res.Stats.Plates, res.Scene.Scale)

		out := opts.output
		if out == "" {
			out = defaultRenderBase + f.Ext()
		}
		if out == "-" {
			_, err := stdout.Write(res.Artifact)
			return err
		}
		if err := os.WriteFile(out, res.Artifact, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
		}
		prog.done("Rendered " + out)
		printSuccess("Rendered %s", f)
		printFile(out)
		printCacheStatus(res.CacheHit)
		return nil
	})
}
