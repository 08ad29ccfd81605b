package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/internal/server"
	"github.com/matzehuels/platecut/pkg/store"
)

// serveCommand runs the HTTP API over the configured store.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configurator HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.ServerAddr()
			}
			ctx := cmd.Context()
			return c.withStore(ctx, func(repo store.Repository) error {
				ch := c.newCache(false)
				defer ch.Close()
				srv := server.New(repo,
					server.WithLogger(c.Logger),
					server.WithPlacement(c.cfg.PlacementOptions()),
					server.WithLayout(c.cfg.LayoutOptions()...),
					server.WithViewport(c.cfg.Viewport()),
					server.WithPrice(c.cfg.PricePerSocket()),
					server.WithCache(ch),
				)
				printInfo("Serving on %s (store: %s)", addr, c.cfg.GetStore().Backend)
				return srv.ListenAndServe(ctx, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
