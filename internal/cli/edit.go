package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/interact"
	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
)

// editCommand opens the interactive terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Drag socket groups in an interactive terminal editor",
		Long: `Open the stored plates in a full-screen editor. Drag a socket group with the
mouse to move it; moves that break a clearance rule are refused and the group
snaps back when released. Changes are saved after every drag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(repo store.Repository) error {
				p, err := store.LoadProject(ctx, repo)
				if err != nil {
					return errors.Wrap(errors.ErrCodeStore, err, "load project")
				}
				m := c.newEditor(ctx, repo, p)
				defer m.ctrl.Close()

				final, err := tea.NewProgram(m,
					tea.WithAltScreen(),
					tea.WithMouseCellMotion(),
					tea.WithContext(ctx),
				).Run()
				if err != nil {
					return err
				}
				if em, ok := final.(EditorModel); ok && em.err != nil {
					return em.err
				}
				printSuccess("Saved %d socket group(s)", m.ctrl.Groups().Len())
				return nil
			})
		},
	}
}

// newEditor builds the editor model for p. The controller's notifications
// are forwarded to the program as refresh messages.
func (c *CLI) newEditor(ctx context.Context, repo store.Repository, p *project.Project) EditorModel {
	refresh := make(chan struct{}, 1)
	opts := append(c.cfg.LayoutOptions(), layout.WithPadding(editorPaddingPx), layout.WithPlateGap(editorGapPx))
	ctrl := interact.New(p.Dimensions(), socket.NewCollection(p.Sockets),
		interact.WithPlacement(c.cfg.PlacementOptions()),
		interact.WithLayout(opts...),
		interact.WithNotify(func() {
			select {
			case refresh <- struct{}{}:
			default:
			}
		}),
	)
	_ = ctrl.SetActivePlate(p.ActiveIndex)
	return newEditorModel(ctx, repo, ctrl, refresh)
}
