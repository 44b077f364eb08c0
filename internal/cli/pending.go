package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/safe-replay/internal/cli/render"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// NewPendingCmd creates the pending command
func NewPendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending <safe>",
		Short: "Replay every pending transaction of a Safe",
		Long: `List the queued multisig transactions of a Safe and show, for each one, how it
would change the owners and threshold if executed next.

Each transaction is replayed against the current on-chain state.`,
		Example: `  safe-replay pending 0x5afe...0001 --chain 10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			safe, err := domain.ParseAddress(args[0])
			if err != nil {
				return err
			}

			result, err := app.PreviewPending.Run(cmd.Context(), usecase.PreviewPendingParams{Safe: safe})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewPendingRenderer(cmd.OutOrStdout(), useColor(cmd)).Render(result)
		},
	}

	return cmd
}
