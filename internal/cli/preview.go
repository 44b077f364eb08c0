package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/safe-replay/internal/cli/render"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// NewPreviewCmd creates the preview command
func NewPreviewCmd() *cobra.Command {
	var safeAddress string

	cmd := &cobra.Command{
		Use:   "preview [safeTxHash]",
		Short: "Show how a proposed Safe transaction changes the owners",
		Long: `Fetch a multisig transaction from the Safe Transaction Service and replay it
against the Safe's current owners and threshold.

Without a transaction hash, --safe selects one of the Safe's pending
transactions interactively.`,
		Example: `  # Preview a proposed transaction
  safe-replay preview 0x8f4c...e21a

  # Pick one of the pending transactions of a Safe on Gnosis Chain
  safe-replay preview --chain 100 --safe 0x5afe...0001`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var hash string
			switch {
			case len(args) == 1:
				hash = args[0]
			case safeAddress != "":
				safe, err := domain.ParseAddress(safeAddress)
				if err != nil {
					return err
				}
				pending, err := app.PreviewPending.Pending(cmd.Context(), safe)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					return fmt.Errorf("safe %s has no pending transactions", safe.Hex())
				}
				selected, err := app.Selector.SelectTransaction(cmd.Context(), pending, "Select a transaction to preview")
				if err != nil {
					return err
				}
				hash = selected.SafeTxHash
			default:
				return fmt.Errorf("provide a safeTxHash or --safe")
			}

			result, err := app.PreviewTransaction.Run(cmd.Context(), usecase.PreviewTransactionParams{SafeTxHash: hash})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewPreviewRenderer(cmd.OutOrStdout(), useColor(cmd)).Render(result)
		},
	}

	cmd.Flags().StringVar(&safeAddress, "safe", "", "Safe address to select a pending transaction from")

	return cmd
}
