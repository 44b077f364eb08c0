package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/safe-replay/internal/cli/render"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// NewReconstructCmd creates the reconstruct command
func NewReconstructCmd() *cobra.Command {
	var (
		owners    []string
		threshold int
		to        string
		value     string
		delegate  bool
	)

	cmd := &cobra.Command{
		Use:   "reconstruct <calldata>",
		Short: "Replay calldata against a given owner set, offline",
		Long: `Apply owner-management calldata to an owner set and threshold given on the
command line. No network access is needed; the chain and Safe version select
which canonical contracts are recognized.

A multiSend(bytes) call is recognized by its selector and each call in the
batch is replayed in order. --to, --value and --delegate are recorded with
the transaction but do not change how the calldata is decoded.`,
		Example: `  # Raise the threshold of a 2-owner Safe
  safe-replay reconstruct 0x694e80c3...0002 --owners 0xA...,0xB... --threshold 1

  # Replay a MultiSend batch
  safe-replay reconstruct 0x8d80ff0a... --owners 0xA...,0xB... --threshold 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			operation := domain.OperationCall
			if delegate {
				operation = domain.OperationDelegateCall
			}

			result, err := app.ReconstructOffline.Run(cmd.Context(), usecase.ReconstructOfflineParams{
				Owners:    owners,
				Threshold: threshold,
				To:        to,
				Value:     value,
				Data:      args[0],
				Operation: operation,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewReplayRenderer(cmd.OutOrStdout(), useColor(cmd)).Render(result)
		},
	}

	cmd.Flags().StringSliceVar(&owners, "owners", nil, "Current owners, comma separated, in on-chain order")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Current confirmation threshold")
	cmd.Flags().StringVar(&to, "to", "", "Transaction target (the Safe itself, or a MultiSend deployment)")
	cmd.Flags().StringVar(&value, "value", "0", "Transaction value in wei")
	cmd.Flags().BoolVar(&delegate, "delegate", false, "Transaction is a delegatecall")
	_ = cmd.MarkFlagRequired("owners")
	_ = cmd.MarkFlagRequired("threshold")

	return cmd
}
