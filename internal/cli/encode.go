package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/safe-replay/internal/cli/render"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// NewEncodeCmd creates the encode command
func NewEncodeCmd() *cobra.Command {
	var safeAddress string

	cmd := &cobra.Command{
		Use:   "encode <call>...",
		Short: "Encode owner-management calls as a Safe transaction",
		Long: `Encode one or more owner-management calls. A single call targets the Safe
directly; several calls are packed into a MultiSend batch executed by
delegatecall.

Call formats:
  swap:<prev>:<old>:<new>
  add:<owner>:<threshold>
  remove:<prev>:<owner>:<threshold>
  threshold:<threshold>

"sentinel" may be used for <prev> when the owner is first in the list.`,
		Example: `  safe-replay encode --safe 0x5afe...0001 add:0xD...:2 remove:0xD...:0xC...:2`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.EncodeBatch.Run(cmd.Context(), usecase.EncodeBatchParams{
				Safe:  safeAddress,
				Calls: args,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewEncodeRenderer(cmd.OutOrStdout(), useColor(cmd)).Render(result)
		},
	}

	cmd.Flags().StringVar(&safeAddress, "safe", "", "Safe the calls are made on")
	_ = cmd.MarkFlagRequired("safe")

	return cmd
}
