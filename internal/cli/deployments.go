package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/safe-replay/internal/cli/render"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var (
		allChains bool
		version   string
	)

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List known canonical Safe deployments",
		Long: `List the Safe singleton and MultiSend addresses recognized per chain and
version, including entries added with --deployments-file.`,
		Example: `  # Deployments on the configured chain
  safe-replay deployments --chain 137

  # Every chain, one version
  safe-replay deployments --all --version 1.3.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListDeploymentsParams{Version: version}
			if !allChains {
				params.ChainID = app.Config.ChainID
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeploymentsRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderDeploymentList(result)
		},
	}

	cmd.Flags().BoolVar(&allChains, "all", false, "List every chain instead of the configured one")
	cmd.Flags().StringVar(&version, "version", "", "Only list this Safe version")

	return cmd
}
