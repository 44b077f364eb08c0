package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/safe-replay/internal/adapters/progress"
	"github.com/trebuchet-org/safe-replay/internal/app"
	"github.com/trebuchet-org/safe-replay/internal/config"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "safe-replay",
		Short: "Replay Safe owner-management transactions",
		Long: `safe-replay reconstructs the owners and threshold a Safe multisig will have
after executing a transaction. It decodes swapOwner, addOwnerWithThreshold,
removeOwner and changeThreshold calls, including calls batched through MultiSend,
and applies them in order to a starting state.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			v := config.SetupViper(workDir, cmd)

			var sink usecase.ProgressSink = progress.NewNopSink()
			if !v.GetBool("json") && !v.GetBool("non_interactive") {
				sink = progress.NewSpinnerProgressReporter()
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("chain", "c", "", "Chain ID the Safe lives on (default 1)")
	rootCmd.PersistentFlags().String("safe-version", "", "Safe contract version (defaults to the version reported by the Safe, or the newest release)")
	rootCmd.PersistentFlags().String("service-url", "", "Safe Transaction Service base URL (defaults to the public service for the chain)")
	rootCmd.PersistentFlags().String("deployments-file", "", "TOML file with extra or overriding Safe deployments")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout for network requests (default 30s)")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "tools",
		Title: "Tools",
	})

	previewCmd := NewPreviewCmd()
	previewCmd.GroupID = "main"
	rootCmd.AddCommand(previewCmd)

	pendingCmd := NewPendingCmd()
	pendingCmd.GroupID = "main"
	rootCmd.AddCommand(pendingCmd)

	reconstructCmd := NewReconstructCmd()
	reconstructCmd.GroupID = "main"
	rootCmd.AddCommand(reconstructCmd)

	encodeCmd := NewEncodeCmd()
	encodeCmd.GroupID = "tools"
	rootCmd.AddCommand(encodeCmd)

	deploymentsCmd := NewDeploymentsCmd()
	deploymentsCmd.GroupID = "tools"
	rootCmd.AddCommand(deploymentsCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}

// useColor reports whether human output should be colored
func useColor(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
