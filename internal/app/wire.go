//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/safe-replay/internal/adapters"
	"github.com/trebuchet-org/safe-replay/internal/config"
	"github.com/trebuchet-org/safe-replay/internal/logging"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewAccountStateReplayer,
		usecase.NewPreviewTransaction,
		usecase.NewPreviewPending,
		usecase.NewReconstructOffline,
		usecase.NewListDeployments,
		usecase.NewEncodeBatch,

		// App
		NewApp,
	)
	return nil, nil
}
