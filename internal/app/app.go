package app

import (
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Selector usecase.InteractiveSelector
	Replayer *usecase.AccountStateReplayer

	// Use cases
	PreviewTransaction *usecase.PreviewTransaction
	PreviewPending     *usecase.PreviewPending
	ReconstructOffline *usecase.ReconstructOffline
	ListDeployments    *usecase.ListDeployments
	EncodeBatch        *usecase.EncodeBatch
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	selector usecase.InteractiveSelector,
	replayer *usecase.AccountStateReplayer,
	previewTransaction *usecase.PreviewTransaction,
	previewPending *usecase.PreviewPending,
	reconstructOffline *usecase.ReconstructOffline,
	listDeployments *usecase.ListDeployments,
	encodeBatch *usecase.EncodeBatch,
) (*App, error) {
	return &App{
		Config:             cfg,
		Selector:           selector,
		Replayer:           replayer,
		PreviewTransaction: previewTransaction,
		PreviewPending:     previewPending,
		ReconstructOffline: reconstructOffline,
		ListDeployments:    listDeployments,
		EncodeBatch:        encodeBatch,
	}, nil
}
