package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
)

// PreviewTransactionParams contains parameters for previewing a proposed transaction
type PreviewTransactionParams struct {
	SafeTxHash string
}

// PreviewResult is a replay of a Transaction Service transaction
type PreviewResult struct {
	ReplayResult
	Transaction *domain.SafeTransaction `json:"transaction"`
	Executed    bool                    `json:"executed"`
	Error       string                  `json:"error,omitempty"`
}

// PreviewTransaction fetches a multisig transaction and the Safe's current
// configuration and shows what the transaction would do to the owners.
type PreviewTransaction struct {
	config   *config.RuntimeConfig
	service  SafeService
	registry DeploymentRegistry
	replayer *AccountStateReplayer
	sink     ProgressSink
	log      *slog.Logger
}

// NewPreviewTransaction creates a new PreviewTransaction use case
func NewPreviewTransaction(
	cfg *config.RuntimeConfig,
	service SafeService,
	registry DeploymentRegistry,
	replayer *AccountStateReplayer,
	sink ProgressSink,
	log *slog.Logger,
) *PreviewTransaction {
	return &PreviewTransaction{
		config:   cfg,
		service:  service,
		registry: registry,
		replayer: replayer,
		sink:     sink,
		log:      log.With("component", "PreviewTransaction"),
	}
}

// Run executes the preview transaction use case
func (uc *PreviewTransaction) Run(ctx context.Context, params PreviewTransactionParams) (*PreviewResult, error) {
	defer uc.sink.Done()

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "Fetching transaction",
		Message: params.SafeTxHash,
		Spinner: true,
	})

	tx, err := uc.service.GetTransaction(ctx, uc.config.ChainID, params.SafeTxHash)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "Fetching Safe",
		Message: tx.Safe.Hex(),
		Spinner: true,
	})

	info, err := uc.service.GetSafeInfo(ctx, uc.config.ChainID, tx.Safe)
	if err != nil {
		return nil, err
	}

	if tx.IsExecuted {
		uc.log.Debug("Transaction already executed, replaying against current state", "safeTxHash", tx.SafeTxHash)
	}

	replayed, err := replayWithVersion(uc.config, uc.registry, uc.replayer, uc.sink, info, tx)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		ReplayResult: *replayed,
		Transaction:  tx,
		Executed:     tx.IsExecuted,
	}, nil
}

// replayWithVersion replays tx against info. A configured Safe version wins
// over the version reported by the service; a reported version missing from
// the registry falls back to the newest deployment on the chain.
func replayWithVersion(cfg *config.RuntimeConfig, registry DeploymentRegistry, replayer *AccountStateReplayer, sink ProgressSink, info *domain.SafeInfo, tx *domain.SafeTransaction) (*ReplayResult, error) {
	version := cfg.SafeVersion
	if version == "" {
		version = info.Version
	}

	result, err := replayAgainst(registry, replayer, info.State(), cfg.ChainID, version, tx.Transaction())
	if err == nil || cfg.SafeVersion != "" || version == "" || !errors.Is(err, domain.ErrDeploymentNotFound) {
		return result, err
	}

	sink.Info(fmt.Sprintf("Safe version %s is not in the deployment registry (known: %s), using the newest deployment",
		version, strings.Join(registry.Versions(), ", ")))
	return replayAgainst(registry, replayer, info.State(), cfg.ChainID, "", tx.Transaction())
}
