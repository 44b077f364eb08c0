package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
)

// PreviewPendingParams contains parameters for previewing a Safe's queue
type PreviewPendingParams struct {
	Safe common.Address
}

// PendingPreview is the replay of every queued transaction of a Safe
type PendingPreview struct {
	Safe    common.Address      `json:"safe"`
	ChainID string              `json:"chainId"`
	Nonce   uint64              `json:"nonce"`
	Current domain.AccountState `json:"current"`
	Entries []*PreviewResult    `json:"entries"`
}

// PreviewPending replays each pending transaction of a Safe. Every entry is
// replayed against the current state, not against the previous entry.
type PreviewPending struct {
	config   *config.RuntimeConfig
	service  SafeService
	registry DeploymentRegistry
	replayer *AccountStateReplayer
	sink     ProgressSink
}

// NewPreviewPending creates a new PreviewPending use case
func NewPreviewPending(
	cfg *config.RuntimeConfig,
	service SafeService,
	registry DeploymentRegistry,
	replayer *AccountStateReplayer,
	sink ProgressSink,
) *PreviewPending {
	return &PreviewPending{
		config:   cfg,
		service:  service,
		registry: registry,
		replayer: replayer,
		sink:     sink,
	}
}

// Pending returns the queued transactions without replaying them, lowest nonce first
func (uc *PreviewPending) Pending(ctx context.Context, safe common.Address) ([]*domain.SafeTransaction, error) {
	info, err := uc.service.GetSafeInfo(ctx, uc.config.ChainID, safe)
	if err != nil {
		return nil, err
	}
	return uc.pending(ctx, safe, info.Nonce)
}

func (uc *PreviewPending) pending(ctx context.Context, safe common.Address, nonce uint64) ([]*domain.SafeTransaction, error) {
	txs, err := uc.service.GetPendingTransactions(ctx, uc.config.ChainID, safe, nonce)
	if err != nil {
		return nil, err
	}
	sortByNonce(txs)
	return txs, nil
}

// Run executes the preview pending use case
func (uc *PreviewPending) Run(ctx context.Context, params PreviewPendingParams) (*PendingPreview, error) {
	defer uc.sink.Done()

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "Fetching Safe",
		Message: params.Safe.Hex(),
		Spinner: true,
	})

	info, err := uc.service.GetSafeInfo(ctx, uc.config.ChainID, params.Safe)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "Fetching pending transactions",
		Message: fmt.Sprintf("nonce >= %d", info.Nonce),
		Spinner: true,
	})

	txs, err := uc.pending(ctx, params.Safe, info.Nonce)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "Replaying",
		Message: fmt.Sprintf("%d transactions", len(txs)),
	})

	preview := &PendingPreview{
		Safe:    params.Safe,
		ChainID: uc.config.ChainID,
		Nonce:   info.Nonce,
		Current: info.State(),
		Entries: make([]*PreviewResult, 0, len(txs)),
	}

	for _, tx := range txs {
		entry := &PreviewResult{Transaction: tx, Executed: tx.IsExecuted}

		replayed, err := replayWithVersion(uc.config, uc.registry, uc.replayer, uc.sink, info, tx)
		switch {
		case errors.Is(err, domain.ErrMalformedCalldata):
			// Malformed proposals are reported on their entry
			entry.ReplayResult = ReplayResult{
				ChainID:  uc.config.ChainID,
				Selector: tx.Transaction().Selector(),
				Before:   info.State(),
				After:    info.State(),
				Steps:    []domain.ReplayStep{},
				Diff:     domain.Diff(info.State(), info.State()),
			}
			entry.Error = err.Error()
		case err != nil:
			return nil, fmt.Errorf("transaction %s (nonce %d): %w", tx.SafeTxHash, tx.Nonce, err)
		default:
			entry.ReplayResult = *replayed
		}

		preview.Entries = append(preview.Entries, entry)
	}

	return preview, nil
}

func sortByNonce(txs []*domain.SafeTransaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Nonce < txs[j].Nonce
	})
}
