package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
)

// ReconstructOfflineParams contains user input for an offline replay
type ReconstructOfflineParams struct {
	Owners    []string
	Threshold int
	To        string // optional, defaults to the zero address
	Value     string // optional, decimal wei
	Data      string // 0x-prefixed calldata
	Operation domain.Operation
}

// ReconstructOffline replays calldata against a caller-supplied state without
// touching the network. Chain and Safe version come from the runtime config.
type ReconstructOffline struct {
	config   *config.RuntimeConfig
	registry DeploymentRegistry
	replayer *AccountStateReplayer
}

// NewReconstructOffline creates a new ReconstructOffline use case
func NewReconstructOffline(cfg *config.RuntimeConfig, registry DeploymentRegistry, replayer *AccountStateReplayer) *ReconstructOffline {
	return &ReconstructOffline{
		config:   cfg,
		registry: registry,
		replayer: replayer,
	}
}

// Run parses the inputs, validates the starting state and replays the call.
// Unlike the preview use cases an unrecognized transaction is an error.
func (uc *ReconstructOffline) Run(ctx context.Context, params ReconstructOfflineParams) (*ReplayResult, error) {
	owners := make([]common.Address, 0, len(params.Owners))
	for _, o := range params.Owners {
		addr, err := domain.ParseAddress(o)
		if err != nil {
			return nil, err
		}
		owners = append(owners, addr)
	}

	state := domain.NewAccountState(owners, params.Threshold)
	if err := state.Validate(); err != nil {
		return nil, err
	}

	tx, err := parseTransaction(params)
	if err != nil {
		return nil, err
	}

	result, err := replayAgainst(uc.registry, uc.replayer, state, uc.config.ChainID, uc.config.SafeVersion, tx)
	if err != nil {
		return nil, err
	}
	if !result.OwnerManagement {
		return nil, domain.UnrecognizedTransactionError{Selector: result.Selector}
	}
	return result, nil
}

func parseTransaction(params ReconstructOfflineParams) (domain.Transaction, error) {
	tx := domain.Transaction{
		Value:     new(big.Int),
		Operation: params.Operation,
	}

	if params.To != "" {
		to, err := domain.ParseAddress(params.To)
		if err != nil {
			return tx, err
		}
		tx.To = to
	}

	if params.Value != "" {
		if _, ok := tx.Value.SetString(params.Value, 10); !ok || tx.Value.Sign() < 0 {
			return tx, fmt.Errorf("invalid value %q", params.Value)
		}
	}

	raw := strings.TrimSpace(params.Data)
	if raw == "" {
		return tx, fmt.Errorf("calldata is required")
	}
	if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
		raw = "0x" + raw
	}
	data, err := hexutil.Decode(raw)
	if err != nil {
		return tx, fmt.Errorf("invalid calldata: %w", err)
	}
	tx.Data = data

	return tx, nil
}
