package usecase

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/safe-replay/internal/domain"
)

// AccountStateReplayer rebuilds the owners and threshold of a Safe after an
// owner-management transaction executes. MultiSend batches are folded in
// execution order. The replayer has no mutable state and performs no I/O.
type AccountStateReplayer struct {
	registry   DeploymentRegistry
	classifier CalldataClassifier
}

// NewAccountStateReplayer creates a replayer over the given registry and classifier
func NewAccountStateReplayer(registry DeploymentRegistry, classifier CalldataClassifier) *AccountStateReplayer {
	return &AccountStateReplayer{
		registry:   registry,
		classifier: classifier,
	}
}

// Reconstruct returns the state after tx executes on a Safe currently in state.
// An empty safeVersion lets the registry pick the version. It fails with
// DeploymentNotFoundError, UnrecognizedTransactionError or
// MalformedCalldataError; nothing is applied when any call fails.
func (r *AccountStateReplayer) Reconstruct(state domain.AccountState, chainID, safeVersion string, tx domain.Transaction) (domain.AccountState, error) {
	steps, err := r.Replay(state, chainID, safeVersion, tx)
	if err != nil {
		return domain.AccountState{}, err
	}
	if len(steps) == 0 {
		return state.Clone(), nil
	}
	return steps[len(steps)-1].State, nil
}

// Replay is Reconstruct keeping the state reached after every call.
func (r *AccountStateReplayer) Replay(state domain.AccountState, chainID, safeVersion string, tx domain.Transaction) ([]domain.ReplayStep, error) {
	deployment, err := r.registry.Lookup(chainID, safeVersion)
	if err != nil {
		return nil, err
	}

	txs, err := r.expand(tx)
	if err != nil {
		return nil, err
	}

	// Each call sees the state left by the previous one.
	acc := state.Clone()
	steps := make([]domain.ReplayStep, 0, len(txs))
	for _, sub := range txs {
		call, err := r.decodeCall(deployment, sub.Data)
		if err != nil {
			return nil, err
		}
		acc = call.Apply(acc)
		steps = append(steps, domain.ReplayStep{Call: call, State: acc})
	}

	return steps, nil
}

// DecodeCalls classifies tx into owner-management calls without applying them
func (r *AccountStateReplayer) DecodeCalls(chainID, safeVersion string, tx domain.Transaction) ([]domain.OwnerCall, error) {
	deployment, err := r.registry.Lookup(chainID, safeVersion)
	if err != nil {
		return nil, err
	}

	txs, err := r.expand(tx)
	if err != nil {
		return nil, err
	}

	calls := make([]domain.OwnerCall, 0, len(txs))
	for _, sub := range txs {
		call, err := r.decodeCall(deployment, sub.Data)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return calls, nil
}

// expand returns the sub-transactions of a MultiSend, or tx itself
func (r *AccountStateReplayer) expand(tx domain.Transaction) (domain.BatchTransaction, error) {
	if !r.classifier.IsMultiSendCall(tx.Data) {
		return domain.BatchTransaction{tx}, nil
	}

	txs, err := r.classifier.DecodeMultiSend(tx.Data)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedCalldata) {
			return nil, err
		}
		return nil, domain.MalformedCalldataError{Method: "multiSend", Err: err}
	}
	return txs, nil
}

func (r *AccountStateReplayer) decodeCall(deployment *domain.SafeDeployment, data []byte) (domain.OwnerCall, error) {
	switch {
	case r.classifier.IsSwapOwnerCall(data):
		args, err := r.decodeArgs(deployment, domain.CallSwapOwner, data)
		if err != nil {
			return nil, err
		}
		prev, err := arg[common.Address](args, 0, domain.CallSwapOwner)
		if err != nil {
			return nil, err
		}
		oldOwner, err := arg[common.Address](args, 1, domain.CallSwapOwner)
		if err != nil {
			return nil, err
		}
		newOwner, err := arg[common.Address](args, 2, domain.CallSwapOwner)
		if err != nil {
			return nil, err
		}
		return domain.SwapOwner{Prev: prev, Old: oldOwner, New: newOwner}, nil

	case r.classifier.IsAddOwnerWithThresholdCall(data):
		args, err := r.decodeArgs(deployment, domain.CallAddOwnerWithThreshold, data)
		if err != nil {
			return nil, err
		}
		owner, err := arg[common.Address](args, 0, domain.CallAddOwnerWithThreshold)
		if err != nil {
			return nil, err
		}
		threshold, err := thresholdArg(args, 1, domain.CallAddOwnerWithThreshold)
		if err != nil {
			return nil, err
		}
		return domain.AddOwnerWithThreshold{Owner: owner, Threshold: threshold}, nil

	case r.classifier.IsRemoveOwnerCall(data):
		args, err := r.decodeArgs(deployment, domain.CallRemoveOwner, data)
		if err != nil {
			return nil, err
		}
		prev, err := arg[common.Address](args, 0, domain.CallRemoveOwner)
		if err != nil {
			return nil, err
		}
		owner, err := arg[common.Address](args, 1, domain.CallRemoveOwner)
		if err != nil {
			return nil, err
		}
		threshold, err := thresholdArg(args, 2, domain.CallRemoveOwner)
		if err != nil {
			return nil, err
		}
		return domain.RemoveOwner{Prev: prev, Owner: owner, Threshold: threshold}, nil

	case r.classifier.IsChangeThresholdCall(data):
		args, err := r.decodeArgs(deployment, domain.CallChangeThreshold, data)
		if err != nil {
			return nil, err
		}
		threshold, err := thresholdArg(args, 0, domain.CallChangeThreshold)
		if err != nil {
			return nil, err
		}
		return domain.ChangeThreshold{Threshold: threshold}, nil
	}

	return nil, domain.UnrecognizedTransactionError{Selector: domain.Transaction{Data: data}.Selector()}
}

func (r *AccountStateReplayer) decodeArgs(deployment *domain.SafeDeployment, kind domain.CallKind, data []byte) ([]any, error) {
	args, err := r.classifier.DecodeFunctionData(deployment.ABI, string(kind), data)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedCalldata) {
			return nil, err
		}
		return nil, domain.MalformedCalldataError{Method: string(kind), Err: err}
	}
	return args, nil
}

func arg[T any](args []any, i int, kind domain.CallKind) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, domain.MalformedCalldataError{
			Method: string(kind),
			Reason: fmt.Sprintf("missing argument %d", i),
		}
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, domain.MalformedCalldataError{
			Method: string(kind),
			Reason: fmt.Sprintf("argument %d has type %T, want %T", i, args[i], zero),
		}
	}
	return v, nil
}

func thresholdArg(args []any, i int, kind domain.CallKind) (int, error) {
	v, err := arg[*big.Int](args, i, kind)
	if err != nil {
		return 0, err
	}
	if v == nil || v.Sign() < 0 || !v.IsInt64() || v.Int64() > math.MaxInt {
		return 0, domain.MalformedCalldataError{
			Method: string(kind),
			Reason: fmt.Sprintf("threshold %v does not fit an int", v),
		}
	}
	return int(v.Int64()), nil
}
