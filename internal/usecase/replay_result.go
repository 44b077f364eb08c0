package usecase

import (
	"errors"

	"github.com/trebuchet-org/safe-replay/internal/domain"
)

// ReplayResult is the outcome of replaying one transaction against a starting state
type ReplayResult struct {
	ChainID         string              `json:"chainId"`
	Version         string              `json:"version"`
	OwnerManagement bool                `json:"ownerManagement"`
	Selector        string              `json:"selector,omitempty"`
	Before          domain.AccountState `json:"before"`
	After           domain.AccountState `json:"after"`
	Steps           []domain.ReplayStep `json:"steps"`
	Diff            domain.StateDiff    `json:"diff"`
}

// replayAgainst resolves the deployment and replays tx. A transaction that is
// not owner management yields a result with OwnerManagement unset and After
// equal to Before instead of an error.
func replayAgainst(registry DeploymentRegistry, replayer *AccountStateReplayer, before domain.AccountState, chainID, version string, tx domain.Transaction) (*ReplayResult, error) {
	deployment, err := registry.Lookup(chainID, version)
	if err != nil {
		return nil, err
	}

	result := &ReplayResult{
		ChainID:  chainID,
		Version:  deployment.Version,
		Selector: tx.Selector(),
		Before:   before.Clone(),
	}

	steps, err := replayer.Replay(before, chainID, deployment.Version, tx)
	switch {
	case errors.Is(err, domain.ErrUnrecognizedTransaction):
		result.After = before.Clone()
		result.Steps = []domain.ReplayStep{}
	case err != nil:
		return nil, err
	default:
		result.OwnerManagement = true
		result.Steps = steps
		result.After = before.Clone()
		if len(steps) > 0 {
			result.After = steps[len(steps)-1].State
		}
	}

	result.Diff = domain.Diff(result.Before, result.After)
	return result, nil
}
