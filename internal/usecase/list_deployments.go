package usecase

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/safe-replay/internal/domain"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// Empty lists every chain
	ChainID string
	// Empty lists every version
	Version string
}

// DeploymentListResult contains the matching deployments and a summary
type DeploymentListResult struct {
	Deployments []*domain.SafeDeployment `json:"deployments"`
	Summary     DeploymentSummary        `json:"summary"`
}

// DeploymentSummary counts deployments per chain and per version
type DeploymentSummary struct {
	Total     int            `json:"total"`
	ByChain   map[string]int `json:"byChain"`
	ByVersion map[string]int `json:"byVersion"`
}

// ListDeployments is the use case for listing canonical Safe deployments
type ListDeployments struct {
	registry DeploymentRegistry
	sink     ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(registry DeploymentRegistry, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		registry: registry,
		sink:     sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	chainID := strings.TrimSpace(params.ChainID)
	version := strings.TrimPrefix(strings.TrimSpace(params.Version), "v")

	// Registry order is kept: chain ascending, newest version first
	deployments := lo.Filter(uc.registry.List(), func(d *domain.SafeDeployment, _ int) bool {
		return (chainID == "" || d.ChainID == chainID) && (version == "" || d.Version == version)
	})

	if len(deployments) == 0 && chainID != "" {
		return nil, domain.DeploymentNotFoundError{ChainID: chainID, Version: version}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "Loading deployments",
		Message: "Deployments loaded",
	})
	uc.sink.Done()

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// calculateSummary calculates summary statistics for deployments
func calculateSummary(deployments []*domain.SafeDeployment) DeploymentSummary {
	return DeploymentSummary{
		Total: len(deployments),
		ByChain: lo.CountValuesBy(deployments, func(d *domain.SafeDeployment) string {
			return d.ChainID
		}),
		ByVersion: lo.CountValuesBy(deployments, func(d *domain.SafeDeployment) string {
			return d.Version
		}),
	}
}
