package usecase

import (
	"context"
	"sort"

	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	Network string
	ChainID uint64
	Kind    string
	Symbol  string
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// DeploymentSummary provides summary statistics
type DeploymentSummary struct {
	Total   int
	ByKind  map[domain.ContractKind]int
	ByChain map[uint64]int
}

// ListDeployments is the use case for listing recorded deployments
type ListDeployments struct {
	store    DeploymentStore
	progress ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(store DeploymentStore, progress ProgressSink) *ListDeployments {
	return &ListDeployments{
		store:    store,
		progress: progress,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageResolving,
		Message: "Loading deployments",
		Spinner: true,
	})

	filter := domain.DeploymentFilter{
		Network: params.Network,
		ChainID: params.ChainID,
		Kind:    domain.ContractKind(params.Kind),
		Symbol:  params.Symbol,
	}

	deployments, err := uc.store.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Oldest first, ties broken by id for stable output
	sort.SliceStable(deployments, func(i, j int) bool {
		if !deployments[i].CreatedAt.Equal(deployments[j].CreatedAt) {
			return deployments[i].CreatedAt.Before(deployments[j].CreatedAt)
		}
		return deployments[i].ID < deployments[j].ID
	})

	summary := DeploymentSummary{
		Total:   len(deployments),
		ByKind:  make(map[domain.ContractKind]int),
		ByChain: make(map[uint64]int),
	}
	for _, dep := range deployments {
		summary.ByKind[dep.Kind]++
		summary.ByChain[dep.ChainID]++
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageCompleted,
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     summary,
	}, nil
}
