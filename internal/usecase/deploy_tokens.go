package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
)

// DeployTokensResult contains the deployments completed by a run.
// On failure it holds the deployments that finished before the failing step.
type DeployTokensResult struct {
	Network     *domain.Network
	Deployments []*models.Deployment
}

// DeployTokensParams contains parameters for a deployment run
type DeployTokensParams struct {
	// OnDeployed receives each deployment once its symbol is read and it is recorded,
	// before the next contract is deployed. An error stops the run.
	OnDeployed func(*models.Deployment) error
}

// DeployTokens compiles the project and deploys the token plan one contract at a time
type DeployTokens struct {
	config    *config.RuntimeConfig
	compiler  ContractCompiler
	contracts ContractRepository
	selector  ContractSelector
	deployer  ContractDeployer
	store     DeploymentStore
	progress  ProgressSink
	log       *slog.Logger
	plan      []domain.TokenSpec
}

// NewDeployTokens creates a new DeployTokens use case
func NewDeployTokens(
	cfg *config.RuntimeConfig,
	compiler ContractCompiler,
	contracts ContractRepository,
	selector ContractSelector,
	deployer ContractDeployer,
	store DeploymentStore,
	progress ProgressSink,
	log *slog.Logger,
) *DeployTokens {
	return &DeployTokens{
		config:    cfg,
		compiler:  compiler,
		contracts: contracts,
		selector:  selector,
		deployer:  deployer,
		store:     store,
		progress:  progress,
		log:       log.With("component", "DeployTokens"),
		plan:      domain.DefaultTokenPlan(),
	}
}

// Run deploys every token in the plan in order and stops at the first failure
func (uc *DeployTokens) Run(ctx context.Context, params DeployTokensParams) (*DeployTokensResult, error) {
	result := &DeployTokensResult{Network: uc.config.Network}

	if !uc.config.SkipBuild {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageCompiling,
			Message: "Compiling contracts",
			Spinner: true,
		})
		if err := uc.compiler.Build(ctx); err != nil {
			return result, fmt.Errorf("failed to compile contracts: %w", err)
		}
	}

	total := len(uc.plan)
	for i, spec := range uc.plan {
		deployment, err := uc.deployOne(ctx, spec, i+1, total)
		if err != nil {
			uc.progress.Error(err.Error())
			return result, err
		}
		result.Deployments = append(result.Deployments, deployment)

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageDeployed,
			Current: i + 1,
			Total:   total,
			Message: fmt.Sprintf("%s at %s", deployment.DisplayName(), deployment.Address.Hex()),
		})
		if params.OnDeployed != nil {
			if err := params.OnDeployed(deployment); err != nil {
				return result, fmt.Errorf("failed to report %s deployment: %w", spec.Kind, err)
			}
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageCompleted,
		Current: total,
		Total:   total,
		Message: fmt.Sprintf("Deployed %d contracts", total),
	})

	return result, nil
}

// deployOne runs the resolve, deploy, confirm, read and record steps for a single token
func (uc *DeployTokens) deployOne(ctx context.Context, spec domain.TokenSpec, current, total int) (*models.Deployment, error) {
	report := func(stage ProgressStage, format string, args ...any) {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   stage,
			Current: current,
			Total:   total,
			Message: fmt.Sprintf(format, args...),
			Spinner: true,
		})
	}
	fail := func(step domain.DeploymentStep, err error) error {
		return &domain.StepError{Kind: spec.Kind, Step: step, Err: err}
	}

	report(StageResolving, "Resolving %s", spec.Kind)
	contract, err := uc.resolveContract(ctx, spec.Kind)
	if err != nil {
		return nil, fail(domain.StepResolve, err)
	}

	report(StageDeploying, "Deploying %s(%q, %q)", spec.Kind, spec.Name, spec.Symbol)
	pending, err := uc.deployer.Deploy(ctx, contract, spec)
	if err != nil {
		return nil, fail(domain.StepDeploy, err)
	}
	uc.log.Debug("creation transaction sent", "kind", spec.Kind, "tx", pending.TxHash().Hex(), "address", pending.Address.Hex())

	report(StageConfirm, "Waiting for %s to be mined", pending.TxHash().Hex())
	deployment, err := uc.deployer.WaitDeployed(ctx, pending)
	if err != nil {
		return nil, fail(domain.StepConfirm, err)
	}

	report(StageReading, "Reading %s symbol", spec.Kind)
	symbol, err := uc.deployer.CallString(ctx, deployment, "symbol")
	if err != nil {
		return nil, fail(domain.StepRead, err)
	}
	deployment.Symbol = symbol

	if !uc.config.NoRecord && uc.store != nil {
		report(StageRecording, "Recording %s", deployment.DisplayName())
		if err := uc.store.SaveDeployment(ctx, deployment); err != nil {
			return nil, fail(domain.StepRecord, err)
		}
	}

	uc.log.Debug("contract deployed", "kind", spec.Kind, "symbol", symbol, "address", deployment.Address.Hex(), "block", deployment.BlockNumber)
	return deployment, nil
}

// resolveContract finds the artifact for a contract kind, asking the selector on ambiguity
func (uc *DeployTokens) resolveContract(ctx context.Context, kind domain.ContractKind) (*models.Contract, error) {
	contract, err := uc.contracts.GetContract(ctx, string(kind))
	if err == nil {
		return contract, nil
	}
	if !errors.Is(err, domain.ErrAmbiguousContract) || uc.selector == nil {
		return nil, err
	}

	matches := uc.contracts.SearchContracts(ctx, string(kind))
	selected, selErr := uc.selector.SelectContract(ctx, matches, fmt.Sprintf("Multiple %s artifacts found, select one", kind))
	if selErr != nil {
		return nil, fmt.Errorf("%w: %v", err, selErr)
	}
	return selected, nil
}
