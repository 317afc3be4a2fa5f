package usecase

import (
	"context"
	"io"

	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
)

// ContractCompiler compiles the project so artifacts are up to date
type ContractCompiler interface {
	Build(ctx context.Context) error
}

// ContractRepository provides access to compiled contracts by name.
// It is the source of deployable contract factories.
type ContractRepository interface {
	GetContract(ctx context.Context, name string) (*models.Contract, error)
	SearchContracts(ctx context.Context, name string) []*models.Contract
}

// ContractSelector picks one contract when several artifacts share a name
type ContractSelector interface {
	SelectContract(ctx context.Context, contracts []*models.Contract, prompt string) (*models.Contract, error)
}

// ContractDeployer submits contract creations and talks to deployed instances
type ContractDeployer interface {
	// Deploy sends the creation transaction and returns without waiting for it to be mined
	Deploy(ctx context.Context, contract *models.Contract, spec domain.TokenSpec) (*models.PendingDeployment, error)
	// WaitDeployed blocks until the creation transaction is mined and code exists at the address
	WaitDeployed(ctx context.Context, pending *models.PendingDeployment) (*models.Deployment, error)
	// CallString reads a string-returning view method of a confirmed deployment
	CallString(ctx context.Context, deployment *models.Deployment, method string) (string, error)
}

// DeploymentStore handles persistence of confirmed deployments
type DeploymentStore interface {
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
}

// NodeManager manages local development nodes
type NodeManager interface {
	Start(ctx context.Context, instance *domain.NodeInstance) error
	Stop(ctx context.Context, instance *domain.NodeInstance) error
	GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error)
	StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error
}

// Progress tracking interfaces

// ProgressStage names a stage reported while deploying
type ProgressStage string

const (
	StageCompiling ProgressStage = "compiling"
	StageResolving ProgressStage = "resolving"
	StageDeploying ProgressStage = "deploying"
	StageConfirm   ProgressStage = "confirming"
	StageReading   ProgressStage = "reading"
	StageRecording ProgressStage = "recording"
	StageDeployed  ProgressStage = "deployed"
	StageCompleted ProgressStage = "completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   ProgressStage
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}
