package app

import (
	"github.com/tungnguyen/tokendeploy/internal/adapters/blockchain"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	DeployTokens    *usecase.DeployTokens
	ListDeployments *usecase.ListDeployments
	ManageNode      *usecase.ManageNode

	// Adapters (needed for special cases like log streaming)
	NodeManager usecase.NodeManager
	Deployer    *blockchain.Deployer
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	deployTokens *usecase.DeployTokens,
	listDeployments *usecase.ListDeployments,
	manageNode *usecase.ManageNode,
	nodeManager usecase.NodeManager,
	deployer *blockchain.Deployer,
) (*App, error) {
	return &App{
		Config:          cfg,
		DeployTokens:    deployTokens,
		ListDeployments: listDeployments,
		ManageNode:      manageNode,
		NodeManager:     nodeManager,
		Deployer:        deployer,
	}, nil
}

// Close releases connections held by adapters
func (a *App) Close() {
	if a.Deployer != nil {
		a.Deployer.Close()
	}
}
