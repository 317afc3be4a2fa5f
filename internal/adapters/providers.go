package adapters

import (
	"github.com/google/wire"
	"github.com/tungnguyen/tokendeploy/internal/adapters/anvil"
	"github.com/tungnguyen/tokendeploy/internal/adapters/blockchain"
	"github.com/tungnguyen/tokendeploy/internal/adapters/contracts"
	"github.com/tungnguyen/tokendeploy/internal/adapters/forge"
	"github.com/tungnguyen/tokendeploy/internal/adapters/fs"
	"github.com/tungnguyen/tokendeploy/internal/adapters/interactive"
	"github.com/tungnguyen/tokendeploy/internal/adapters/progress"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// ProvideProgressSink picks the spinner for terminals and a no-op sink otherwise
func ProvideProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.NonInteractive {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerSink()
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewRegistryStore,
	wire.Bind(new(usecase.DeploymentStore), new(*fs.RegistryStore)),

	contracts.NewRepository,
	wire.Bind(new(usecase.ContractRepository), new(*contracts.Repository)),
)

// ForgeSet provides forge-based implementations
var ForgeSet = wire.NewSet(
	forge.NewBuilder,
	wire.Bind(new(usecase.ContractCompiler), new(*forge.Builder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelector,
	wire.Bind(new(usecase.ContractSelector), new(*interactive.Selector)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),
)

// NodeSet provides local node management
var NodeSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.NodeManager), new(*anvil.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ProvideProgressSink,

	FSSet,
	ForgeSet,
	InteractiveSet,
	BlockchainSet,
	NodeSet,
)
