package blockchain

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
)

// symbolTokenABI matches the token constructors and the symbol getter
const symbolTokenABI = `[
	{"type":"constructor","inputs":[{"name":"name_","type":"string"},{"name":"symbol_","type":"string"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"symbol","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"}
]`

// symbolTokenBytecode keeps its ABI-encoded constructor arguments as part of the
// runtime code and answers every call with the second (symbol) argument.
// The init code returns code[13:]. The 28-byte runtime stores 0x20 at mem[0],
// copies the symbol offset word from the args into mem[0x20], then copies the
// symbol length and data over it and returns mem[0:0x60].
const symbolTokenBytecode = "0x600d380380600d6000396000f3" +
	"6020600052" + "6020603c602039" + "6040602051601c01602039" + "60606000f3"

func newSimulatedDeployer(t *testing.T) (*Deployer, *simulated.Backend) {
	t.Helper()

	key, err := crypto.HexToECDSA(devAccountKey)
	require.NoError(t, err)
	sim := simulated.NewBackend(types.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))},
	})
	t.Cleanup(func() { sim.Close() })

	network := &domain.Network{Name: "simulated", RPCURL: "simulated"}
	d := NewDeployer(&config.RuntimeConfig{Network: network, DeployerKey: devAccountKey}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.dial = func(ctx context.Context, rpcURL string) (Backend, error) {
		return sim.Client(), nil
	}
	return d, sim
}

func symbolTokenContract(kind domain.ContractKind) *models.Contract {
	return &models.Contract{
		Name: string(kind),
		Path: "src/" + string(kind) + ".sol",
		Artifact: &models.Artifact{
			ABI:      []byte(symbolTokenABI),
			Bytecode: models.BytecodeObject{Object: symbolTokenBytecode},
		},
	}
}

func TestDeployer_DeployOnSimulatedChain(t *testing.T) {
	ctx := context.Background()
	d, sim := newSimulatedDeployer(t)
	defer d.Close()

	for i, spec := range domain.DefaultTokenPlan() {
		pending, err := d.Deploy(ctx, symbolTokenContract(spec.Kind), spec)
		require.NoError(t, err, spec.Kind)
		assert.Equal(t, uint64(i), pending.Nonce)
		assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), pending.Deployer)
		assert.Equal(t, crypto.CreateAddress(pending.Deployer, pending.Nonce), pending.Address)

		sim.Commit()

		deployment, err := d.WaitDeployed(ctx, pending)
		require.NoError(t, err, spec.Kind)
		assert.Equal(t, pending.Address, deployment.Address)
		assert.Equal(t, pending.TxHash(), deployment.TxHash)
		assert.Equal(t, spec.Kind, deployment.Kind)
		assert.Equal(t, spec.Name, deployment.Name)
		assert.Equal(t, uint64(1337), deployment.ChainID)
		assert.Equal(t, uint64(i+1), deployment.BlockNumber)
		assert.NotZero(t, deployment.GasUsed)
		assert.Equal(t, models.NewDeploymentID(1337, spec.Kind, pending.Address), deployment.ID)

		symbol, err := d.CallString(ctx, deployment, "symbol")
		require.NoError(t, err, spec.Kind)
		assert.Equal(t, spec.Symbol, symbol)
	}
}

func TestDeployer_DeployPacksConstructorArgs(t *testing.T) {
	ctx := context.Background()
	d, _ := newSimulatedDeployer(t)
	defer d.Close()

	spec := domain.DefaultTokenPlan()[0]
	contract := symbolTokenContract(spec.Kind)
	pending, err := d.Deploy(ctx, contract, spec)
	require.NoError(t, err)

	parsed, err := contract.ParseABI()
	require.NoError(t, err)
	want, err := parsed.Pack("", "Tung Nguyen", "TNT")
	require.NoError(t, err)
	assert.Equal(t, want, pending.ConstructorArgs)

	code, err := contract.CreationCode()
	require.NoError(t, err)
	assert.Equal(t, append(code, want...), pending.Tx.Data())
}

func TestDeployer_DeployRejectsUndeployableArtifact(t *testing.T) {
	d, _ := newSimulatedDeployer(t)
	defer d.Close()

	contract := symbolTokenContract(domain.ERC20Token)
	contract.Artifact.Bytecode.Object = "0x"

	_, err := d.Deploy(context.Background(), contract, domain.DefaultTokenPlan()[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no creation bytecode")
}
