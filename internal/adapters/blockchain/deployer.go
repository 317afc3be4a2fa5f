package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	internalconfig "github.com/tungnguyen/tokendeploy/internal/config"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// devAccountKey is the first account of anvil's and hardhat's default mnemonic
const devAccountKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// Backend is the part of an RPC client the deployer needs
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dialer opens a Backend for an RPC URL
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

// DialEthclient connects to an RPC endpoint with go-ethereum's ethclient
func DialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Deployer implements ContractDeployer against an EVM JSON-RPC endpoint
type Deployer struct {
	network     *domain.Network
	deployerKey string
	dial        Dialer
	log         *slog.Logger

	mu      sync.Mutex
	backend Backend
	opts    *bind.TransactOpts
	chainID *big.Int
}

// NewDeployer creates a deployer for the configured network. The connection is opened on first use.
func NewDeployer(cfg *config.RuntimeConfig, log *slog.Logger) *Deployer {
	return &Deployer{
		network:     cfg.Network,
		deployerKey: cfg.DeployerKey,
		dial:        DialEthclient,
		log:         log.With("component", "Deployer"),
	}
}

// connect dials the RPC, checks the chain id and prepares the signer
func (d *Deployer) connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.backend != nil {
		return nil
	}
	if d.network == nil {
		return fmt.Errorf("no network configured")
	}

	backend, err := d.dial(ctx, d.network.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to %s RPC: %w", d.network.Name, err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		closeBackend(backend)
		return fmt.Errorf("failed to get chain ID: %w", err)
	}
	if d.network.ChainID != 0 && d.network.ChainID != chainID.Uint64() {
		closeBackend(backend)
		return fmt.Errorf("%w: %s expected chain %d, RPC reports %d",
			domain.ErrNetworkMismatch, d.network.Name, d.network.ChainID, chainID.Uint64())
	}
	d.network.ChainID = chainID.Uint64()
	if d.network.ExplorerURL == "" {
		d.network.ExplorerURL = internalconfig.ExplorerURL(d.network.ChainID)
	}

	key, err := d.signerKey()
	if err != nil {
		closeBackend(backend)
		return err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		closeBackend(backend)
		return fmt.Errorf("failed to create transactor: %w", err)
	}

	d.backend = backend
	d.opts = opts
	d.chainID = chainID
	d.log.Debug("connected", "network", d.network.Name, "chainId", chainID, "deployer", opts.From.Hex())
	return nil
}

// signerKey returns the configured key, or the dev account on the dev chain id
// and on the local node whatever chain id it was started with
func (d *Deployer) signerKey() (*ecdsa.PrivateKey, error) {
	if d.deployerKey != "" {
		return internalconfig.ParsePrivateKey(d.deployerKey)
	}
	if d.network.IsDevChain() || d.network.IsLocalNode() {
		d.log.Warn("no deployer key configured, using the default development account", "network", d.network.Name)
		return crypto.HexToECDSA(devAccountKey)
	}
	return nil, fmt.Errorf("%w for network %s (set TOKENDEPLOY_PRIVATE_KEY or [profile.<name>.deployer] private_key)",
		domain.ErrNoSigner, d.network.Name)
}

// Deploy sends the creation transaction for a contract
func (d *Deployer) Deploy(ctx context.Context, contract *models.Contract, spec domain.TokenSpec) (*models.PendingDeployment, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}

	parsedABI, err := contract.ParseABI()
	if err != nil {
		return nil, err
	}
	bytecode, err := contract.CreationCode()
	if err != nil {
		return nil, err
	}

	args := spec.ConstructorArgs()
	packedArgs, err := parsedABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	opts := *d.opts
	opts.Context = ctx

	address, tx, _, err := bind.DeployContract(&opts, *parsedABI, bytecode, d.backend, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send creation transaction: %w", err)
	}

	return &models.PendingDeployment{
		Contract:        contract,
		Spec:            spec,
		Address:         address,
		Deployer:        opts.From,
		Nonce:           tx.Nonce(),
		ChainID:         new(big.Int).Set(d.chainID),
		Tx:              tx,
		ConstructorArgs: packedArgs,
	}, nil
}

// WaitDeployed waits for the creation transaction to be mined and checks the result
func (d *Deployer) WaitDeployed(ctx context.Context, pending *models.PendingDeployment) (*models.Deployment, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}
	if pending == nil || pending.Tx == nil {
		return nil, fmt.Errorf("no creation transaction to wait for")
	}

	receipt, err := bind.WaitMined(ctx, d.backend, pending.Tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", pending.TxHash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: transaction %s reverted in block %s",
			domain.ErrDeploymentFailed, receipt.TxHash.Hex(), receipt.BlockNumber)
	}

	address := receipt.ContractAddress
	if address == (common.Address{}) {
		address = pending.Address
	}
	code, err := d.backend.CodeAt(ctx, address, receipt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to read code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: no code at %s after deployment", domain.ErrDeploymentFailed, address.Hex())
	}

	var blockNumber uint64
	if receipt.BlockNumber != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}

	deployment := &models.Deployment{
		ID:              models.NewDeploymentID(d.network.ChainID, pending.Spec.Kind, address),
		Kind:            pending.Spec.Kind,
		Name:            pending.Spec.Name,
		Address:         address,
		Network:         d.network.Name,
		ChainID:         d.network.ChainID,
		TxHash:          receipt.TxHash,
		BlockNumber:     blockNumber,
		GasUsed:         receipt.GasUsed,
		Deployer:        pending.Deployer,
		ConstructorArgs: common.Bytes2Hex(pending.ConstructorArgs),
		CreatedAt:       time.Now().UTC(),
	}
	if pending.Contract != nil {
		deployment.Artifact = models.ArtifactInfo{
			Path:         pending.Contract.FullName(),
			ArtifactPath: pending.Contract.ArtifactPath,
		}
		if pending.Contract.Artifact != nil {
			deployment.Artifact.CompilerVersion = pending.Contract.Artifact.Metadata.Compiler.Version
		}
	}
	return deployment, nil
}

// CallString calls a view method returning a single string on a confirmed deployment
func (d *Deployer) CallString(ctx context.Context, deployment *models.Deployment, method string) (string, error) {
	if err := d.connect(ctx); err != nil {
		return "", err
	}
	if deployment == nil || deployment.Address == (common.Address{}) {
		return "", domain.ErrNotDeployed
	}

	parsedABI, err := stringGetter(method)
	if err != nil {
		return "", err
	}

	contract := bind.NewBoundContract(deployment.Address, *parsedABI, d.backend, d.backend, d.backend)
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method); err != nil {
		return "", fmt.Errorf("failed to call %s on %s: %w", method, deployment.Address.Hex(), err)
	}
	if len(out) != 1 {
		return "", fmt.Errorf("%s returned %d values, expected 1", method, len(out))
	}
	value, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%s returned %T, expected string", method, out[0])
	}
	return value, nil
}

// Close releases the RPC connection
func (d *Deployer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.backend != nil {
		closeBackend(d.backend)
		d.backend = nil
	}
}

func closeBackend(backend Backend) {
	if closer, ok := backend.(interface{ Close() }); ok {
		closer.Close()
	}
}

// Ensure the adapter implements the interface
var _ usecase.ContractDeployer = (*Deployer)(nil)

// stringGetterABI describes a no-argument view method returning a string
const stringGetterABI = `[{"type":"function","name":%q,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]}]`

func stringGetter(method string) (*abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(fmt.Sprintf(stringGetterABI, method)))
	if err != nil {
		return nil, fmt.Errorf("failed to build ABI for %s: %w", method, err)
	}
	return &parsed, nil
}
