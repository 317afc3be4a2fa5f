package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockCompiler is a mock implementation of ContractCompiler
type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Build(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockContractRepository is a mock implementation of ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) GetContract(ctx context.Context, name string) (*models.Contract, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *MockContractRepository) SearchContracts(ctx context.Context, name string) []*models.Contract {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Contract)
}

// MockSelector is a mock implementation of ContractSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectContract(ctx context.Context, contracts []*models.Contract, prompt string) (*models.Contract, error) {
	args := m.Called(ctx, contracts, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

// MockDeployer is a mock implementation of ContractDeployer
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Deploy(ctx context.Context, contract *models.Contract, spec domain.TokenSpec) (*models.PendingDeployment, error) {
	args := m.Called(ctx, contract, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingDeployment), args.Error(1)
}

func (m *MockDeployer) WaitDeployed(ctx context.Context, pending *models.PendingDeployment) (*models.Deployment, error) {
	args := m.Called(ctx, pending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeployer) CallString(ctx context.Context, deployment *models.Deployment, method string) (string, error) {
	args := m.Called(ctx, deployment, method)
	return args.String(0), args.Error(1)
}

// MockDeploymentStore is a mock implementation of DeploymentStore
type MockDeploymentStore struct {
	mock.Mock
}

func (m *MockDeploymentStore) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	return m.Called(ctx, deployment).Error(0)
}

func (m *MockDeploymentStore) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) {}

func (m *MockProgressSink) Error(message string) {
	m.errors = append(m.errors, message)
}

// fakeChain is an in-memory deployer. Every Deploy mints a fresh address and
// instances only answer calls once WaitDeployed has confirmed them.
type fakeChain struct {
	mu        sync.Mutex
	nonce     uint64
	block     uint64
	confirmed map[common.Address]domain.TokenSpec
	calls     []string
}

func newFakeChain() *fakeChain {
	return &fakeChain{confirmed: make(map[common.Address]domain.TokenSpec)}
}

func (f *fakeChain) Deploy(ctx context.Context, contract *models.Contract, spec domain.TokenSpec) (*models.PendingDeployment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "deploy:"+string(spec.Kind))

	deployer := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	nonce := f.nonce
	f.nonce++
	tx := types.NewContractCreation(nonce, big.NewInt(0), 3_000_000, big.NewInt(1), []byte{0x60, 0x80})
	return &models.PendingDeployment{
		Contract: contract,
		Spec:     spec,
		Address:  common.BigToAddress(new(big.Int).SetUint64(0x1000 + nonce)),
		Deployer: deployer,
		Nonce:    nonce,
		ChainID:  big.NewInt(31337),
		Tx:       tx,
	}, nil
}

func (f *fakeChain) WaitDeployed(ctx context.Context, pending *models.PendingDeployment) (*models.Deployment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "wait:"+string(pending.Spec.Kind))

	f.block++
	f.confirmed[pending.Address] = pending.Spec
	return &models.Deployment{
		ID:          models.NewDeploymentID(31337, pending.Spec.Kind, pending.Address),
		Kind:        pending.Spec.Kind,
		Name:        pending.Spec.Name,
		Address:     pending.Address,
		ChainID:     31337,
		TxHash:      pending.TxHash(),
		BlockNumber: f.block,
	}, nil
}

func (f *fakeChain) CallString(ctx context.Context, deployment *models.Deployment, method string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "call:"+string(deployment.Kind))

	spec, ok := f.confirmed[deployment.Address]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrNotDeployed, deployment.Address.Hex())
	}
	if method != "symbol" {
		return "", fmt.Errorf("unexpected method %s", method)
	}
	return spec.Symbol, nil
}
