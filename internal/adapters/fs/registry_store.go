package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// DeploymentsFile is the registry file inside the data directory
const DeploymentsFile = "deployments.json"

// RegistryStore keeps confirmed deployments in a JSON file keyed by deployment ID
type RegistryStore struct {
	dataDir string
	log     *slog.Logger

	mu          sync.Mutex
	loaded      bool
	deployments map[string]*models.Deployment
}

// NewRegistryStore creates a registry store under the configured data directory
func NewRegistryStore(cfg *config.RuntimeConfig, log *slog.Logger) *RegistryStore {
	return &RegistryStore{
		dataDir:     cfg.DataDir,
		log:         log.With("component", "RegistryStore"),
		deployments: make(map[string]*models.Deployment),
	}
}

// SaveDeployment records a deployment and writes the registry to disk.
// An address is only reused when the chain was reset (a restarted local node),
// so an existing record with the same ID is stale and gets replaced.
func (s *RegistryStore) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment == nil || deployment.ID == "" {
		return fmt.Errorf("deployment has no ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	previous, exists := s.deployments[deployment.ID]
	if exists {
		s.log.Warn("replacing stale deployment record, the chain was probably reset",
			"id", deployment.ID, "previousTx", previous.TxHash.Hex(), "previousCreatedAt", previous.CreatedAt)
	}

	s.deployments[deployment.ID] = deployment
	if err := s.save(); err != nil {
		if exists {
			s.deployments[deployment.ID] = previous
		} else {
			delete(s.deployments, deployment.ID)
		}
		return err
	}
	return nil
}

// GetDeployment retrieves a deployment by ID
func (s *RegistryStore) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	dep, ok := s.deployments[id]
	if !ok {
		return nil, fmt.Errorf("deployment %s: %w", id, domain.ErrNotFound)
	}
	return dep, nil
}

// ListDeployments retrieves deployments matching the filter
func (s *RegistryStore) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	return lo.Filter(lo.Values(s.deployments), func(dep *models.Deployment, _ int) bool {
		if filter.ChainID != 0 && dep.ChainID != filter.ChainID {
			return false
		}
		if filter.Network != "" && dep.Network != filter.Network {
			return false
		}
		if filter.Kind != "" && dep.Kind != filter.Kind {
			return false
		}
		if filter.Symbol != "" && !strings.EqualFold(dep.Symbol, filter.Symbol) {
			return false
		}
		return true
	}), nil
}

// load reads the registry file once; a missing file is an empty registry
func (s *RegistryStore) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read registry: %w", err)
	}

	deployments := make(map[string]*models.Deployment)
	if err := json.Unmarshal(data, &deployments); err != nil {
		return fmt.Errorf("failed to parse registry %s: %w", s.path(), err)
	}
	s.deployments = deployments
	s.loaded = true
	return nil
}

// save writes the registry through a temp file and rename
func (s *RegistryStore) save() error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(s.deployments, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	path := s.path()
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	return os.Rename(tmpPath, path)
}

func (s *RegistryStore) path() string {
	return filepath.Join(s.dataDir, DeploymentsFile)
}

// Ensure the adapter implements the interface
var _ usecase.DeploymentStore = (*RegistryStore)(nil)
