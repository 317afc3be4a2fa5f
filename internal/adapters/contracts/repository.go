package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// Repository discovers and indexes compiled contracts from the Foundry out directory
type Repository struct {
	projectRoot   string
	outDir        string
	srcDir        string
	contracts     map[string]*models.Contract   // key: "path:contractName"
	contractNames map[string][]*models.Contract // key: contract name
	log           *slog.Logger
	mu            sync.RWMutex
	indexed       bool
}

// NewRepository creates a new contract repository for the configured project
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	srcDir := "src"
	if cfg.FoundryConfig != nil {
		if profile, ok := cfg.FoundryConfig.Profile[cfg.Namespace]; ok && profile.SrcPath != "" {
			srcDir = profile.SrcPath
		} else if profile, ok := cfg.FoundryConfig.Profile["default"]; ok && profile.SrcPath != "" {
			srcDir = profile.SrcPath
		}
	}
	return &Repository{
		projectRoot:   cfg.ProjectRoot,
		outDir:        cfg.OutDir(),
		srcDir:        srcDir,
		log:           log.With("component", "ContractRepository"),
		contracts:     make(map[string]*models.Contract),
		contractNames: make(map[string][]*models.Contract),
	}
}

// Index walks the out directory once and loads every deployable artifact
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	outDir := filepath.Join(r.projectRoot, r.outDir)
	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		return fmt.Errorf("artifact directory %s not found (run forge build first)", r.outDir)
	}

	err := filepath.Walk(outDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}
		return r.processArtifact(path)
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts: %w", err)
	}

	r.indexed = true
	r.log.Debug("indexed artifacts", "count", len(r.contracts), "dir", outDir)
	return nil
}

// processArtifact loads a single artifact file into the indexes
func (r *Repository) processArtifact(artifactPath string) error {
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return err
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		// Not every json file under out/ is an artifact
		r.log.Debug("skipping unreadable artifact", "path", artifactPath, "error", err)
		return nil
	}

	// Interfaces and abstract contracts have no creation code
	if artifact.Bytecode.Object == "" || artifact.Bytecode.Object == "0x" {
		return nil
	}

	var contractName, sourceName string
	for source, contract := range artifact.Metadata.Settings.CompilationTarget {
		sourceName = source
		contractName = contract
		break // There should only be one entry
	}
	if contractName == "" {
		// Older artifacts without metadata: out/<File>.sol/<Name>.json
		contractName = strings.TrimSuffix(filepath.Base(artifactPath), ".json")
		sourceName = filepath.Base(filepath.Dir(artifactPath))
	}

	relArtifactPath, _ := filepath.Rel(r.projectRoot, artifactPath)
	contract := &models.Contract{
		Name:         contractName,
		Path:         sourceName,
		ArtifactPath: relArtifactPath,
		Artifact:     &artifact,
	}

	fullKey := contract.FullName()
	if _, exists := r.contracts[fullKey]; exists {
		// Same contract compiled with several solc versions, keep the first
		return nil
	}
	r.contracts[fullKey] = contract
	r.contractNames[contract.Name] = append(r.contractNames[contract.Name], contract)
	return nil
}

// GetContract retrieves a contract by name or "path:name"
func (r *Repository) GetContract(ctx context.Context, key string) (*models.Contract, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if contract, exists := r.contracts[key]; exists {
		return contract, nil
	}

	matches := r.contractNames[key]
	switch len(matches) {
	case 0:
		return nil, &domain.ContractNotFoundError{Name: key, Suggestions: r.suggest(key)}
	case 1:
		return matches[0], nil
	}

	// Prefer the project's own sources over dependencies with the same name
	inSrc := lo.Filter(matches, func(c *models.Contract, _ int) bool {
		return strings.HasPrefix(c.Path, r.srcDir+"/")
	})
	if len(inSrc) == 1 {
		return inSrc[0], nil
	}

	paths := lo.Map(matches, func(c *models.Contract, _ int) string { return c.Path })
	sort.Strings(paths)
	return nil, fmt.Errorf("%w: %s is defined in %s - use path:name to disambiguate",
		domain.ErrAmbiguousContract, key, strings.Join(paths, ", "))
}

// SearchContracts returns every contract with the given name, sorted by path
func (r *Repository) SearchContracts(ctx context.Context, name string) []*models.Contract {
	if err := r.Index(); err != nil {
		r.log.Warn("failed to index artifacts", "error", err)
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := append([]*models.Contract(nil), r.contractNames[name]...)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results
}

// suggest returns up to three indexed contract names close to the given one
func (r *Repository) suggest(name string) []string {
	names := lo.Keys(r.contractNames)
	sort.Strings(names)
	matches := fuzzy.Find(name, names)
	suggestions := lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

// Ensure the adapter implements the interface
var _ usecase.ContractRepository = (*Repository)(nil)
