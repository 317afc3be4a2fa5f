package contracts

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
)

const tokenABI = `[{"type":"constructor","inputs":[{"name":"name_","type":"string"},{"name":"symbol_","type":"string"}]},{"type":"function","name":"symbol","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"}]`

func writeArtifact(t *testing.T, root, rel, source, name, bytecode string) {
	t.Helper()
	artifact := map[string]any{
		"abi":      json.RawMessage(tokenABI),
		"bytecode": map[string]any{"object": bytecode},
		"metadata": map[string]any{
			"compiler": map[string]any{"version": "0.8.20+commit.a1b79de6"},
			"settings": map[string]any{"compilationTarget": map[string]string{source: name}},
		},
	}
	data, err := json.Marshal(artifact)
	require.NoError(t, err)
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func newTestRepository(t *testing.T, root string) *Repository {
	t.Helper()
	cfg := &config.RuntimeConfig{
		ProjectRoot: root,
		Namespace:   "default",
		FoundryConfig: &config.FoundryConfig{
			Profile: map[string]config.ProfileConfig{"default": {SrcPath: "src", OutPath: "out"}},
		},
	}
	return NewRepository(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	writeArtifact(t, root, "out/ERC20Token.sol/ERC20Token.json", "src/ERC20Token.sol", "ERC20Token", "0x6080")
	writeArtifact(t, root, "out/ERC721Token.sol/ERC721Token.json", "src/ERC721Token.sol", "ERC721Token", "0x6080")
	writeArtifact(t, root, "out/IERC20.sol/IERC20.json", "lib/openzeppelin/IERC20.sol", "IERC20", "0x")
	writeArtifact(t, root, "out/Counter.sol/Counter.json", "src/Counter.sol", "Counter", "0x6080")
	writeArtifact(t, root, "out/Counter.sol/Counter.0.8.19.json", "test/mocks/Counter.sol", "Counter", "0x6080")
	writeArtifact(t, root, "out/Mock.sol/Mock.json", "test/a/Mock.sol", "Mock", "0x6080")
	writeArtifact(t, root, "out/Mock2.sol/Mock.json", "test/b/Mock.sol", "Mock", "0x6080")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "out", "build-info"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "out", "build-info", "abc.json"), []byte(`{"id":"abc"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "out", "junk.json"), []byte(`not json`), 0644))

	repo := newTestRepository(t, root)

	t.Run("by name", func(t *testing.T) {
		contract, err := repo.GetContract(ctx, "ERC20Token")
		require.NoError(t, err)
		assert.Equal(t, "ERC20Token", contract.Name)
		assert.Equal(t, "src/ERC20Token.sol", contract.Path)
		assert.Equal(t, filepath.Join("out", "ERC20Token.sol", "ERC20Token.json"), contract.ArtifactPath)
		assert.Equal(t, "0.8.20+commit.a1b79de6", contract.Artifact.Metadata.Compiler.Version)

		parsed, err := contract.ParseABI()
		require.NoError(t, err)
		assert.Contains(t, parsed.Methods, "symbol")
		assert.Len(t, parsed.Constructor.Inputs, 2)
	})

	t.Run("by full name", func(t *testing.T) {
		contract, err := repo.GetContract(ctx, "src/ERC721Token.sol:ERC721Token")
		require.NoError(t, err)
		assert.Equal(t, "ERC721Token", contract.Name)
	})

	t.Run("interfaces are not indexed", func(t *testing.T) {
		_, err := repo.GetContract(ctx, "IERC20")
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
	})

	t.Run("not found suggests close names", func(t *testing.T) {
		_, err := repo.GetContract(ctx, "ERC20")
		require.Error(t, err)

		var notFound *domain.ContractNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Contains(t, notFound.Suggestions, "ERC20Token")
		assert.Contains(t, err.Error(), "did you mean")
	})

	t.Run("source contract wins over test duplicate", func(t *testing.T) {
		contract, err := repo.GetContract(ctx, "Counter")
		require.NoError(t, err)
		assert.Equal(t, "src/Counter.sol", contract.Path)
	})

	t.Run("ambiguous outside src", func(t *testing.T) {
		_, err := repo.GetContract(ctx, "Mock")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAmbiguousContract)
		assert.Contains(t, err.Error(), "test/a/Mock.sol, test/b/Mock.sol")

		matches := repo.SearchContracts(ctx, "Mock")
		require.Len(t, matches, 2)
		assert.Equal(t, "test/a/Mock.sol", matches[0].Path)
	})
}

func TestRepositoryMissingOutDir(t *testing.T) {
	repo := newTestRepository(t, t.TempDir())

	_, err := repo.GetContract(context.Background(), "ERC20Token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run forge build first")
	assert.Nil(t, repo.SearchContracts(context.Background(), "ERC20Token"))
}
