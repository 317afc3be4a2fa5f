package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tungnguyen/tokendeploy/internal/adapters/progress"
	"github.com/tungnguyen/tokendeploy/internal/app"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

type memoryStore struct {
	deployments []*models.Deployment
	lastFilter  domain.DeploymentFilter
}

func (s *memoryStore) SaveDeployment(_ context.Context, dep *models.Deployment) error {
	s.deployments = append(s.deployments, dep)
	return nil
}

func (s *memoryStore) ListDeployments(_ context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	s.lastFilter = filter
	return s.deployments, nil
}

func testApp(store usecase.DeploymentStore) *app.App {
	return &app.App{
		Config: &config.RuntimeConfig{
			Network: &domain.Network{Name: "sepolia", ChainID: 11155111},
			Timeout: time.Minute,
		},
		ListDeployments: usecase.NewListDeployments(store, progress.NewNopSink()),
	}
}

func executeRoot(t *testing.T, initializer appInitializer, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(initializer)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	initialized := false
	out, err := executeRoot(t, func(*cobra.Command) (*app.App, error) {
		initialized = true
		return nil, errors.New("unexpected")
	}, "version")

	require.NoError(t, err)
	assert.Equal(t, "tokendeploy version dev\n", out)
	assert.False(t, initialized)
}

func TestRootRejectsPositionalArgs(t *testing.T) {
	_, err := executeRoot(t, func(*cobra.Command) (*app.App, error) {
		return testApp(&memoryStore{}), nil
	}, "extra")
	assert.Error(t, err)
}

func TestRootInitializerFailure(t *testing.T) {
	_, err := executeRoot(t, func(*cobra.Command) (*app.App, error) {
		return nil, errors.New("foundry.toml not found")
	}, "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize app")
	assert.Contains(t, err.Error(), "foundry.toml not found")
}

func TestListCommand(t *testing.T) {
	store := &memoryStore{deployments: []*models.Deployment{{
		ID:      "11155111/ERC20Token/0x5FbDB2315678afecb367f032d93F642f64180aa3",
		Kind:    domain.ERC20Token,
		Symbol:  "TNT",
		Address: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		Network: "sepolia",
		ChainID: 11155111,
	}}}
	initializer := func(*cobra.Command) (*app.App, error) { return testApp(store), nil }

	t.Run("json output", func(t *testing.T) {
		out, err := executeRoot(t, initializer, "list", "-o", "json")
		require.NoError(t, err)

		var views []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &views))
		require.Len(t, views, 1)
		assert.Equal(t, "TNT", views[0]["symbol"])
		assert.Empty(t, store.lastFilter.Network)
	})

	t.Run("network flag filters by resolved network", func(t *testing.T) {
		_, err := executeRoot(t, initializer, "list", "--network", "sepolia", "--kind", "ERC20Token", "--symbol", "TNT")
		require.NoError(t, err)
		assert.Equal(t, "sepolia", store.lastFilter.Network)
		assert.Equal(t, domain.ERC20Token, store.lastFilter.Kind)
		assert.Equal(t, "TNT", store.lastFilter.Symbol)
	})

	t.Run("invalid kind", func(t *testing.T) {
		_, err := executeRoot(t, initializer, "list", "--kind", "ERC1155Token")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid kind")
	})
}

func TestAppReleasedWhenCommandFails(t *testing.T) {
	root := newRootCmd(func(*cobra.Command) (*app.App, error) { return testApp(&memoryStore{}), nil })
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"list", "--kind", "ERC1155Token"})

	require.Error(t, root.ExecuteContext(context.Background()))

	listCmd, _, err := root.Find([]string{"list"})
	require.NoError(t, err)
	require.NotNil(t, listCmd.Context())
	assert.ErrorIs(t, listCmd.Context().Err(), context.Canceled)
}

func TestAppReleasedAfterSuccess(t *testing.T) {
	root := newRootCmd(func(*cobra.Command) (*app.App, error) { return testApp(&memoryStore{}), nil })
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"list"})

	require.NoError(t, root.ExecuteContext(context.Background()))

	listCmd, _, err := root.Find([]string{"list"})
	require.NoError(t, err)
	assert.ErrorIs(t, listCmd.Context().Err(), context.Canceled)
}

func TestWorksOutsideProject(t *testing.T) {
	root := newRootCmd(initApp)
	start, _, err := root.Find([]string{"node", "start"})
	require.NoError(t, err)
	assert.True(t, worksOutsideProject(start))

	deploy, _, err := root.Find([]string{"deploy"})
	require.NoError(t, err)
	assert.False(t, worksOutsideProject(deploy))
}

func TestNodeCommandFlags(t *testing.T) {
	root := newRootCmd(initApp)
	for _, op := range []string{"start", "stop", "restart", "status", "logs"} {
		cmd, _, err := root.Find([]string{"node", op})
		require.NoError(t, err, op)
		assert.Equal(t, "anvil", cmd.Flag("name").DefValue, op)
		assert.Equal(t, "8545", cmd.Flag("port").DefValue, op)
		assert.NotNil(t, cmd.Flag("chain-id"), op)
	}
}
