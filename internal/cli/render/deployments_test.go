package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

func listResult() *usecase.DeploymentListResult {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	deps := []*models.Deployment{
		{
			ID: "31337/ERC20Token/0x5FbDB2315678afecb367f032d93F642f64180aa3", Kind: domain.ERC20Token,
			Name: "Tung Nguyen", Symbol: "TNT", Network: "localhost", ChainID: 31337, BlockNumber: 1,
			Address: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), CreatedAt: created,
		},
		{
			ID: "31337/ERC721Token/0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512", Kind: domain.ERC721Token,
			Name: "Tung", Symbol: "TNFT", Network: "localhost", ChainID: 31337, BlockNumber: 2,
			Address: common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"), CreatedAt: created.Add(time.Second),
		},
		{
			ID: "11155111/ERC20Token/0x0000000000000000000000000000000000000003", Kind: domain.ERC20Token,
			Name: "Tung Nguyen", Symbol: "TNT", Network: "sepolia", ChainID: 11155111, BlockNumber: 7,
			Address: common.HexToAddress("0x03"), CreatedAt: created.Add(time.Minute),
		},
	}
	return &usecase.DeploymentListResult{
		Deployments: deps,
		Summary: usecase.DeploymentSummary{
			Total:   3,
			ByKind:  map[domain.ContractKind]int{domain.ERC20Token: 2, domain.ERC721Token: 1},
			ByChain: map[uint64]int{31337: 2, 11155111: 1},
		},
	}
}

func TestDeploymentsRenderer_Table(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewDeploymentsRenderer(&out, FormatTable).Render(listResult()))

	output := out.String()
	assert.Contains(t, output, "31337 (localhost)")
	assert.Contains(t, output, "11155111 (sepolia)")
	assert.Contains(t, output, "ERC20Token:TNT")
	assert.Contains(t, output, "ERC721Token:TNFT")
	assert.Contains(t, output, "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	assert.Contains(t, output, "Total deployments: 3 (ERC20Token: 2, ERC721Token: 1)")
	assert.Less(t, strings.Index(output, "31337 (localhost)"), strings.Index(output, "11155111 (sepolia)"))
}

func TestDeploymentsRenderer_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewDeploymentsRenderer(&out, "").Render(&usecase.DeploymentListResult{}))
	assert.Equal(t, "No deployments found\n", out.String())
}

func TestDeploymentsRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewDeploymentsRenderer(&out, FormatJSON).Render(listResult()))

	var views []deploymentView
	require.NoError(t, json.Unmarshal(out.Bytes(), &views))
	require.Len(t, views, 3)
	assert.Equal(t, "ERC20Token", views[0].Kind)
	assert.Equal(t, "TNT", views[0].Symbol)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", views[0].Address)
}

func TestDeploymentsRenderer_YAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewDeploymentsRenderer(&out, FormatYAML).Render(listResult()))

	var views []deploymentView
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &views))
	require.Len(t, views, 3)
	assert.Equal(t, "TNFT", views[1].Symbol)
	assert.Equal(t, uint64(31337), views[1].ChainID)
}

func TestDeploymentsRenderer_UnknownFormat(t *testing.T) {
	var out bytes.Buffer
	err := NewDeploymentsRenderer(&out, "xml").Render(listResult())
	assert.Error(t, err)
}
