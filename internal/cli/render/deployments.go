package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// Output formats for deployment lists
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	chainHeader     = color.New(color.BgCyan, color.FgBlack)
	chainHeaderBold = color.New(color.BgCyan, color.FgBlack, color.Bold)
	erc20Style      = color.New(color.FgGreen, color.Bold)
	erc721Style     = color.New(color.FgMagenta, color.Bold)
	addressStyle    = color.New(color.FgWhite)
	timestampStyle  = color.New(color.Faint)
)

// deploymentView is the structured form of a deployment for json and yaml output
type deploymentView struct {
	ID          string    `json:"id" yaml:"id"`
	Kind        string    `json:"kind" yaml:"kind"`
	Name        string    `json:"name" yaml:"name"`
	Symbol      string    `json:"symbol" yaml:"symbol"`
	Address     string    `json:"address" yaml:"address"`
	Network     string    `json:"network" yaml:"network"`
	ChainID     uint64    `json:"chainId" yaml:"chainId"`
	TxHash      string    `json:"txHash" yaml:"txHash"`
	BlockNumber uint64    `json:"blockNumber" yaml:"blockNumber"`
	GasUsed     uint64    `json:"gasUsed" yaml:"gasUsed"`
	Deployer    string    `json:"deployer" yaml:"deployer"`
	Artifact    string    `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// DeploymentsRenderer renders deployment lists
type DeploymentsRenderer struct {
	out    io.Writer
	format string
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, format string) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out, format: format}
}

// Render renders the deployment list in the configured format
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	switch r.format {
	case "", FormatTable:
		return r.renderTable(result)
	case FormatJSON:
		return r.renderJSON(result)
	case FormatYAML:
		return r.renderYAML(result)
	default:
		return fmt.Errorf("unknown format %q (valid: table, json, yaml)", r.format)
	}
}

func (r *DeploymentsRenderer) renderJSON(result *usecase.DeploymentListResult) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(toViews(result.Deployments))
}

func (r *DeploymentsRenderer) renderYAML(result *usecase.DeploymentListResult) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(toViews(result.Deployments)); err != nil {
		return err
	}
	return enc.Close()
}

// renderTable groups deployments by chain, one aligned table per chain
func (r *DeploymentsRenderer) renderTable(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	byChain := lo.GroupBy(result.Deployments, func(dep *models.Deployment) uint64 {
		return dep.ChainID
	})
	chainIDs := lo.Keys(byChain)
	sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

	tables := lo.Map(chainIDs, func(chainID uint64, _ int) TableData {
		return r.buildDeploymentTable(byChain[chainID])
	})
	widths := calculateTableColumnWidths(tables)

	for i, chainID := range chainIDs {
		isLast := i == len(chainIDs)-1
		treePrefix, continuationPrefix := "├─", "│ "
		if isLast {
			treePrefix, continuationPrefix = "└─", "  "
		}

		network := byChain[chainID][0].Network
		label := fmt.Sprintf("%-30s", fmt.Sprintf("%d (%s)", chainID, network))
		fmt.Fprintf(r.out, "%s%s%s\n", treePrefix, chainHeader.Sprintf(" ⛓ %-8s ", "chain:"), chainHeaderBold.Sprint(label))
		fmt.Fprintln(r.out, continuationPrefix)
		fmt.Fprint(r.out, renderTableWithWidths(tables[i], widths, continuationPrefix))
		fmt.Fprintln(r.out)
		if !isLast {
			fmt.Fprintln(r.out, continuationPrefix)
		}
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Total deployments: %d (%s)\n", result.Summary.Total, kindSummary(result.Summary))
	return nil
}

// buildDeploymentTable creates rows for one chain, newest first
func (r *DeploymentsRenderer) buildDeploymentTable(deployments []*models.Deployment) TableData {
	sorted := append([]*models.Deployment(nil), deployments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	return lo.Map(sorted, func(dep *models.Deployment, _ int) []string {
		return []string{
			kindStyle(dep.Kind).Sprint(dep.DisplayName()),
			addressStyle.Sprint(dep.Address.Hex()),
			fmt.Sprintf("block %d", dep.BlockNumber),
			timestampStyle.Sprint(dep.CreatedAt.Local().Format("2006-01-02 15:04:05")),
		}
	})
}

func kindStyle(kind domain.ContractKind) *color.Color {
	if kind == domain.ERC721Token {
		return erc721Style
	}
	return erc20Style
}

// kindSummary renders counts per contract kind in name order
func kindSummary(summary usecase.DeploymentSummary) string {
	kinds := lo.Keys(summary.ByKind)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	parts := lo.Map(kinds, func(kind domain.ContractKind, _ int) string {
		return fmt.Sprintf("%s: %d", kind, summary.ByKind[kind])
	})
	return strings.Join(parts, ", ")
}

func toViews(deployments []*models.Deployment) []deploymentView {
	return lo.Map(deployments, func(dep *models.Deployment, _ int) deploymentView {
		return deploymentView{
			ID:          dep.ID,
			Kind:        string(dep.Kind),
			Name:        dep.Name,
			Symbol:      dep.Symbol,
			Address:     dep.Address.Hex(),
			Network:     dep.Network,
			ChainID:     dep.ChainID,
			TxHash:      dep.TxHash.Hex(),
			BlockNumber: dep.BlockNumber,
			GasUsed:     dep.GasUsed,
			Deployer:    dep.Deployer.Hex(),
			Artifact:    dep.Artifact.Path,
			CreatedAt:   dep.CreatedAt,
		}
	})
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)
