package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// DeployRenderer prints one result line per deployed contract.
// Results go to out; explorer links and the summary go to diag.
type DeployRenderer struct {
	out  io.Writer
	diag io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out, diag io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out, diag: diag}
}

// Render renders the deployments completed by a run
func (r *DeployRenderer) Render(result *usecase.DeployTokensResult) error {
	if result == nil {
		return nil
	}

	for _, dep := range result.Deployments {
		if err := r.RenderDeployment(dep); err != nil {
			return err
		}
	}
	r.RenderExplorerLinks(result)
	return nil
}

// RenderDeployment writes "<Kind> deployed to: <symbol> <address>"
func (r *DeployRenderer) RenderDeployment(dep *models.Deployment) error {
	_, err := fmt.Fprintln(r.out, string(dep.Kind)+" deployed to:", dep.Symbol, dep.Address.Hex())
	return err
}

// RenderExplorerLinks writes explorer links for every deployment when the network has an explorer
func (r *DeployRenderer) RenderExplorerLinks(result *usecase.DeployTokensResult) {
	if r.diag == nil || result == nil || result.Network == nil || result.Network.ExplorerURL == "" {
		return
	}
	for _, dep := range result.Deployments {
		color.New(color.Faint).Fprintf(r.diag, "  %s: %s/address/%s\n",
			dep.Kind, result.Network.ExplorerURL, dep.Address.Hex())
	}
}

var _ Renderer[*usecase.DeployTokensResult] = (*DeployRenderer)(nil)
