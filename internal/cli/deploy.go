package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/tungnguyen/tokendeploy/internal/cli/render"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// tokenDeployment is the part of DeployTokens the command drives
type tokenDeployment interface {
	Run(ctx context.Context, params usecase.DeployTokensParams) (*usecase.DeployTokensResult, error)
}

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Compile and deploy ERC20Token and ERC721Token",
		Long: `Compile the project with forge, then deploy ERC20Token("Tung Nguyen", "TNT")
followed by ERC721Token("Tung", "TNFT"). Each deployment is awaited until mined
and its symbol is read back before the next one starts. The first failure
stops the run.`,
		Example: `  # Deploy to a local anvil node (start one with 'tokendeploy node start')
  tokendeploy deploy

  # Deploy to a network from foundry.toml [rpc_endpoints]
  tokendeploy deploy --network sepolia

  # Reuse existing artifacts and skip the registry
  tokendeploy deploy --skip-build --no-record`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd)
		},
	}

	addDeployFlags(cmd)
	return cmd
}

// addDeployFlags adds the flags shared by the root and deploy commands
func addDeployFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("skip-build", false, "Use existing artifacts instead of running forge build")
	cmd.Flags().Bool("no-record", false, "Do not record deployments in the local registry")
}

func runDeploy(cmd *cobra.Command) error {
	defer releaseApp(cmd)

	app, err := getApp(cmd)
	if err != nil {
		return err
	}
	return executeDeploy(cmd.Context(), app.DeployTokens, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// executeDeploy runs the deployment and prints each line as soon as its contract
// is deployed, so a failed run still shows what completed before the error
func executeDeploy(ctx context.Context, uc tokenDeployment, out, diag io.Writer) error {
	renderer := render.NewDeployRenderer(out, diag)

	result, err := uc.Run(ctx, usecase.DeployTokensParams{OnDeployed: renderer.RenderDeployment})
	if err != nil {
		return err
	}

	renderer.RenderExplorerLinks(result)
	return nil
}
