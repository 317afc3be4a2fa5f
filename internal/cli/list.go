package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tungnguyen/tokendeploy/internal/cli/render"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		kind   string
		symbol string
		format string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Long: `List the deployments recorded in the local registry (.tokendeploy/deployments.json).

Deployments from every network are shown unless --network is given.`,
		Example: `  # List all deployments
  tokendeploy list

  # Only ERC721 deployments on sepolia, as JSON
  tokendeploy list --network sepolia --kind ERC721Token --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer releaseApp(cmd)

			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if kind != "" && !lo.Contains(domain.ContractKinds(), domain.ContractKind(kind)) {
				return fmt.Errorf("invalid kind: %s (valid: %s, %s)", kind, domain.ERC20Token, domain.ERC721Token)
			}

			params := usecase.ListDeploymentsParams{
				Kind:   kind,
				Symbol: symbol,
			}
			if cmd.Flags().Changed("network") {
				params.Network = app.Config.Network.Name
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout(), format).Render(result)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by contract kind (ERC20Token, ERC721Token)")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Filter by token symbol")
	cmd.Flags().StringVarP(&format, "format", "o", render.FormatTable, "Output format (table, json, yaml)")

	return cmd
}
