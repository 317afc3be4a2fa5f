package cli

import (
	"github.com/spf13/cobra"
	"github.com/tungnguyen/tokendeploy/internal/adapters/anvil"
	"github.com/tungnguyen/tokendeploy/internal/cli/render"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// NewNodeCmd creates the node command with subcommands
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local anvil node",
		Long: `Manage a local anvil node serving the "localhost" network.
The node runs in the background; its pid and log files live in the temp directory.`,
	}

	cmd.AddCommand(newNodeOpCmd(usecase.NodeStart, "Start the local node", "Start a local anvil node. Fails if it is already running."))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeStop, "Stop the local node", "Stop the local anvil node if running."))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeRestart, "Restart the local node", "Stop the local anvil node if running, then start it again."))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeStatus, "Show node status", "Show the process and RPC health of the local anvil node."))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeLogs, "Follow node logs", "Print the log of the local anvil node and follow new output until interrupted."))

	return cmd
}

// nodeFlags holds common flags for node commands
type nodeFlags struct {
	name    string
	port    string
	chainID string
}

func addNodeFlags(cmd *cobra.Command, flags *nodeFlags) {
	cmd.Flags().StringVar(&flags.name, "name", anvil.DefaultNodeName, "Instance name")
	cmd.Flags().StringVar(&flags.port, "port", anvil.DefaultNodePort, "RPC port to bind")
	cmd.Flags().StringVar(&flags.chainID, "chain-id", "", "Chain ID to start the node with (optional)")
}

func newNodeOpCmd(operation, short, long string) *cobra.Command {
	flags := &nodeFlags{}

	cmd := &cobra.Command{
		Use:   operation,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeCommand(cmd, operation, flags)
		},
	}

	addNodeFlags(cmd, flags)
	return cmd
}

// runNodeCommand executes a node management operation
func runNodeCommand(cmd *cobra.Command, operation string, flags *nodeFlags) error {
	defer releaseApp(cmd)

	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ManageNode.Execute(cmd.Context(), usecase.ManageNodeParams{
		Operation: operation,
		Name:      flags.name,
		Port:      flags.port,
		ChainID:   flags.chainID,
	})
	if err != nil {
		return err
	}

	renderer := render.NewNodeRenderer(cmd.OutOrStdout())
	if operation == usecase.NodeLogs {
		renderer.RenderLogsHeader(result)
		return app.NodeManager.StreamLogs(cmd.Context(), result.Instance, cmd.OutOrStdout())
	}

	return renderer.Render(result)
}
