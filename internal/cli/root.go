package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tungnguyen/tokendeploy/internal/app"
	"github.com/tungnguyen/tokendeploy/internal/config"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// releaseKey is the context key for the function releasing the app
	releaseKey contextKey = "release"
)

// appInitializer builds the App for a command; tests replace it
type appInitializer func(cmd *cobra.Command) (*app.App, error)

// NewRootCmd creates the root command. Without a subcommand it deploys the token plan.
func NewRootCmd() *cobra.Command {
	return newRootCmd(initApp)
}

func newRootCmd(initializer appInitializer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tokendeploy",
		Short: "Compile and deploy the ERC20 and ERC721 token contracts",
		Long: `tokendeploy compiles the Foundry project, deploys ERC20Token("Tung Nguyen", "TNT")
and then ERC721Token("Tung", "TNFT"), waits for each deployment to be mined and
prints the symbol and address of every deployed contract.

Running tokendeploy without a subcommand is the same as "tokendeploy deploy".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}

			appInstance, err := initializer(cmd)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			var (
				ctx    context.Context
				cancel context.CancelFunc
			)
			if appInstance.Config.Timeout > 0 && cmd.Name() != usecase.NodeLogs {
				ctx, cancel = context.WithTimeout(cmd.Context(), appInstance.Config.Timeout)
			} else {
				ctx, cancel = context.WithCancel(cmd.Context())
			}
			release := func() {
				cancel()
				appInstance.Close()
			}
			ctx = context.WithValue(ctx, appKey, appInstance)
			ctx = context.WithValue(ctx, releaseKey, release)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("namespace", "s", "", "Foundry profile for artifacts and deployer key (defaults to 'default')")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use, from [rpc_endpoints] in foundry.toml (defaults to 'localhost')")
	addDeployFlags(rootCmd)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	listCmd := NewListCmd()
	listCmd.GroupID = "main"
	rootCmd.AddCommand(listCmd)

	nodeCmd := NewNodeCmd()
	nodeCmd.GroupID = "management"
	rootCmd.AddCommand(nodeCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// needsApp reports whether a command runs against the wired App
func needsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	return true
}

// initApp locates the project, builds viper from flags and env, and wires the App
func initApp(cmd *cobra.Command) (*app.App, error) {
	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		if !worksOutsideProject(cmd) {
			return nil, err
		}
		if projectRoot, err = os.Getwd(); err != nil {
			return nil, err
		}
	}

	v := config.SetupViper(projectRoot, cmd)
	return app.InitApp(v)
}

// worksOutsideProject reports whether the command may run without a foundry.toml
func worksOutsideProject(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "node" {
			return true
		}
	}
	return false
}

// releaseApp cancels the command context and closes the app; every command using the app defers it
func releaseApp(cmd *cobra.Command) {
	if cmd.Context() == nil {
		return
	}
	if release, ok := cmd.Context().Value(releaseKey).(func()); ok {
		release()
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	if cmd.Context() == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
