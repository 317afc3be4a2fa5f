//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/tungnguyen/tokendeploy/internal/adapters"
	"github.com/tungnguyen/tokendeploy/internal/config"
	"github.com/tungnguyen/tokendeploy/internal/logging"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployTokens,
		usecase.NewListDeployments,
		usecase.NewManageNode,

		// App
		NewApp,
	)
	return nil, nil
}
