package config

import (
	"time"

	"github.com/tungnguyen/tokendeploy/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Namespace string          // Maps to foundry profile
	Network   *domain.Network // resolved target network

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Command-specific settings (only populated for relevant commands)
	SkipBuild bool
	NoRecord  bool

	// DeployerKey is the hex private key used to sign deployments, empty if none was found
	DeployerKey string

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// OutDir returns the artifact directory for the active profile, relative to the project root
func (c *RuntimeConfig) OutDir() string {
	if c.FoundryConfig != nil {
		if profile, ok := c.FoundryConfig.Profile[c.Namespace]; ok && profile.OutPath != "" {
			return profile.OutPath
		}
		if profile, ok := c.FoundryConfig.Profile["default"]; ok && profile.OutPath != "" {
			return profile.OutPath
		}
	}
	return "out"
}
