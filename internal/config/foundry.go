package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// loadFoundryConfig loads .env files and parses foundry.toml
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	// .env files are loaded first so ${VAR} references can be expanded
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				slog.Warn("failed to load env file", "file", envFile, "error", err)
			}
		}
	}

	foundryPath := filepath.Join(projectRoot, "foundry.toml")
	var cfg config.FoundryConfig
	if _, err := os.Stat(foundryPath); os.IsNotExist(err) {
		// commands such as `node` run outside a Foundry project
		expandFoundryConfig(&cfg)
		return &cfg, nil
	}
	if _, err := toml.DecodeFile(foundryPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	expandFoundryConfig(&cfg)
	return &cfg, nil
}

// expandFoundryConfig expands ${VAR} references in values that commonly hold secrets or URLs
func expandFoundryConfig(cfg *config.FoundryConfig) {
	if cfg.Profile == nil {
		cfg.Profile = make(map[string]config.ProfileConfig)
	}
	if cfg.RpcEndpoints == nil {
		cfg.RpcEndpoints = make(map[string]string)
	}

	for name, url := range cfg.RpcEndpoints {
		cfg.RpcEndpoints[name] = os.ExpandEnv(url)
	}

	for name, ec := range cfg.Etherscan {
		ec.Key = os.ExpandEnv(ec.Key)
		ec.URL = os.ExpandEnv(ec.URL)
		cfg.Etherscan[name] = ec
	}

	for name, profile := range cfg.Profile {
		if profile.Deployer != nil {
			deployer := *profile.Deployer
			deployer.PrivateKey = os.ExpandEnv(deployer.PrivateKey)
			deployer.Address = os.ExpandEnv(deployer.Address)
			profile.Deployer = &deployer
			cfg.Profile[name] = profile
		}
	}
}
