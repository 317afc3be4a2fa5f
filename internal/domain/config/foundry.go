package config

// FoundryConfig represents the parts of foundry.toml the tool reads
type FoundryConfig struct {
	Profile      map[string]ProfileConfig   `toml:"profile"`
	RpcEndpoints map[string]string          `toml:"rpc_endpoints"`
	Etherscan    map[string]EtherscanConfig `toml:"etherscan,omitempty"`
}

// EtherscanConfig represents Etherscan configuration for a network
// This matches Foundry's expected structure
type EtherscanConfig struct {
	Key string `toml:"key,omitempty"` // API key for verification
	URL string `toml:"url,omitempty"` // API URL (for custom explorers)
}

// ProfileConfig represents a profile's foundry configuration
type ProfileConfig struct {
	SrcPath     string          `toml:"src,omitempty"`
	OutPath     string          `toml:"out,omitempty"`
	LibPaths    []string        `toml:"libs,omitempty"`
	SolcVersion string          `toml:"solc_version,omitempty"`
	Deployer    *DeployerConfig `toml:"deployer,omitempty"`
}

// DeployerConfig holds the account used to sign deployments for a profile
type DeployerConfig struct {
	PrivateKey string `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
	Address    string `toml:"address,omitempty"`
}
