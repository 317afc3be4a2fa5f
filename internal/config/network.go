package config

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
)

// NetworkResolver resolves network names to configurations
type NetworkResolver struct {
	foundryConfig *config.FoundryConfig
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(foundryConfig *config.FoundryConfig) *NetworkResolver {
	return &NetworkResolver{foundryConfig: foundryConfig}
}

// Resolve resolves a network name to its configuration.
// The chain id is left at zero; it is discovered when connecting to the RPC.
func (r *NetworkResolver) Resolve(networkName string) (*domain.Network, error) {
	rpcURL, exists := r.endpoints()[networkName]
	if !exists {
		if networkName == domain.LocalNetworkName {
			rpcURL = domain.LocalRPCURL
		} else {
			return nil, fmt.Errorf("network '%s' not found in foundry.toml [rpc_endpoints] (available: %v)", networkName, r.Names())
		}
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("network '%s' has an empty RPC URL (unset environment variable?)", networkName)
	}

	network := &domain.Network{
		Name:   networkName,
		RPCURL: rpcURL,
	}
	if r.foundryConfig != nil {
		if etherscan, ok := r.foundryConfig.Etherscan[networkName]; ok {
			network.ExplorerURL = etherscan.URL
		}
	}
	return network, nil
}

// Names returns the configured network names, sorted
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(r.endpoints())
	if !lo.Contains(names, domain.LocalNetworkName) {
		names = append(names, domain.LocalNetworkName)
	}
	sort.Strings(names)
	return names
}

func (r *NetworkResolver) endpoints() map[string]string {
	if r.foundryConfig == nil {
		return nil
	}
	return r.foundryConfig.RpcEndpoints
}

// ExplorerURL returns the block explorer for a chain when none is configured
func ExplorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 43114:
		return "https://snowtrace.io"
	case 56:
		return "https://bscscan.com"
	case 97:
		return "https://testnet.bscscan.com"
	case 42220:
		return "https://celoscan.io"
	default:
		return ""
	}
}
