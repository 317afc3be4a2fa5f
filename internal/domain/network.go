package domain

import (
	"net"
	"net/url"
)

// LocalNetworkName is the network used when none is configured
const LocalNetworkName = "localhost"

// LocalRPCURL is the RPC endpoint of the local development node
const LocalRPCURL = "http://127.0.0.1:8545"

// DevChainID is the chain id anvil and hardhat nodes start with
const DevChainID uint64 = 31337

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// IsDevChain reports whether the network is a local development chain
func (n *Network) IsDevChain() bool {
	return n != nil && n.ChainID == DevChainID
}

// IsLocalNode reports whether the network is the built-in localhost network served from a loopback address
func (n *Network) IsLocalNode() bool {
	if n == nil || n.Name != LocalNetworkName {
		return false
	}
	u, err := url.Parse(n.RPCURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || net.ParseIP(host).IsLoopback()
}
