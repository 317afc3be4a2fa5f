package models

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/tungnguyen/tokendeploy/internal/domain"
)

// PendingDeployment is a submitted contract-creation transaction that has not been confirmed yet
type PendingDeployment struct {
	Contract        *Contract
	Spec            domain.TokenSpec
	Address         common.Address // expected address derived from sender and nonce
	Deployer        common.Address
	Nonce           uint64
	ChainID         *big.Int
	Tx              *types.Transaction
	ConstructorArgs []byte
}

// TxHash returns the hash of the creation transaction
func (p *PendingDeployment) TxHash() common.Hash {
	if p.Tx == nil {
		return common.Hash{}
	}
	return p.Tx.Hash()
}

// ArtifactInfo contains contract artifact information
type ArtifactInfo struct {
	Path            string `json:"path"`            // e.g., "src/ERC20Token.sol:ERC20Token"
	CompilerVersion string `json:"compilerVersion"` // e.g., "0.8.20+commit.a1b79de6"
	ArtifactPath    string `json:"artifactPath"`    // e.g., "out/ERC20Token.sol/ERC20Token.json"
}

// Deployment represents a confirmed contract deployment record
type Deployment struct {
	ID              string              `json:"id"` // e.g., "31337/ERC20Token/0x5FbD..."
	Kind            domain.ContractKind `json:"kind"`
	Name            string              `json:"name"`
	Symbol          string              `json:"symbol"`
	Address         common.Address      `json:"address"`
	Network         string              `json:"network"`
	ChainID         uint64              `json:"chainId"`
	TxHash          common.Hash         `json:"txHash"`
	BlockNumber     uint64              `json:"blockNumber"`
	GasUsed         uint64              `json:"gasUsed"`
	Deployer        common.Address      `json:"deployer"`
	ConstructorArgs string              `json:"constructorArgs,omitempty"` // hex encoded
	Artifact        ArtifactInfo        `json:"artifact"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// NewDeploymentID builds the registry identifier of a deployment
func NewDeploymentID(chainID uint64, kind domain.ContractKind, address common.Address) string {
	return fmt.Sprintf("%d/%s/%s", chainID, kind, address.Hex())
}

// DisplayName returns a human-friendly name for the deployment
func (d *Deployment) DisplayName() string {
	if d.Symbol != "" {
		return fmt.Sprintf("%s:%s", d.Kind, d.Symbol)
	}
	return string(d.Kind)
}
