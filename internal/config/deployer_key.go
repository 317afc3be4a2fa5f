package config

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/viper"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
)

// resolveDeployerKey looks up the deployer private key.
// Order: TOKENDEPLOY_PRIVATE_KEY (or config file), PRIVATE_KEY, then [profile.<ns>.deployer].
func resolveDeployerKey(v *viper.Viper, foundryConfig *config.FoundryConfig, namespace string) string {
	if key := strings.TrimSpace(v.GetString("private_key")); key != "" {
		return key
	}
	if key := strings.TrimSpace(os.Getenv("PRIVATE_KEY")); key != "" {
		return key
	}
	if foundryConfig == nil {
		return ""
	}
	for _, name := range []string{namespace, "default"} {
		profile, ok := foundryConfig.Profile[name]
		if !ok || profile.Deployer == nil {
			continue
		}
		if key := strings.TrimSpace(profile.Deployer.PrivateKey); key != "" {
			return key
		}
	}
	return ""
}

// ParsePrivateKey parses a hex private key with or without 0x prefix
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	if _, isRef := DetectEnvVar(hexKey); isRef {
		return nil, fmt.Errorf("private key %s references an unset environment variable", hexKey)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
