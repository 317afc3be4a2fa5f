package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrContractNotFound is returned when no compiled artifact matches a contract name
	ErrContractNotFound = errors.New("contract not found")

	// ErrAmbiguousContract is returned when several artifacts share a contract name
	ErrAmbiguousContract = errors.New("ambiguous contract")

	// ErrDeploymentFailed is returned when a creation transaction reverts or leaves no code
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrNotDeployed is returned when an instance is used before its deployment is confirmed
	ErrNotDeployed = errors.New("contract not deployed")

	// ErrNoSigner is returned when no private key is configured for the target network
	ErrNoSigner = errors.New("no deployer key configured")

	// ErrNetworkMismatch is returned when the RPC reports a different chain than expected
	ErrNetworkMismatch = errors.New("network mismatch")
)

// DeploymentStep names a stage of a single contract deployment
type DeploymentStep string

const (
	StepResolve DeploymentStep = "resolve"
	StepDeploy  DeploymentStep = "deploy"
	StepConfirm DeploymentStep = "confirm"
	StepRead    DeploymentStep = "read"
	StepRecord  DeploymentStep = "record"
)

// StepError identifies which contract and step of a deployment failed
type StepError struct {
	Kind ContractKind
	Step DeploymentStep
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Kind, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ContractNotFoundError reports a missing artifact together with close matches
type ContractNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *ContractNotFoundError) Error() string {
	msg := fmt.Sprintf("contract %q not found in compiled artifacts", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ContractNotFoundError) Unwrap() error {
	return ErrContractNotFound
}
