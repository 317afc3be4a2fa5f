package domain

// ContractKind is the compiled contract name a token is deployed from
type ContractKind string

const (
	ERC20Token  ContractKind = "ERC20Token"
	ERC721Token ContractKind = "ERC721Token"
)

// ContractKinds lists the contract kinds this tool deploys
func ContractKinds() []ContractKind {
	return []ContractKind{ERC20Token, ERC721Token}
}

// TokenSpec holds the constructor arguments for one token deployment
type TokenSpec struct {
	Kind   ContractKind `json:"kind"`
	Name   string       `json:"name"`
	Symbol string       `json:"symbol"`
}

// ConstructorArgs returns the arguments passed to the token constructor, in order
func (s TokenSpec) ConstructorArgs() []any {
	return []any{s.Name, s.Symbol}
}

// DefaultTokenPlan returns the tokens deployed on every run, in deployment order.
// The arguments are fixed literals and are not read from configuration.
func DefaultTokenPlan() []TokenSpec {
	return []TokenSpec{
		{Kind: ERC20Token, Name: "Tung Nguyen", Symbol: "TNT"},
		{Kind: ERC721Token, Name: "Tung", Symbol: "TNFT"},
	}
}
