package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
	"github.com/tungnguyen/tokendeploy/internal/domain/models"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// Selector lets the user pick between artifacts that share a contract name
type Selector struct {
	nonInteractive bool
}

// NewSelector creates a new selector
func NewSelector(cfg *config.RuntimeConfig) *Selector {
	return &Selector{nonInteractive: cfg.NonInteractive}
}

// SelectContract selects a contract from a list
func (s *Selector) SelectContract(ctx context.Context, contracts []*models.Contract, prompt string) (*models.Contract, error) {
	if len(contracts) == 0 {
		return nil, fmt.Errorf("no contracts provided for selection")
	}
	if len(contracts) == 1 {
		return contracts[0], nil
	}
	if s.nonInteractive {
		return nil, fmt.Errorf("%d artifacts match, interactive selection not available in non-interactive mode", len(contracts))
	}

	options := formatContractOptions(contracts)
	searchKeys := make([]string, len(contracts))
	for i, contract := range contracts {
		searchKeys[i] = contract.FullName()
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(searchKeys),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return contracts[index], nil
}

// formatContractOptions renders "Name (path) solc-version" for each artifact
func formatContractOptions(contracts []*models.Contract) []string {
	options := make([]string, len(contracts))
	for i, contract := range contracts {
		name := color.New(color.FgWhite, color.Bold).Sprint(contract.Name)
		path := color.New(color.FgBlue).Sprint(contract.Path)
		options[i] = fmt.Sprintf("%s (%s)", name, path)

		if contract.Artifact != nil && contract.Artifact.Metadata.Compiler.Version != "" {
			options[i] += " " + color.New(color.Faint).Sprintf("solc %s", contract.Artifact.Metadata.Compiler.Version)
		}
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.ContractSelector = (*Selector)(nil)
