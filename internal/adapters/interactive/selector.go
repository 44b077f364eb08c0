package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// ErrNonInteractive is returned when a selection is needed but prompts are disabled
var ErrNonInteractive = errors.New("interactive selection not available in non-interactive mode")

// MethodNamer resolves a function name from calldata
type MethodNamer interface {
	MethodName(data []byte) string
}

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
	namer  MethodNamer
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig, namer MethodNamer) *SelectorAdapter {
	return &SelectorAdapter{config: cfg, namer: namer}
}

// SelectTransaction lets the user pick one of txs
func (s *SelectorAdapter) SelectTransaction(ctx context.Context, txs []*domain.SafeTransaction, prompt string) (*domain.SafeTransaction, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("no pending transactions to select from")
	}

	// If only one candidate, return it directly
	if len(txs) == 1 {
		return txs[0], nil
	}

	if s.config.NonInteractive {
		return nil, ErrNonInteractive
	}

	options := s.formatOptions(txs)

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
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return txs[index], nil
}

// formatOptions renders "#<nonce> <method> <hash> (<confirmations>/<required>)" per transaction
func (s *SelectorAdapter) formatOptions(txs []*domain.SafeTransaction) []string {
	options := make([]string, len(txs))
	for i, tx := range txs {
		method := ""
		if s.namer != nil {
			method = s.namer.MethodName(tx.Data)
		}
		if method == "" {
			if sel := tx.Transaction().Selector(); sel != "" {
				method = sel
			} else {
				method = "transfer"
			}
		}

		nonce := color.New(color.FgWhite, color.Bold).Sprintf("#%d", tx.Nonce)
		name := color.New(color.FgYellow).Sprint(method)
		sigs := color.New(color.FgBlue).Sprintf("(%d/%d)", tx.Confirmations, tx.ConfirmationsRequired)
		options[i] = fmt.Sprintf("%s %s %s %s", nonce, name, shortHash(tx.SafeTxHash), sigs)
	}
	return options
}

func shortHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:10] + "…" + hash[len(hash)-4:]
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
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
var _ usecase.InteractiveSelector = (*SelectorAdapter)(nil)
