package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// ReplayRenderer renders the effect of a transaction on a Safe's owners
type ReplayRenderer struct {
	out io.Writer
	p   palette
}

// NewReplayRenderer creates a new replay renderer
func NewReplayRenderer(out io.Writer, color bool) *ReplayRenderer {
	return &ReplayRenderer{
		out: out,
		p:   palette{enabled: color},
	}
}

// Render prints the steps and the before/after owner sets
func (r *ReplayRenderer) Render(result *usecase.ReplayResult) error {
	fmt.Fprintf(r.out, "%s chain %s, Safe %s\n", r.p.faint("Deployment:"), result.ChainID, result.Version)

	if !result.OwnerManagement {
		selector := result.Selector
		if selector == "" {
			selector = "none"
		}
		fmt.Fprintln(r.out, r.p.warn(fmt.Sprintf("Not an owner-management transaction (selector %s). Owners are unchanged.", selector)))
		fmt.Fprintln(r.out)
		r.renderOwners(result.Before, result.Diff)
		return nil
	}

	fmt.Fprintln(r.out)
	r.renderSteps(result.Steps)
	fmt.Fprintln(r.out)
	r.renderOwners(result.After, result.Diff)
	return nil
}

func (r *ReplayRenderer) renderSteps(steps []domain.ReplayStep) {
	if len(steps) == 0 {
		fmt.Fprintln(r.out, r.p.faint("Empty batch, nothing to apply."))
		return
	}

	fmt.Fprintln(r.out, r.p.header("Calls"))
	t := newTable()
	t.AppendHeader(table.Row{"#", "Call", "Arguments", "Owners", "Threshold"})
	for i, step := range steps {
		t.AppendRow(table.Row{
			i + 1,
			r.p.kind(kindLabel(string(step.Call.Kind()))),
			step.Call.String(),
			len(step.State.Owners),
			step.State.Threshold,
		})
	}
	fmt.Fprintln(r.out, t.Render())
}

func (r *ReplayRenderer) renderOwners(state domain.AccountState, diff domain.StateDiff) {
	fmt.Fprintln(r.out, r.p.header("Owners"))

	t := newTable()
	t.AppendHeader(table.Row{"", "Address", ""})
	for i, owner := range state.Owners {
		marker := ""
		addr := owner.Hex()
		if lo.Contains(diff.Added, owner) {
			marker = r.p.added("added")
			addr = r.p.added(addr)
		}
		t.AppendRow(table.Row{i + 1, addr, marker})
	}
	for _, owner := range diff.Removed {
		t.AppendRow(table.Row{"-", r.p.removed(owner.Hex()), r.p.removed("removed")})
	}
	fmt.Fprintln(r.out, t.Render())

	threshold := fmt.Sprintf("%d of %d", diff.ThresholdAfter, len(state.Owners))
	if diff.ThresholdBefore != diff.ThresholdAfter {
		threshold = fmt.Sprintf("%s %s", r.p.removed(fmt.Sprintf("%d", diff.ThresholdBefore)), r.p.added("→ "+threshold))
	}
	fmt.Fprintf(r.out, "\n%s %s\n", r.p.faint("Threshold:"), threshold)
}

// PreviewRenderer renders a Transaction Service transaction and its replay
type PreviewRenderer struct {
	out    io.Writer
	p      palette
	replay *ReplayRenderer
}

// NewPreviewRenderer creates a new preview renderer
func NewPreviewRenderer(out io.Writer, color bool) *PreviewRenderer {
	return &PreviewRenderer{
		out:    out,
		p:      palette{enabled: color},
		replay: NewReplayRenderer(out, color),
	}
}

// Render prints the transaction header followed by the replay
func (r *PreviewRenderer) Render(result *usecase.PreviewResult) error {
	tx := result.Transaction
	fmt.Fprintf(r.out, "%s %s\n", r.p.header("Safe transaction"), tx.SafeTxHash)
	fmt.Fprintf(r.out, "%s %s\n", r.p.faint("Safe:      "), tx.Safe.Hex())
	fmt.Fprintf(r.out, "%s %d\n", r.p.faint("Nonce:     "), tx.Nonce)
	fmt.Fprintf(r.out, "%s %s (%s)\n", r.p.faint("To:        "), tx.To.Hex(), tx.Operation)
	fmt.Fprintf(r.out, "%s %d/%d\n", r.p.faint("Signatures:"), tx.Confirmations, tx.ConfirmationsRequired)
	if result.Executed {
		status := "executed"
		if tx.ExecutionTxHash != "" {
			status += " in " + tx.ExecutionTxHash
		}
		fmt.Fprintf(r.out, "%s %s\n", r.p.faint("Status:    "), r.p.warn(status))
	}
	fmt.Fprintln(r.out)

	return r.replay.Render(&result.ReplayResult)
}

// StateRenderer renders a plain owner set
type StateRenderer struct {
	replay *ReplayRenderer
}

// NewStateRenderer creates a new state renderer
func NewStateRenderer(out io.Writer, color bool) *StateRenderer {
	return &StateRenderer{replay: NewReplayRenderer(out, color)}
}

// Render prints owners and threshold without change markers
func (r *StateRenderer) Render(state domain.AccountState) error {
	r.replay.renderOwners(state, domain.StateDiff{
		Added:           []common.Address{},
		Removed:         []common.Address{},
		ThresholdBefore: state.Threshold,
		ThresholdAfter:  state.Threshold,
	})
	return nil
}
