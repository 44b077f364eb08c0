package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// PendingRenderer renders the replayed queue of a Safe
type PendingRenderer struct {
	out   io.Writer
	p     palette
	state *StateRenderer
}

// NewPendingRenderer creates a new pending renderer
func NewPendingRenderer(out io.Writer, color bool) *PendingRenderer {
	return &PendingRenderer{
		out:   out,
		p:     palette{enabled: color},
		state: NewStateRenderer(out, color),
	}
}

// Render prints the current state and one row per pending transaction
func (r *PendingRenderer) Render(preview *usecase.PendingPreview) error {
	fmt.Fprintf(r.out, "%s %s on chain %s (nonce %d)\n\n", r.p.header("Safe"), preview.Safe.Hex(), preview.ChainID, preview.Nonce)
	if err := r.state.Render(preview.Current); err != nil {
		return err
	}
	fmt.Fprintln(r.out)

	if len(preview.Entries) == 0 {
		fmt.Fprintln(r.out, "No pending transactions")
		return nil
	}

	fmt.Fprintln(r.out, r.p.header("Pending transactions"))
	t := newTable()
	t.AppendHeader(table.Row{"Nonce", "SafeTxHash", "Signatures", "Calls", "Effect"})
	for _, entry := range preview.Entries {
		t.AppendRow(table.Row{
			entry.Transaction.Nonce,
			shortHash(entry.Transaction.SafeTxHash),
			fmt.Sprintf("%d/%d", entry.Transaction.Confirmations, entry.Transaction.ConfirmationsRequired),
			r.calls(entry),
			r.effect(entry),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

func (r *PendingRenderer) calls(entry *usecase.PreviewResult) string {
	if !entry.OwnerManagement {
		return r.p.faint(lo.CoalesceOrEmpty(entry.Selector, "transfer"))
	}
	kinds := lo.Map(entry.Steps, func(s domain.ReplayStep, _ int) string {
		return kindLabel(string(s.Call.Kind()))
	})
	if len(kinds) == 0 {
		return r.p.faint("empty batch")
	}
	return r.p.kind(strings.Join(kinds, ", "))
}

func (r *PendingRenderer) effect(entry *usecase.PreviewResult) string {
	if entry.Error != "" {
		return r.p.removed(entry.Error)
	}
	if !entry.OwnerManagement {
		return r.p.faint("owners unchanged")
	}

	d := entry.Diff
	if d.IsEmpty() {
		return r.p.faint("no change")
	}

	var parts []string
	for _, a := range d.Added {
		parts = append(parts, r.p.added("+"+a.Hex()))
	}
	for _, a := range d.Removed {
		parts = append(parts, r.p.removed("-"+a.Hex()))
	}
	if d.ThresholdBefore != d.ThresholdAfter {
		parts = append(parts, fmt.Sprintf("threshold %d→%d", d.ThresholdBefore, d.ThresholdAfter))
	}
	return strings.Join(parts, " ")
}
