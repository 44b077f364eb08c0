package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// DeploymentsRenderer renders canonical Safe deployments grouped by chain
type DeploymentsRenderer struct {
	out io.Writer
	p   palette
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, color bool) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out: out,
		p:   palette{enabled: color},
	}
}

// RenderDeploymentList renders deployments as a table, one chain block at a time
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"Chain", "Version", "Singleton", "Singleton L2", "MultiSend", "MultiSendCallOnly"})

	lastChain := ""
	for _, d := range result.Deployments {
		chain := ""
		if d.ChainID != lastChain {
			chain = r.p.header(d.ChainID)
			if lastChain != "" {
				t.AppendSeparator()
			}
			lastChain = d.ChainID
		}
		version := d.Version
		if !d.Released {
			version = r.p.warn(version + " (unreleased)")
		}
		t.AppendRow(table.Row{chain, version, r.address(d.Singleton), r.address(d.SingletonL2), r.address(d.MultiSend), r.address(d.MultiSendCallOnly)})
	}
	fmt.Fprintln(r.out, t.Render())

	fmt.Fprintf(r.out, "\n%d deployments on %d chains\n", result.Summary.Total, len(result.Summary.ByChain))
	return nil
}

func (r *DeploymentsRenderer) address(a common.Address) string {
	if a == (common.Address{}) {
		return r.p.faint("-")
	}
	return a.Hex()
}
