package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// EncodeRenderer renders an encoded owner-management transaction
type EncodeRenderer struct {
	out io.Writer
	p   palette
}

// NewEncodeRenderer creates a new encode renderer
func NewEncodeRenderer(out io.Writer, color bool) *EncodeRenderer {
	return &EncodeRenderer{
		out: out,
		p:   palette{enabled: color},
	}
}

// Render prints the calls followed by the transaction fields
func (r *EncodeRenderer) Render(batch *usecase.EncodedBatch) error {
	for i, call := range batch.Calls {
		fmt.Fprintf(r.out, "%s %s\n", r.p.faint(fmt.Sprintf("%d.", i+1)), call.String())
	}
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s %s\n", r.p.faint("to:       "), batch.To.Hex())
	fmt.Fprintf(r.out, "%s %s\n", r.p.faint("value:    "), batch.Value)
	fmt.Fprintf(r.out, "%s %d (%s)\n", r.p.faint("operation:"), batch.Operation, batch.Operation)
	fmt.Fprintf(r.out, "%s %s\n", r.p.faint("data:     "), hexutil.Encode(batch.Data))
	return nil
}
