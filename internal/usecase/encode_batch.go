package usecase

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
)

// SentinelOwner heads the Safe owner linked list. "sentinel" may be used in
// place of a previous-owner address in call specs.
var SentinelOwner = common.HexToAddress("0x0000000000000000000000000000000000000001")

// EncodeBatchParams contains the owner-management calls to encode
type EncodeBatchParams struct {
	// Safe is the target of every call
	Safe string
	// Calls are specs such as swap:<prev>:<old>:<new>, add:<owner>:<threshold>,
	// remove:<prev>:<owner>:<threshold> or threshold:<threshold>
	Calls []string
}

// EncodedBatch is a ready-to-propose Safe transaction
type EncodedBatch struct {
	To        common.Address     `json:"to"`
	Value     string             `json:"value"`
	Data      hexutil.Bytes      `json:"data"`
	Operation domain.Operation   `json:"operation"`
	Calls     []domain.OwnerCall `json:"calls"`
}

// Transaction returns the batch as a replayable transaction
func (b *EncodedBatch) Transaction() domain.Transaction {
	return domain.Transaction{To: b.To, Value: new(big.Int), Data: b.Data, Operation: b.Operation}
}

// EncodeBatch builds owner-management calldata. More than one call is
// wrapped into a MultiSend delegate call. The result is decoded again and
// must yield the requested calls.
type EncodeBatch struct {
	config   *config.RuntimeConfig
	registry DeploymentRegistry
	encoder  CalldataEncoder
	replayer *AccountStateReplayer
}

// NewEncodeBatch creates a new EncodeBatch use case
func NewEncodeBatch(cfg *config.RuntimeConfig, registry DeploymentRegistry, encoder CalldataEncoder, replayer *AccountStateReplayer) *EncodeBatch {
	return &EncodeBatch{
		config:   cfg,
		registry: registry,
		encoder:  encoder,
		replayer: replayer,
	}
}

// Run executes the encode batch use case
func (uc *EncodeBatch) Run(ctx context.Context, params EncodeBatchParams) (*EncodedBatch, error) {
	if len(params.Calls) == 0 {
		return nil, fmt.Errorf("at least one call is required")
	}

	safe, err := domain.ParseAddress(params.Safe)
	if err != nil {
		return nil, fmt.Errorf("safe: %w", err)
	}

	calls := make([]domain.OwnerCall, 0, len(params.Calls))
	txs := make(domain.BatchTransaction, 0, len(params.Calls))
	for _, spec := range params.Calls {
		call, err := ParseCallSpec(spec)
		if err != nil {
			return nil, err
		}
		data, err := uc.encoder.EncodeOwnerCall(call)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
		txs = append(txs, domain.Transaction{To: safe, Value: new(big.Int), Data: data, Operation: domain.OperationCall})
	}

	deployment, err := uc.registry.Lookup(uc.config.ChainID, uc.config.SafeVersion)
	if err != nil {
		return nil, err
	}

	batch, err := uc.wrap(deployment, safe, txs)
	if err != nil {
		return nil, err
	}
	batch.Calls = calls

	decoded, err := uc.replayer.DecodeCalls(uc.config.ChainID, deployment.Version, batch.Transaction())
	if err != nil {
		return nil, fmt.Errorf("encoded transaction does not decode: %w", err)
	}
	if !slices.Equal(decoded, calls) {
		return nil, fmt.Errorf("encoded transaction decodes to %d calls that differ from the requested ones", len(decoded))
	}

	return batch, nil
}

func (uc *EncodeBatch) wrap(deployment *domain.SafeDeployment, safe common.Address, txs domain.BatchTransaction) (*EncodedBatch, error) {
	if len(txs) == 1 {
		return &EncodedBatch{To: safe, Value: "0", Data: txs[0].Data, Operation: domain.OperationCall}, nil
	}

	multiSend := deployment.MultiSendCallOnly
	if multiSend == (common.Address{}) {
		multiSend = deployment.MultiSend
	}

	data, err := uc.encoder.EncodeMultiSend(txs)
	if err != nil {
		return nil, err
	}

	return &EncodedBatch{
		To:        multiSend,
		Value:     "0",
		Data:      data,
		Operation: domain.OperationDelegateCall,
	}, nil
}

// ParseCallSpec parses a colon separated owner-management call
func ParseCallSpec(spec string) (domain.OwnerCall, error) {
	parts := strings.Split(strings.TrimSpace(spec), ":")
	kind := strings.ToLower(parts[0])
	args := parts[1:]

	want := map[string]int{"swap": 3, "add": 2, "remove": 3, "threshold": 1}
	n, ok := want[kind]
	if !ok {
		return nil, fmt.Errorf("unknown call %q in %q (want swap, add, remove or threshold)", parts[0], spec)
	}
	if len(args) != n {
		return nil, fmt.Errorf("%s takes %d arguments, got %d in %q", kind, n, len(args), spec)
	}

	addrs := make([]common.Address, 0, n)
	threshold := 0
	for i, a := range args {
		if kind != "swap" && i == n-1 {
			t, err := strconv.Atoi(strings.TrimSpace(a))
			if err != nil || t < 0 {
				return nil, fmt.Errorf("invalid threshold %q in %q", a, spec)
			}
			threshold = t
			continue
		}
		if strings.EqualFold(strings.TrimSpace(a), "sentinel") {
			addrs = append(addrs, SentinelOwner)
			continue
		}
		addr, err := domain.ParseAddress(a)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", spec, err)
		}
		addrs = append(addrs, addr)
	}

	switch kind {
	case "swap":
		return domain.SwapOwner{Prev: addrs[0], Old: addrs[1], New: addrs[2]}, nil
	case "add":
		return domain.AddOwnerWithThreshold{Owner: addrs[0], Threshold: threshold}, nil
	case "remove":
		return domain.RemoveOwner{Prev: addrs[0], Owner: addrs[1], Threshold: threshold}, nil
	default:
		return domain.ChangeThreshold{Threshold: threshold}, nil
	}
}
