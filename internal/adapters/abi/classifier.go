package abi

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/safe-replay/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

const multiSendMethod = "multiSend"

// CalldataClassifier recognizes Safe owner-management calls and MultiSend
// batches by their 4-byte selectors and decodes their arguments.
type CalldataClassifier struct {
	safeABI      *abi.ABI
	multiSendABI *abi.ABI
}

// NewCalldataClassifier creates a classifier from the canonical Safe and MultiSend ABIs
func NewCalldataClassifier() (*CalldataClassifier, error) {
	safeABI, err := bindings.SafeMetaData.ParseABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse Safe ABI: %w", err)
	}

	multiSendABI, err := bindings.MultiSendMetaData.ParseABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse MultiSend ABI: %w", err)
	}

	return &CalldataClassifier{
		safeABI:      safeABI,
		multiSendABI: multiSendABI,
	}, nil
}

func hasSelector(data []byte, method abi.Method) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], method.ID)
}

// IsMultiSendCall reports whether data calls multiSend(bytes)
func (c *CalldataClassifier) IsMultiSendCall(data []byte) bool {
	return hasSelector(data, c.multiSendABI.Methods[multiSendMethod])
}

// IsSwapOwnerCall reports whether data calls swapOwner(address,address,address)
func (c *CalldataClassifier) IsSwapOwnerCall(data []byte) bool {
	return hasSelector(data, c.safeABI.Methods[string(domain.CallSwapOwner)])
}

// IsAddOwnerWithThresholdCall reports whether data calls addOwnerWithThreshold(address,uint256)
func (c *CalldataClassifier) IsAddOwnerWithThresholdCall(data []byte) bool {
	return hasSelector(data, c.safeABI.Methods[string(domain.CallAddOwnerWithThreshold)])
}

// IsRemoveOwnerCall reports whether data calls removeOwner(address,address,uint256)
func (c *CalldataClassifier) IsRemoveOwnerCall(data []byte) bool {
	return hasSelector(data, c.safeABI.Methods[string(domain.CallRemoveOwner)])
}

// IsChangeThresholdCall reports whether data calls changeThreshold(uint256)
func (c *CalldataClassifier) IsChangeThresholdCall(data []byte) bool {
	return hasSelector(data, c.safeABI.Methods[string(domain.CallChangeThreshold)])
}

// DecodeFunctionData unpacks the arguments of method name from data using iface.
// Every failure is a MalformedCalldataError.
func (c *CalldataClassifier) DecodeFunctionData(iface *abi.ABI, name string, data []byte) ([]any, error) {
	if iface == nil {
		return nil, domain.MalformedCalldataError{Method: name, Reason: "no interface definition"}
	}

	method, ok := iface.Methods[name]
	if !ok {
		return nil, domain.MalformedCalldataError{Method: name, Reason: "method not in interface"}
	}

	if !hasSelector(data, method) {
		return nil, domain.MalformedCalldataError{
			Method: name,
			Reason: fmt.Sprintf("selector mismatch, expected %s", hexutil.Encode(method.ID)),
		}
	}

	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, domain.MalformedCalldataError{Method: name, Err: err}
	}
	if len(args) != len(method.Inputs) {
		return nil, domain.MalformedCalldataError{
			Method: name,
			Reason: fmt.Sprintf("expected %d arguments, got %d", len(method.Inputs), len(args)),
		}
	}

	return args, nil
}

// DecodeMultiSend unpacks the sub-transactions of a multiSend call in execution order
func (c *CalldataClassifier) DecodeMultiSend(data []byte) (domain.BatchTransaction, error) {
	args, err := c.DecodeFunctionData(c.multiSendABI, multiSendMethod, data)
	if err != nil {
		return nil, err
	}

	packed, ok := args[0].([]byte)
	if !ok {
		return nil, domain.MalformedCalldataError{
			Method: multiSendMethod,
			Reason: fmt.Sprintf("transactions argument has type %T", args[0]),
		}
	}

	return unpackTransactions(packed)
}

// EncodeMultiSend packs txs into multiSend(bytes) calldata
func (c *CalldataClassifier) EncodeMultiSend(txs domain.BatchTransaction) ([]byte, error) {
	packed, err := packTransactions(txs)
	if err != nil {
		return nil, err
	}
	return c.multiSendABI.Pack(multiSendMethod, packed)
}

// EncodeOwnerCall packs an owner-management call as Safe calldata
func (c *CalldataClassifier) EncodeOwnerCall(call domain.OwnerCall) ([]byte, error) {
	name := string(call.Kind())
	if t, ok := thresholdOf(call); ok && t < 0 {
		return nil, fmt.Errorf("failed to pack %s: negative threshold %d", name, t)
	}

	var args []any
	switch call := call.(type) {
	case domain.SwapOwner:
		args = []any{call.Prev, call.Old, call.New}
	case domain.AddOwnerWithThreshold:
		args = []any{call.Owner, big.NewInt(int64(call.Threshold))}
	case domain.RemoveOwner:
		args = []any{call.Prev, call.Owner, big.NewInt(int64(call.Threshold))}
	case domain.ChangeThreshold:
		args = []any{big.NewInt(int64(call.Threshold))}
	default:
		return nil, fmt.Errorf("cannot encode %T", call)
	}

	data, err := c.safeABI.Pack(name, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", name, err)
	}
	return data, nil
}

func thresholdOf(call domain.OwnerCall) (int, bool) {
	switch call := call.(type) {
	case domain.AddOwnerWithThreshold:
		return call.Threshold, true
	case domain.RemoveOwner:
		return call.Threshold, true
	case domain.ChangeThreshold:
		return call.Threshold, true
	}
	return 0, false
}

// MethodName returns the name of the known Safe or MultiSend method data
// calls, or "" when the selector is unknown.
func (c *CalldataClassifier) MethodName(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	for _, iface := range []*abi.ABI{c.safeABI, c.multiSendABI} {
		if method, err := iface.MethodById(data[:4]); err == nil {
			return method.RawName
		}
	}
	return ""
}

// Selector returns the 0x-prefixed selector of a Safe or MultiSend method
func (c *CalldataClassifier) Selector(name string) (string, error) {
	for _, iface := range []*abi.ABI{c.safeABI, c.multiSendABI} {
		if method, ok := iface.Methods[name]; ok {
			return hexutil.Encode(method.ID), nil
		}
	}
	return "", fmt.Errorf("%w: method %s", domain.ErrNotFound, name)
}

// Ensure the classifier implements the interfaces
var (
	_ usecase.CalldataClassifier = (*CalldataClassifier)(nil)
	_ usecase.CalldataEncoder    = (*CalldataClassifier)(nil)
)
