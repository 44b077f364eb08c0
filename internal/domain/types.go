package domain

import (
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
)

// AccountState is the owner set and confirmation threshold of a Safe.
// Owners are kept in the order they were added.
type AccountState struct {
	Owners    []common.Address `json:"owners"`
	Threshold int              `json:"threshold"`
}

// NewAccountState copies owners so the returned state does not alias the caller's slice.
func NewAccountState(owners []common.Address, threshold int) AccountState {
	return AccountState{
		Owners:    slices.Clone(owners),
		Threshold: threshold,
	}
}

// Clone returns a deep copy of the state
func (s AccountState) Clone() AccountState {
	return NewAccountState(s.Owners, s.Threshold)
}

// IndexOf returns the position of owner, or -1 when it is not an owner
func (s AccountState) IndexOf(owner common.Address) int {
	return lo.IndexOf(s.Owners, owner)
}

// IsOwner reports whether addr is in the owner set
func (s AccountState) IsOwner(addr common.Address) bool {
	return s.IndexOf(addr) >= 0
}

// Validate checks the owner/threshold invariants. Replay never calls this;
// it is for callers that build a state from user input.
func (s AccountState) Validate() error {
	if len(s.Owners) == 0 {
		return InvalidStateError{Reason: "no owners"}
	}
	if dups := lo.FindDuplicates(s.Owners); len(dups) > 0 {
		return InvalidStateError{Reason: fmt.Sprintf("duplicate owner %s", dups[0].Hex())}
	}
	if lo.Contains(s.Owners, common.Address{}) {
		return InvalidStateError{Reason: "zero address cannot be an owner"}
	}
	if s.Threshold < 1 || s.Threshold > len(s.Owners) {
		return InvalidStateError{Reason: fmt.Sprintf("threshold %d outside 1..%d", s.Threshold, len(s.Owners))}
	}
	return nil
}

// Operation is the Safe call type of a transaction
type Operation uint8

const (
	OperationCall         Operation = 0
	OperationDelegateCall Operation = 1
)

func (o Operation) String() string {
	switch o {
	case OperationCall:
		return "call"
	case OperationDelegateCall:
		return "delegatecall"
	default:
		return fmt.Sprintf("operation(%d)", uint8(o))
	}
}

// Transaction is a single call made by the Safe
type Transaction struct {
	To        common.Address `json:"to"`
	Value     *big.Int       `json:"value,omitempty"`
	Data      hexutil.Bytes  `json:"data"`
	Operation Operation      `json:"operation"`
}

// Selector returns the 4-byte function selector as 0x-prefixed hex, or "" for short calldata
func (t Transaction) Selector() string {
	if len(t.Data) < 4 {
		return ""
	}
	return hexutil.Encode(t.Data[:4])
}

// BatchTransaction is the ordered list of calls packed in a MultiSend
type BatchTransaction []Transaction

// ParseAddress parses a hex address. Case is ignored, so two spellings of the
// same address produce equal values.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// ParseAddresses parses a comma separated list of hex addresses
func ParseAddresses(list string) ([]common.Address, error) {
	parts := lo.Filter(strings.Split(list, ","), func(p string, _ int) bool {
		return strings.TrimSpace(p) != ""
	})
	addrs := make([]common.Address, 0, len(parts))
	for _, p := range parts {
		addr, err := ParseAddress(p)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
