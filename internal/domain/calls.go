package domain

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// CallKind names the Safe OwnerManager function a call decodes to
type CallKind string

const (
	CallSwapOwner             CallKind = "swapOwner"
	CallAddOwnerWithThreshold CallKind = "addOwnerWithThreshold"
	CallRemoveOwner           CallKind = "removeOwner"
	CallChangeThreshold       CallKind = "changeThreshold"
)

// OwnerCall is a decoded owner-management call. Apply never mutates its
// argument; it returns the state after the call executes.
type OwnerCall interface {
	Kind() CallKind
	Apply(state AccountState) AccountState
	String() string
}

// SwapOwner replaces Old with New at the same position.
type SwapOwner struct {
	Prev common.Address `json:"prevOwner"`
	Old  common.Address `json:"oldOwner"`
	New  common.Address `json:"newOwner"`
}

func (c SwapOwner) Kind() CallKind { return CallSwapOwner }

// Apply leaves owners untouched when Old is not an owner.
func (c SwapOwner) Apply(state AccountState) AccountState {
	if !state.IsOwner(c.Old) {
		return state.Clone()
	}
	owners := lo.Map(state.Owners, func(owner common.Address, _ int) common.Address {
		if owner == c.Old {
			return c.New
		}
		return owner
	})
	return AccountState{Owners: owners, Threshold: state.Threshold}
}

func (c SwapOwner) String() string {
	return fmt.Sprintf("swapOwner(%s -> %s)", c.Old.Hex(), c.New.Hex())
}

// AddOwnerWithThreshold appends Owner and sets the threshold.
type AddOwnerWithThreshold struct {
	Owner     common.Address `json:"owner"`
	Threshold int            `json:"threshold"`
}

func (c AddOwnerWithThreshold) Kind() CallKind { return CallAddOwnerWithThreshold }

func (c AddOwnerWithThreshold) Apply(state AccountState) AccountState {
	owners := make([]common.Address, 0, len(state.Owners)+1)
	owners = append(owners, state.Owners...)
	owners = append(owners, c.Owner)
	return AccountState{Owners: owners, Threshold: c.Threshold}
}

func (c AddOwnerWithThreshold) String() string {
	return fmt.Sprintf("addOwnerWithThreshold(%s, %d)", c.Owner.Hex(), c.Threshold)
}

// RemoveOwner drops Owner and sets the threshold.
type RemoveOwner struct {
	Prev      common.Address `json:"prevOwner"`
	Owner     common.Address `json:"owner"`
	Threshold int            `json:"threshold"`
}

func (c RemoveOwner) Kind() CallKind { return CallRemoveOwner }

func (c RemoveOwner) Apply(state AccountState) AccountState {
	return AccountState{
		Owners:    lo.Without(state.Owners, c.Owner),
		Threshold: c.Threshold,
	}
}

func (c RemoveOwner) String() string {
	return fmt.Sprintf("removeOwner(%s, %d)", c.Owner.Hex(), c.Threshold)
}

// ChangeThreshold sets the threshold.
type ChangeThreshold struct {
	Threshold int `json:"threshold"`
}

func (c ChangeThreshold) Kind() CallKind { return CallChangeThreshold }

func (c ChangeThreshold) Apply(state AccountState) AccountState {
	return AccountState{Owners: state.Clone().Owners, Threshold: c.Threshold}
}

func (c ChangeThreshold) String() string {
	return fmt.Sprintf("changeThreshold(%d)", c.Threshold)
}

// ReplayStep is the state reached after applying Call
type ReplayStep struct {
	Call  OwnerCall    `json:"call"`
	State AccountState `json:"state"`
}

func (s ReplayStep) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  CallKind     `json:"kind"`
		Call  OwnerCall    `json:"call"`
		State AccountState `json:"state"`
	}{
		Kind:  s.Call.Kind(),
		Call:  s.Call,
		State: s.State,
	})
}

// StateDiff summarizes how a replay changed an account
type StateDiff struct {
	Added           []common.Address `json:"added"`
	Removed         []common.Address `json:"removed"`
	ThresholdBefore int              `json:"thresholdBefore"`
	ThresholdAfter  int              `json:"thresholdAfter"`
}

// Diff compares two states by owner membership and threshold
func Diff(before, after AccountState) StateDiff {
	removed, added := lo.Difference(before.Owners, after.Owners)
	return StateDiff{
		Added:           added,
		Removed:         removed,
		ThresholdBefore: before.Threshold,
		ThresholdAfter:  after.Threshold,
	}
}

// IsEmpty reports whether nothing changed
func (d StateDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && d.ThresholdBefore == d.ThresholdAfter
}
