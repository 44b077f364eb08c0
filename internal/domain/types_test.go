package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Selector(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "erc20 transfer", data: "0xa9059cbb00", want: "0xa9059cbb"},
		{name: "exactly four bytes", data: "0x694e80c3", want: "0x694e80c3"},
		{name: "leading zero byte", data: "0x0d582f1300000000", want: "0x0d582f13"},
		{name: "short", data: "0xa9059c", want: ""},
		{name: "empty", data: "0x", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Transaction{Data: hexutil.MustDecode(tt.data)}
			assert.Equal(t, tt.want, tx.Selector())
		})
	}
}

func TestUnrecognizedTransactionError_ShowsSelector(t *testing.T) {
	tx := Transaction{Data: hexutil.MustDecode("0xa9059cbb00")}
	err := UnrecognizedTransactionError{Selector: tx.Selector()}
	assert.Contains(t, err.Error(), "selector 0xa9059cbb ")
	assert.ErrorIs(t, err, ErrUnrecognizedTransaction)
}

func TestAccountState_IsOwner(t *testing.T) {
	state := NewAccountState([]common.Address{ownerA, ownerB}, 1)
	assert.True(t, state.IsOwner(ownerB))
	assert.False(t, state.IsOwner(ownerC))
	assert.False(t, state.IsOwner(common.Address{}))
}
