package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SafeDeployment is the canonical Safe contract set for one version on one chain
type SafeDeployment struct {
	Version           string         `json:"version"`
	ChainID           string         `json:"chainId"`
	Released          bool           `json:"released"`
	Singleton         common.Address `json:"singleton"`
	SingletonL2       common.Address `json:"singletonL2,omitempty"`
	MultiSend         common.Address `json:"multiSend"`
	MultiSendCallOnly common.Address `json:"multiSendCallOnly,omitempty"`
	ABI               *abi.ABI       `json:"-"`
}

// SafeInfo is the on-chain state of a Safe as reported by the Transaction Service
type SafeInfo struct {
	Address   common.Address   `json:"address"`
	Nonce     uint64           `json:"nonce"`
	Threshold int              `json:"threshold"`
	Owners    []common.Address `json:"owners"`
	Version   string           `json:"version"`
}

// State returns the owner/threshold part of the info
func (i *SafeInfo) State() AccountState {
	return NewAccountState(i.Owners, i.Threshold)
}

// SafeTransaction is a multisig transaction proposed to a Safe
type SafeTransaction struct {
	SafeTxHash            string         `json:"safeTxHash"`
	Safe                  common.Address `json:"safe"`
	To                    common.Address `json:"to"`
	Value                 *big.Int       `json:"value"`
	Data                  hexutil.Bytes  `json:"data"`
	Operation             Operation      `json:"operation"`
	Nonce                 uint64         `json:"nonce"`
	IsExecuted            bool           `json:"isExecuted"`
	ExecutionTxHash       string         `json:"executionTxHash,omitempty"`
	ConfirmationsRequired int            `json:"confirmationsRequired"`
	Confirmations         int            `json:"confirmations"`
}

// Transaction returns the call the Safe makes when executing
func (t *SafeTransaction) Transaction() Transaction {
	return Transaction{
		To:        t.To,
		Value:     t.Value,
		Data:      t.Data,
		Operation: t.Operation,
	}
}
