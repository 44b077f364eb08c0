package abi

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/safe-replay/internal/domain"
)

// Packed MultiSend entry layout:
// operation (1) | to (20) | value (32) | data length (32) | data (data length)
const (
	operationSize = 1
	wordSize      = 32
	entryHeader   = operationSize + common.AddressLength + 2*wordSize
)

func unpackTransactions(packed []byte) (domain.BatchTransaction, error) {
	var txs domain.BatchTransaction

	for offset := 0; offset < len(packed); {
		index := len(txs)
		if len(packed)-offset < entryHeader {
			return nil, domain.MalformedCalldataError{
				Method: multiSendMethod,
				Reason: fmt.Sprintf("transaction %d: truncated header (%d bytes left)", index, len(packed)-offset),
			}
		}

		op := domain.Operation(packed[offset])
		if op != domain.OperationCall && op != domain.OperationDelegateCall {
			return nil, domain.MalformedCalldataError{
				Method: multiSendMethod,
				Reason: fmt.Sprintf("transaction %d: unknown %s", index, op),
			}
		}

		pos := offset + operationSize
		to := common.BytesToAddress(packed[pos : pos+common.AddressLength])
		pos += common.AddressLength
		value := new(big.Int).SetBytes(packed[pos : pos+wordSize])
		pos += wordSize
		length := new(big.Int).SetBytes(packed[pos : pos+wordSize])
		pos += wordSize

		remaining := uint64(len(packed) - pos)
		if !length.IsUint64() || length.Uint64() > remaining {
			return nil, domain.MalformedCalldataError{
				Method: multiSendMethod,
				Reason: fmt.Sprintf("transaction %d: data length %s exceeds remaining %d bytes", index, length, remaining),
			}
		}
		end := pos + int(length.Uint64())

		txs = append(txs, domain.Transaction{
			To:        to,
			Value:     value,
			Data:      slices.Clone(packed[pos:end]),
			Operation: op,
		})
		offset = end
	}

	return txs, nil
}

func packTransactions(txs domain.BatchTransaction) ([]byte, error) {
	packed := []byte{}
	for i, tx := range txs {
		if tx.Operation != domain.OperationCall && tx.Operation != domain.OperationDelegateCall {
			return nil, fmt.Errorf("transaction %d: unsupported %s", i, tx.Operation)
		}
		value := tx.Value
		if value == nil {
			value = new(big.Int)
		}
		if value.Sign() < 0 || value.BitLen() > 256 {
			return nil, fmt.Errorf("transaction %d: value %s out of uint256 range", i, value)
		}

		packed = append(packed, byte(tx.Operation))
		packed = append(packed, tx.To.Bytes()...)
		packed = append(packed, common.LeftPadBytes(value.Bytes(), wordSize)...)
		packed = append(packed, common.LeftPadBytes(big.NewInt(int64(len(tx.Data))).Bytes(), wordSize)...)
		packed = append(packed, tx.Data...)
	}
	return packed, nil
}
