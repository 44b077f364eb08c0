package safe

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
)

const txHash = "0x8b1e0b9a2d3c0f4e6a5b7c8d9e0f1a2b3c4d5e6f708192a3b4c5d6e7f8091a2b"

var (
	safeAddr = common.HexToAddress("0x5afe5afe5afe5afe5afe5afe5afe5afe5afe5afe")
	ownerA   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	ownerB   = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *ClientAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClientAdapter(
		&config.RuntimeConfig{ServiceURL: server.URL},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func multisigTx(hash string, nonce int, data string) map[string]any {
	return map[string]any{
		"safe":                  safeAddr.Hex(),
		"to":                    safeAddr.Hex(),
		"value":                 "0",
		"data":                  data,
		"operation":             0,
		"nonce":                 nonce,
		"safeTxHash":            hash,
		"isExecuted":            false,
		"confirmationsRequired": 2,
		"confirmations":         []map[string]any{{"owner": ownerA.Hex()}},
	}
}

func TestClientAdapter_GetSafeInfo(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"address":   safeAddr.Hex(),
			"nonce":     4,
			"threshold": 2,
			"owners":    []string{strings.ToLower(ownerA.Hex()), ownerB.Hex()},
			"version":   "1.3.0+L2",
		})
	})

	info, err := adapter.GetSafeInfo(context.Background(), "1", safeAddr)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{ownerA, ownerB}, info.Owners)
	assert.Equal(t, 2, info.Threshold)
	assert.Equal(t, uint64(4), info.Nonce)
	assert.Equal(t, "1.3.0+L2", info.Version)
	assert.Equal(t, domain.NewAccountState([]common.Address{ownerA, ownerB}, 2), info.State())
}

func TestClientAdapter_GetTransaction(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		tx := multisigTx(txHash, 9, "0x694e80c30000000000000000000000000000000000000000000000000000000000000001")
		tx["transactionHash"] = "0xabc"
		tx["isExecuted"] = true
		_ = json.NewEncoder(w).Encode(tx)
	})

	tx, err := adapter.GetTransaction(context.Background(), "1", txHash)
	require.NoError(t, err)
	assert.Equal(t, safeAddr, tx.Safe)
	assert.Equal(t, safeAddr, tx.To)
	assert.Equal(t, uint64(9), tx.Nonce)
	assert.Equal(t, "0x694e80c3", tx.Transaction().Selector())
	assert.True(t, tx.IsExecuted)
	assert.Equal(t, "0xabc", tx.ExecutionTxHash)
	assert.Equal(t, 1, tx.Confirmations)
	assert.Equal(t, domain.OperationCall, tx.Operation)
}

func TestClientAdapter_Errors(t *testing.T) {
	notFound := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := notFound.GetTransaction(context.Background(), "1", txHash)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = notFound.GetTransaction(context.Background(), "1", "0x1234")
	assert.ErrorContains(t, err, "invalid safe transaction hash")

	_, err = notFound.GetSafeInfo(context.Background(), "mainnet", safeAddr)
	assert.ErrorContains(t, err, "invalid chain id")

	badData := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(multisigTx(txHash, 1, "0xzz"))
	})
	_, err = badData.GetTransaction(context.Background(), "1", txHash)
	assert.ErrorContains(t, err, "invalid data")

	badOperation := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		tx := multisigTx(txHash, 1, "0x")
		tx["operation"] = 3
		_ = json.NewEncoder(w).Encode(tx)
	})
	_, err = badOperation.GetTransaction(context.Background(), "1", txHash)
	assert.ErrorContains(t, err, "unknown operation")
}

func TestClientAdapter_GetPendingTransactions(t *testing.T) {
	requests := 0
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.True(t, strings.HasSuffix(r.URL.Path, "/multisig-transactions/"), "unexpected request %s", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("nonce__gte"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				multisigTx("0x01", 4, "0x"),
				multisigTx("0x02", 5, ""),
			},
		})
	})

	txs, err := adapter.GetPendingTransactions(context.Background(), "1", safeAddr, 4)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, uint64(4), txs[0].Nonce)
	assert.Empty(t, txs[1].Data)
	assert.Equal(t, 1, requests)
}
