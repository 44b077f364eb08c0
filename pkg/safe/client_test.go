package safe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSafe   = common.HexToAddress("0x5afe5afe5afe5afe5afe5afe5afe5afe5afe5afe")
	testTxHash = common.HexToHash("0x8b1e0b9a2d3c0f4e6a5b7c8d9e0f1a2b3c4d5e6f708192a3b4c5d6e7f8091a2b")
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *SafeClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewSafeClient(999999, append([]Option{WithBaseURL(server.URL)}, opts...)...)
	require.NoError(t, err)
	return client
}

func TestNewSafeClient(t *testing.T) {
	c, err := NewSafeClient(1)
	require.NoError(t, err)
	assert.Equal(t, "https://safe-transaction-mainnet.safe.global", c.ServiceURL())

	_, err = NewSafeClient(999999)
	assert.Error(t, err)

	c, err = NewSafeClient(999999, WithBaseURL("http://localhost:8000/"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.ServiceURL())
}

func TestSafeClient_GetSafeInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/safes/"+testSafe.Hex()+"/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"address":   testSafe.Hex(),
			"nonce":     12,
			"threshold": 2,
			"owners":    []string{"0x1111111111111111111111111111111111111111", "0x2222222222222222222222222222222222222222"},
			"version":   "1.3.0+L2",
		})
	}, WithAPIKey("key"))

	info, err := client.GetSafeInfo(context.Background(), testSafe)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), info.Nonce)
	assert.Equal(t, 2, info.Threshold)
	assert.Len(t, info.Owners, 2)
	assert.Equal(t, "1.3.0+L2", info.Version)
}

func TestSafeClient_GetTransaction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/multisig-transactions/"+testTxHash.Hex()+"/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{
  "safe": "0x5afe5afe5afe5afe5afe5afe5afe5afe5afe5afe",
  "to": "0x5afe5afe5afe5afe5afe5afe5afe5afe5afe5afe",
  "value": "0",
  "data": "0x694e80c30000000000000000000000000000000000000000000000000000000000000001",
  "operation": 0,
  "nonce": 7,
  "safeTxHash": "` + testTxHash.Hex() + `",
  "isExecuted": true,
  "transactionHash": "0x0000000000000000000000000000000000000000000000000000000000000abc",
  "confirmationsRequired": 2,
  "confirmations": [{"owner": "0x1111111111111111111111111111111111111111", "signature": "0x"}]
}`))
	})

	tx, err := client.GetTransaction(context.Background(), testTxHash)
	require.NoError(t, err)
	require.NotNil(t, tx.Data)
	assert.Equal(t, uint64(7), tx.Nonce)
	assert.Len(t, tx.Confirmations, 1)
	assert.True(t, tx.IsExecuted)
	require.NotNil(t, tx.TransactionHash)
	assert.Equal(t, common.HexToHash("0xabc"), common.HexToHash(*tx.TransactionHash))
}

func TestSafeClient_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
		_, err := client.GetTransaction(context.Background(), testTxHash)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		})
		_, err := client.GetSafeInfo(context.Background(), testSafe)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
		assert.Contains(t, statusErr.Body, "boom")
	})

	t.Run("invalid json", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{"))
		})
		_, err := client.GetSafeInfo(context.Background(), testSafe)
		assert.ErrorContains(t, err, "failed to decode response")
	})

	t.Run("cancelled context", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{}"))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.GetSafeInfo(ctx, testSafe)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSafeClient_GetPendingTransactions(t *testing.T) {
	var serverURL string
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/api/v1/safes/"+testSafe.Hex()+"/multisig-transactions/", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("executed"))
		assert.Equal(t, "12", r.URL.Query().Get("nonce__gte"))

		if r.URL.Query().Get("offset") == "" {
			next := serverURL + r.URL.Path + "?executed=false&nonce__gte=12&ordering=nonce&offset=1"
			_ = json.NewEncoder(w).Encode(map[string]any{
				"count":   2,
				"next":    next,
				"results": []map[string]any{{"safeTxHash": "0x01", "nonce": 12}},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":   2,
			"next":    nil,
			"results": []map[string]any{{"safeTxHash": "0x02", "nonce": 13}},
		})
	}))
	t.Cleanup(server.Close)
	serverURL = server.URL

	client, err := NewSafeClient(1, WithBaseURL(server.URL))
	require.NoError(t, err)

	txs, err := client.GetPendingTransactions(context.Background(), testSafe, 12)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "0x01", txs[0].SafeTxHash)
	assert.Equal(t, "0x02", txs[1].SafeTxHash)
	assert.Equal(t, 2, requests)
}
