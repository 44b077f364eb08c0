package safe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
	"github.com/trebuchet-org/safe-replay/pkg/safe"
)

// ClientAdapter wraps the Transaction Service client to implement SafeService.
// One client is kept per chain.
type ClientAdapter struct {
	cfg *config.RuntimeConfig
	log *slog.Logger

	mu      sync.Mutex
	clients map[uint64]*safe.SafeClient
}

// NewClientAdapter creates a new adapter for the configured service
func NewClientAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ClientAdapter {
	return &ClientAdapter{
		cfg:     cfg,
		log:     log.With("component", "SafeService"),
		clients: make(map[uint64]*safe.SafeClient),
	}
}

func (c *ClientAdapter) client(chainID string) (*safe.SafeClient, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(chainID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chain id %q: %w", chainID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[id]; ok {
		return client, nil
	}

	client, err := safe.NewSafeClient(id,
		safe.WithBaseURL(c.cfg.ServiceURL),
		safe.WithAPIKey(c.cfg.ServiceAPIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Safe client for chain %d: %w", id, err)
	}
	c.log.Debug("Created Safe Transaction Service client", "chain", id, "url", client.ServiceURL())
	c.clients[id] = client
	return client, nil
}

// GetSafeInfo returns the current owners, threshold, nonce and version of a Safe
func (c *ClientAdapter) GetSafeInfo(ctx context.Context, chainID string, safeAddress common.Address) (*domain.SafeInfo, error) {
	client, err := c.client(chainID)
	if err != nil {
		return nil, err
	}

	info, err := client.GetSafeInfo(ctx, safeAddress)
	if err != nil {
		return nil, translateError(fmt.Sprintf("safe %s", safeAddress.Hex()), err)
	}

	owners, err := domain.ParseAddresses(strings.Join(info.Owners, ","))
	if err != nil {
		return nil, fmt.Errorf("service returned invalid owners for %s: %w", safeAddress.Hex(), err)
	}

	return &domain.SafeInfo{
		Address:   safeAddress,
		Nonce:     info.Nonce,
		Threshold: info.Threshold,
		Owners:    owners,
		Version:   info.Version,
	}, nil
}

// GetTransaction returns a proposed or executed multisig transaction
func (c *ClientAdapter) GetTransaction(ctx context.Context, chainID string, safeTxHash string) (*domain.SafeTransaction, error) {
	client, err := c.client(chainID)
	if err != nil {
		return nil, err
	}

	hash, err := parseHash(safeTxHash)
	if err != nil {
		return nil, err
	}

	tx, err := client.GetTransaction(ctx, hash)
	if err != nil {
		return nil, translateError(fmt.Sprintf("transaction %s", hash.Hex()), err)
	}
	return convertTransaction(tx)
}

// GetPendingTransactions returns the unexecuted queue of a Safe from fromNonce on, lowest nonce first
func (c *ClientAdapter) GetPendingTransactions(ctx context.Context, chainID string, safeAddress common.Address, fromNonce uint64) ([]*domain.SafeTransaction, error) {
	client, err := c.client(chainID)
	if err != nil {
		return nil, err
	}

	txs, err := client.GetPendingTransactions(ctx, safeAddress, fromNonce)
	if err != nil {
		return nil, translateError(fmt.Sprintf("pending transactions of %s", safeAddress.Hex()), err)
	}
	c.log.Debug("Fetched pending transactions", "safe", safeAddress.Hex(), "count", len(txs), "nonce", fromNonce)

	result := make([]*domain.SafeTransaction, 0, len(txs))
	for _, tx := range txs {
		converted, err := convertTransaction(tx)
		if err != nil {
			return nil, err
		}
		result = append(result, converted)
	}
	return result, nil
}

func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid safe transaction hash %q", s)
	}
	return common.BytesToHash(b), nil
}

func convertTransaction(tx *safe.MultisigTransaction) (*domain.SafeTransaction, error) {
	to, err := domain.ParseAddress(tx.To)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.SafeTxHash, err)
	}
	safeAddress, err := domain.ParseAddress(tx.Safe)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.SafeTxHash, err)
	}

	value := new(big.Int)
	if tx.Value != "" {
		if _, ok := value.SetString(tx.Value, 10); !ok {
			return nil, fmt.Errorf("transaction %s: invalid value %q", tx.SafeTxHash, tx.Value)
		}
	}

	var data []byte
	if tx.Data != nil && *tx.Data != "" {
		data, err = hexutil.Decode(*tx.Data)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: invalid data: %w", tx.SafeTxHash, err)
		}
	}

	if tx.Operation != int(domain.OperationCall) && tx.Operation != int(domain.OperationDelegateCall) {
		return nil, fmt.Errorf("transaction %s: unknown operation %d", tx.SafeTxHash, tx.Operation)
	}

	return &domain.SafeTransaction{
		SafeTxHash:            tx.SafeTxHash,
		Safe:                  safeAddress,
		To:                    to,
		Value:                 value,
		Data:                  data,
		Operation:             domain.Operation(tx.Operation),
		Nonce:                 tx.Nonce,
		IsExecuted:            tx.IsExecuted,
		ExecutionTxHash:       lo.FromPtr(tx.TransactionHash),
		ConfirmationsRequired: tx.ConfirmationsRequired,
		Confirmations:         len(tx.Confirmations),
	}, nil
}

func translateError(what string, err error) error {
	if errors.Is(err, safe.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to fetch %s: %w", what, err)
}

// Ensure the adapter implements the interface
var _ usecase.SafeService = (*ClientAdapter)(nil)
