package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// MockSafeService is a mock implementation of SafeService
type MockSafeService struct {
	mock.Mock
}

func (m *MockSafeService) GetSafeInfo(ctx context.Context, chainID string, safe common.Address) (*domain.SafeInfo, error) {
	args := m.Called(ctx, chainID, safe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SafeInfo), args.Error(1)
}

func (m *MockSafeService) GetTransaction(ctx context.Context, chainID string, safeTxHash string) (*domain.SafeTransaction, error) {
	args := m.Called(ctx, chainID, safeTxHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SafeTransaction), args.Error(1)
}

func (m *MockSafeService) GetPendingTransactions(ctx context.Context, chainID string, safe common.Address, fromNonce uint64) ([]*domain.SafeTransaction, error) {
	args := m.Called(ctx, chainID, safe, fromNonce)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SafeTransaction), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func safeInfo(version string) *domain.SafeInfo {
	return &domain.SafeInfo{
		Address:   safeAddr,
		Nonce:     10,
		Threshold: 2,
		Owners:    []common.Address{ownerA, ownerB, ownerC},
		Version:   version,
	}
}

func safeTx(hash string, nonce uint64, data []byte) *domain.SafeTransaction {
	return &domain.SafeTransaction{
		SafeTxHash: hash,
		Safe:       safeAddr,
		To:         safeAddr,
		Value:      big.NewInt(0),
		Data:       data,
		Nonce:      nonce,
	}
}

func TestPreviewTransaction(t *testing.T) {
	ctx := context.Background()
	f := newReplayFixture(t)

	newUseCase := func(cfg *config.RuntimeConfig, service *MockSafeService, sink *MockProgressSink) *usecase.PreviewTransaction {
		return usecase.NewPreviewTransaction(cfg, service, f.registry, f.replayer, sink, discardLogger())
	}

	t.Run("owner management", func(t *testing.T) {
		service := &MockSafeService{}
		sink := &MockProgressSink{}
		service.On("GetTransaction", mock.Anything, "1", "0xaa").Return(safeTx("0xaa", 10, f.swapOwner(ownerB, ownerC, ownerD)), nil)
		service.On("GetSafeInfo", mock.Anything, "1", safeAddr).Return(safeInfo("1.3.0+L2"), nil)

		result, err := newUseCase(&config.RuntimeConfig{ChainID: "1"}, service, sink).Run(ctx, usecase.PreviewTransactionParams{SafeTxHash: "0xaa"})
		require.NoError(t, err)

		assert.True(t, result.OwnerManagement)
		assert.False(t, result.Executed)
		assert.Equal(t, "1.3.0", result.Version)
		assert.Equal(t, []common.Address{ownerA, ownerB, ownerD}, result.After.Owners)
		assert.Equal(t, []common.Address{ownerD}, result.Diff.Added)
		assert.Equal(t, []common.Address{ownerC}, result.Diff.Removed)
		require.Len(t, result.Steps, 1)
		assert.Equal(t, domain.CallSwapOwner, result.Steps[0].Call.Kind())

		assert.Len(t, sink.events, 2)
		assert.Equal(t, 1, sink.done)
		service.AssertExpectations(t)
	})

	t.Run("not owner management", func(t *testing.T) {
		service := &MockSafeService{}
		service.On("GetTransaction", mock.Anything, "1", "0xbb").Return(safeTx("0xbb", 11, erc20Transfer(t)), nil)
		service.On("GetSafeInfo", mock.Anything, "1", safeAddr).Return(safeInfo("1.4.1"), nil)

		result, err := newUseCase(&config.RuntimeConfig{ChainID: "1"}, service, &MockProgressSink{}).Run(ctx, usecase.PreviewTransactionParams{SafeTxHash: "0xbb"})
		require.NoError(t, err)

		assert.False(t, result.OwnerManagement)
		assert.Equal(t, "0xa9059cbb", result.Selector)
		assert.Equal(t, result.Before, result.After)
		assert.True(t, result.Diff.IsEmpty())
		assert.Empty(t, result.Steps)
	})

	t.Run("executed transaction is flagged", func(t *testing.T) {
		service := &MockSafeService{}
		tx := safeTx("0xcc", 9, f.changeThreshold(3))
		tx.IsExecuted = true
		service.On("GetTransaction", mock.Anything, "1", "0xcc").Return(tx, nil)
		service.On("GetSafeInfo", mock.Anything, "1", safeAddr).Return(safeInfo("1.3.0"), nil)

		result, err := newUseCase(&config.RuntimeConfig{ChainID: "1"}, service, &MockProgressSink{}).Run(ctx, usecase.PreviewTransactionParams{SafeTxHash: "0xcc"})
		require.NoError(t, err)
		assert.True(t, result.Executed)
		assert.Equal(t, 3, result.After.Threshold)
	})

	t.Run("configured version overrides service", func(t *testing.T) {
		service := &MockSafeService{}
		service.On("GetTransaction", mock.Anything, "1", "0xdd").Return(safeTx("0xdd", 10, f.changeThreshold(1)), nil)
		service.On("GetSafeInfo", mock.Anything, "1", safeAddr).Return(safeInfo("1.3.0"), nil)

		result, err := newUseCase(&config.RuntimeConfig{ChainID: "1", SafeVersion: "1.1.1"}, service, &MockProgressSink{}).Run(ctx, usecase.PreviewTransactionParams{SafeTxHash: "0xdd"})
		require.NoError(t, err)
		assert.Equal(t, "1.1.1", result.Version)
	})

	t.Run("unknown reported version falls back to newest", func(t *testing.T) {
		service := &MockSafeService{}
		sink := &MockProgressSink{}
		service.On("GetTransaction", mock.Anything, "1", "0xee").Return(safeTx("0xee", 10, f.changeThreshold(1)), nil)
		service.On("GetSafeInfo", mock.Anything, "1", safeAddr).Return(safeInfo("1.5.0"), nil)

		result, err := newUseCase(&config.RuntimeConfig{ChainID: "1"}, service, sink).Run(ctx, usecase.PreviewTransactionParams{SafeTxHash: "0xee"})
		require.NoError(t, err)
		assert.Equal(t, "1.4.1", result.Version)
		require.Len(t, sink.infos, 1)
		assert.Contains(t, sink.infos[0], "Safe version 1.5.0")
		assert.Contains(t, sink.infos[0], "known: 1.4.1, 1.3.0, 1.2.0, 1.1.1")
	})

	t.Run("unknown configured version fails", func(t *testing.T) {
		service := &MockSafeService{}
		service.On("GetTransaction", mock.Anything, "1", "0xff").Return(safeTx("0xff", 10, f.changeThreshold(1)), nil)
		service.On("GetSafeInfo", mock.Anything, "1", safeAddr).Return(safeInfo("1.3.0"), nil)

		_, err := newUseCase(&config.RuntimeConfig{ChainID: "1", SafeVersion: "1.5.0"}, service, &MockProgressSink{}).Run(ctx, usecase.PreviewTransactionParams{SafeTxHash: "0xff"})
		assert.ErrorIs(t, err, domain.ErrDeploymentNotFound)
	})

	t.Run("malformed calldata fails", func(t *testing.T) {
		service := &MockSafeService{}
		service.On("GetTransaction", mock.Anything, "1", "0x11").Return(safeTx("0x11", 10, f.changeThreshold(1)[:10]), nil)
		service.On("GetSafeInfo", mock.Anything, "1", safeAddr).Return(safeInfo("1.3.0"), nil)

		_, err := newUseCase(&config.RuntimeConfig{ChainID: "1"}, service, &MockProgressSink{}).Run(ctx, usecase.PreviewTransactionParams{SafeTxHash: "0x11"})
		assert.ErrorIs(t, err, domain.ErrMalformedCalldata)
	})

	t.Run("service error", func(t *testing.T) {
		service := &MockSafeService{}
		sink := &MockProgressSink{}
		service.On("GetTransaction", mock.Anything, "1", "0x22").Return(nil, domain.ErrNotFound)

		_, err := newUseCase(&config.RuntimeConfig{ChainID: "1"}, service, sink).Run(ctx, usecase.PreviewTransactionParams{SafeTxHash: "0x22"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 1, sink.done)
		service.AssertNotCalled(t, "GetSafeInfo", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPreviewPending(t *testing.T) {
	ctx := context.Background()
	f := newReplayFixture(t)

	service := &MockSafeService{}
	service.On("GetSafeInfo", mock.Anything, "1", safeAddr).Return(safeInfo("1.3.0"), nil)
	service.On("GetPendingTransactions", mock.Anything, "1", safeAddr, uint64(10)).Return([]*domain.SafeTransaction{
		safeTx("0x03", 12, erc20Transfer(t)),
		safeTx("0x01", 10, f.addOwner(ownerD, 3)),
		safeTx("0x04", 13, f.changeThreshold(1)[:8]),
		safeTx("0x02", 11, f.changeThreshold(1)),
	}, nil)

	uc := usecase.NewPreviewPending(&config.RuntimeConfig{ChainID: "1"}, service, f.registry, f.replayer, &MockProgressSink{})
	preview, err := uc.Run(ctx, usecase.PreviewPendingParams{Safe: safeAddr})
	require.NoError(t, err)

	assert.Equal(t, uint64(10), preview.Nonce)
	require.Len(t, preview.Entries, 4)
	service.AssertNumberOfCalls(t, "GetSafeInfo", 1)
	service.AssertExpectations(t)

	// ordered by nonce
	for i, e := range preview.Entries {
		assert.Equal(t, uint64(10+i), e.Transaction.Nonce)
	}

	added := preview.Entries[0]
	assert.True(t, added.OwnerManagement)
	assert.Equal(t, []common.Address{ownerA, ownerB, ownerC, ownerD}, added.After.Owners)

	// replayed against the current state, not after the add
	lowered := preview.Entries[1]
	assert.Equal(t, []common.Address{ownerA, ownerB, ownerC}, lowered.After.Owners)
	assert.Equal(t, 1, lowered.After.Threshold)

	assert.False(t, preview.Entries[2].OwnerManagement)
	assert.Empty(t, preview.Entries[2].Error)

	broken := preview.Entries[3]
	assert.False(t, broken.OwnerManagement)
	assert.Contains(t, broken.Error, "malformed calldata")
	assert.Equal(t, preview.Current, broken.After)
}
