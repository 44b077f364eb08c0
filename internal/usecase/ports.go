package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/safe-replay/internal/domain"
)

// DeploymentRegistry resolves the canonical Safe deployment for a chain.
// An empty version selects the newest released version on that chain.
type DeploymentRegistry interface {
	Lookup(chainID string, version string) (*domain.SafeDeployment, error)
	List() []*domain.SafeDeployment
	Versions() []string
}

// CalldataClassifier recognizes and decodes Safe owner-management and MultiSend calldata
type CalldataClassifier interface {
	IsMultiSendCall(data []byte) bool
	DecodeMultiSend(data []byte) (domain.BatchTransaction, error)
	IsSwapOwnerCall(data []byte) bool
	IsAddOwnerWithThresholdCall(data []byte) bool
	IsRemoveOwnerCall(data []byte) bool
	IsChangeThresholdCall(data []byte) bool
	DecodeFunctionData(iface *abi.ABI, name string, data []byte) ([]any, error)
}

// CalldataEncoder builds owner-management and MultiSend calldata
type CalldataEncoder interface {
	EncodeOwnerCall(call domain.OwnerCall) ([]byte, error)
	EncodeMultiSend(txs domain.BatchTransaction) ([]byte, error)
}

// SafeService reads Safe state and proposed transactions from the Safe Transaction Service
type SafeService interface {
	GetSafeInfo(ctx context.Context, chainID string, safe common.Address) (*domain.SafeInfo, error)
	GetTransaction(ctx context.Context, chainID string, safeTxHash string) (*domain.SafeTransaction, error)
	GetPendingTransactions(ctx context.Context, chainID string, safe common.Address, fromNonce uint64) ([]*domain.SafeTransaction, error)
}

// InteractiveSelector lets the user pick a pending transaction
type InteractiveSelector interface {
	SelectTransaction(ctx context.Context, txs []*domain.SafeTransaction, prompt string) (*domain.SafeTransaction, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
	Done()
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
func (NopProgress) Done()                                     {}
