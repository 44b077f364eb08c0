package safe

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionServiceURLs contains the Safe Transaction Service URLs for different networks
var TransactionServiceURLs = map[uint64]string{
	1:        "https://safe-transaction-mainnet.safe.global",
	5:        "https://safe-transaction-goerli.safe.global",
	10:       "https://safe-transaction-optimism.safe.global",
	56:       "https://safe-transaction-bsc.safe.global",
	100:      "https://safe-transaction-gnosis-chain.safe.global",
	137:      "https://safe-transaction-polygon.safe.global",
	324:      "https://safe-transaction-zksync.safe.global",
	1101:     "https://safe-transaction-zkevm.safe.global",
	8453:     "https://safe-transaction-base.safe.global",
	42161:    "https://safe-transaction-arbitrum.safe.global",
	42220:    "https://safe-transaction-celo.safe.global",
	43114:    "https://safe-transaction-avalanche.safe.global",
	59144:    "https://safe-transaction-linea.safe.global",
	534352:   "https://safe-transaction-scroll.safe.global",
	11155111: "https://safe-transaction-sepolia.safe.global",
}

// MultisigTransaction represents a Safe multisig transaction
type MultisigTransaction struct {
	Safe                  string         `json:"safe"`
	To                    string         `json:"to"`
	Value                 string         `json:"value"`
	Data                  *string        `json:"data"`
	Operation             int            `json:"operation"`
	Nonce                 uint64         `json:"nonce"`
	ExecutionDate         *time.Time     `json:"executionDate"`
	SubmissionDate        time.Time      `json:"submissionDate"`
	TransactionHash       *string        `json:"transactionHash"`
	SafeTxHash            string         `json:"safeTxHash"`
	IsExecuted            bool           `json:"isExecuted"`
	IsSuccessful          *bool          `json:"isSuccessful"`
	ConfirmationsRequired int            `json:"confirmationsRequired"`
	Confirmations         []Confirmation `json:"confirmations"`
	Trusted               bool           `json:"trusted"`
}

// Confirmation represents a confirmation on a Safe transaction
type Confirmation struct {
	Owner          string    `json:"owner"`
	SubmissionDate time.Time `json:"submissionDate"`
	Signature      string    `json:"signature"`
	SignatureType  string    `json:"signatureType"`
}

// SafeInfo is the service's view of a Safe's current configuration
type SafeInfo struct {
	Address    string   `json:"address"`
	Nonce      uint64   `json:"nonce"`
	Threshold  int      `json:"threshold"`
	Owners     []string `json:"owners"`
	MasterCopy string   `json:"masterCopy"`
	Version    string   `json:"version"`
}

type page[T any] struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []T     `json:"results"`
}

// GetSafeInfo retrieves the owners, threshold, nonce and version of a Safe
func (c *SafeClient) GetSafeInfo(ctx context.Context, safeAddress common.Address) (*SafeInfo, error) {
	var info SafeInfo
	if err := c.get(ctx, fmt.Sprintf("/api/v1/safes/%s/", safeAddress.Hex()), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetTransaction retrieves a Safe transaction by its hash
func (c *SafeClient) GetTransaction(ctx context.Context, safeTxHash common.Hash) (*MultisigTransaction, error) {
	var tx MultisigTransaction
	if err := c.get(ctx, fmt.Sprintf("/api/v1/multisig-transactions/%s/", safeTxHash.Hex()), &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetPendingTransactions retrieves every unexecuted transaction with a nonce
// at or above the Safe's current nonce, following pagination.
func (c *SafeClient) GetPendingTransactions(ctx context.Context, safeAddress common.Address, currentNonce uint64) ([]*MultisigTransaction, error) {
	query := url.Values{}
	query.Set("executed", "false")
	query.Set("nonce__gte", strconv.FormatUint(currentNonce, 10))
	query.Set("ordering", "nonce")

	path := fmt.Sprintf("/api/v1/safes/%s/multisig-transactions/?%s", safeAddress.Hex(), query.Encode())

	var all []*MultisigTransaction
	for path != "" {
		var result page[*MultisigTransaction]
		if err := c.get(ctx, path, &result); err != nil {
			return nil, err
		}
		all = append(all, result.Results...)

		path = ""
		if result.Next != nil && *result.Next != "" {
			next, err := c.relativePath(*result.Next)
			if err != nil {
				return nil, err
			}
			path = next
		}
	}

	return all, nil
}

// relativePath turns an absolute "next" link into a path on this client's base URL
func (c *SafeClient) relativePath(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid pagination link %q: %w", link, err)
	}
	base, err := url.Parse(c.serviceURL)
	if err != nil {
		return "", err
	}

	path := u.Path
	if base.Path != "" {
		path = strings.TrimPrefix(path, base.Path)
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path, nil
}
