package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidState is returned when an account state breaks the owner/threshold invariants
	ErrInvalidState = errors.New("invalid account state")

	// ErrDeploymentNotFound is returned when no canonical Safe deployment exists for a chain/version
	ErrDeploymentNotFound = errors.New("safe deployment not found")

	// ErrUnrecognizedTransaction is returned when calldata is not an owner-management call or a MultiSend batch
	ErrUnrecognizedTransaction = errors.New("unrecognized transaction")

	// ErrMalformedCalldata is returned when calldata matches a known selector but cannot be decoded
	ErrMalformedCalldata = errors.New("malformed calldata")
)

// DeploymentNotFoundError reports a registry miss for a chain/version pair.
type DeploymentNotFoundError struct {
	ChainID string
	Version string
}

func (e DeploymentNotFoundError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("no Safe deployment found for chain %s", e.ChainID)
	}
	return fmt.Sprintf("no Safe %s deployment found for chain %s", e.Version, e.ChainID)
}

func (e DeploymentNotFoundError) Is(target error) bool {
	return target == ErrDeploymentNotFound
}

// UnrecognizedTransactionError reports calldata whose selector is not one of
// the owner-management functions.
type UnrecognizedTransactionError struct {
	Selector string
}

func (e UnrecognizedTransactionError) Error() string {
	if e.Selector == "" {
		return "unrecognized transaction: empty calldata"
	}
	return fmt.Sprintf("unrecognized transaction: selector %s is not an owner-management call", e.Selector)
}

func (e UnrecognizedTransactionError) Is(target error) bool {
	return target == ErrUnrecognizedTransaction
}

// MalformedCalldataError reports calldata that matched a known function but
// failed to decode into the expected parameters.
type MalformedCalldataError struct {
	Method string
	Reason string
	Err    error
}

func (e MalformedCalldataError) Error() string {
	msg := "malformed calldata"
	if e.Method != "" {
		msg += " for " + e.Method
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e MalformedCalldataError) Is(target error) bool {
	return target == ErrMalformedCalldata
}

func (e MalformedCalldataError) Unwrap() error {
	return e.Err
}

// InvalidStateError reports why an AccountState is not usable.
type InvalidStateError struct {
	Reason string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("invalid account state: %s", e.Reason)
}

func (e InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
