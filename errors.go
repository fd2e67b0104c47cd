package uintstore

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for common failure conditions.
var (
	// ErrNoAccounts indicates the account source returned no signing identities.
	ErrNoAccounts = errors.New("uintstore: no accounts available")

	// ErrTransactionReverted indicates the setter transaction was mined with a failed status.
	ErrTransactionReverted = errors.New("uintstore: transaction reverted")

	// ErrNegativeValue indicates a negative value was supplied for a uint256 slot.
	ErrNegativeValue = errors.New("uintstore: value must not be negative")

	// ErrValueOverflow indicates a value does not fit in 256 bits.
	ErrValueOverflow = errors.New("uintstore: value overflows uint256")

	// ErrEmptyResult indicates a view call returned no output values.
	ErrEmptyResult = errors.New("uintstore: call returned no result")

	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("uintstore: invalid configuration")
)

// MethodNotFoundError indicates the contract ABI doesn't have the requested method.
type MethodNotFoundError struct {
	Contract common.Address
	Method   string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("uintstore: method %q not found in contract %s", e.Method, e.Contract.Hex())
}

// TypeMismatchError indicates a method's signature doesn't have the expected shape.
type TypeMismatchError struct {
	Method   string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("uintstore: method %q: expected %s, got %s", e.Method, e.Expected, e.Got)
}

// CallError wraps a failure returned by the client while invoking a contract method.
type CallError struct {
	Method string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("uintstore: %s: %v", e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// ReceiptError indicates a mined transaction did not succeed.
type ReceiptError struct {
	TxHash common.Hash
	Status uint64
}

func (e *ReceiptError) Error() string {
	return fmt.Sprintf("uintstore: transaction %s failed with status %d", e.TxHash.Hex(), e.Status)
}

func (e *ReceiptError) Unwrap() error {
	return ErrTransactionReverted
}

// ArtifactError indicates a compiler artifact or ABI file could not be loaded.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("uintstore: abi artifact: %v", e.Err)
	}
	return fmt.Sprintf("uintstore: abi artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}
