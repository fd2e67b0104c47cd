package uintstore

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the client surface a Contract needs. *ethclient.Client and the
// simulated backend client both satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Contract binds the storage contract at a fixed address.
type Contract struct {
	address  common.Address
	abi      abi.ABI
	backend  Backend
	bound    *bind.BoundContract
	getter   string
	setter   string
	pending  bool
	gasLimit uint64
}

// NewContract binds the contract at address using contractABI.
// The ABI must carry a zero-argument getter returning uint256 and a
// single-argument uint256 setter.
func NewContract(address common.Address, contractABI abi.ABI, backend Backend, opts ...ContractOption) (*Contract, error) {
	c := &Contract{
		address: address,
		abi:     contractABI,
		backend: backend,
		getter:  DefaultGetter,
		setter:  DefaultSetter,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	c.bound = bind.NewBoundContract(address, contractABI, backend, backend, backend)
	return c, nil
}

// Address returns the contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// ABI returns the contract ABI.
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Backend returns the client the contract talks to.
func (c *Contract) Backend() Backend {
	return c.backend
}

// ReadValue returns the value currently stored in the contract.
// It performs an eth_call and costs no gas.
func (c *Contract) ReadValue(ctx context.Context) (*big.Int, error) {
	var out []any
	opts := &bind.CallOpts{Context: ctx, Pending: c.pending}
	if err := c.bound.Call(opts, &out, c.getter); err != nil {
		return nil, &CallError{Method: c.getter, Err: err}
	}
	if len(out) == 0 {
		return nil, &CallError{Method: c.getter, Err: ErrEmptyResult}
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// SetValue submits a setter transaction signed by signer and blocks until
// it is mined. A receipt with failed status is returned together with a
// *ReceiptError.
func (c *Contract) SetValue(ctx context.Context, value *big.Int, signer Account) (*types.Receipt, error) {
	if err := CheckValue(value); err != nil {
		return nil, &CallError{Method: c.setter, Err: err}
	}

	opts := signer.TransactOpts(ctx)
	if c.gasLimit > 0 {
		opts.GasLimit = c.gasLimit
	}

	tx, err := c.bound.Transact(opts, c.setter, value)
	if err != nil {
		return nil, &CallError{Method: c.setter, Err: err}
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, &CallError{Method: c.setter, Err: fmt.Errorf("wait mined %s: %w", tx.Hash().Hex(), err)}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, &ReceiptError{TxHash: receipt.TxHash, Status: receipt.Status}
	}
	return receipt, nil
}

// validate checks that the getter and setter have the expected signatures.
func (c *Contract) validate() error {
	getter, ok := c.abi.Methods[c.getter]
	if !ok {
		return &MethodNotFoundError{Contract: c.address, Method: c.getter}
	}
	if !getter.IsConstant() {
		return &TypeMismatchError{Method: c.getter, Expected: "view function", Got: getter.StateMutability}
	}
	if len(getter.Inputs) != 0 {
		return &TypeMismatchError{Method: c.getter, Expected: "no inputs", Got: fmt.Sprintf("%d inputs", len(getter.Inputs))}
	}
	if len(getter.Outputs) != 1 || !isUint256(getter.Outputs[0].Type) {
		return &TypeMismatchError{Method: c.getter, Expected: "returns (uint256)", Got: "returns " + argTypes(getter.Outputs)}
	}

	setter, ok := c.abi.Methods[c.setter]
	if !ok {
		return &MethodNotFoundError{Contract: c.address, Method: c.setter}
	}
	if setter.IsConstant() {
		return &TypeMismatchError{Method: c.setter, Expected: "state-mutating function", Got: setter.StateMutability}
	}
	if len(setter.Inputs) != 1 || !isUint256(setter.Inputs[0].Type) {
		return &TypeMismatchError{Method: c.setter, Expected: "(uint256)", Got: argTypes(setter.Inputs)}
	}
	return nil
}

func isUint256(t abi.Type) bool {
	return t.T == abi.UintTy && t.Size == 256
}

func argTypes(args abi.Arguments) string {
	s := "("
	for i, a := range args {
		if i > 0 {
			s += ","
		}
		s += a.Type.String()
	}
	return s + ")"
}
