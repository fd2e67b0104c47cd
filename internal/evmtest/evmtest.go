// Package evmtest provides an in-process chain with a minimal storage
// contract deployed, for tests that exercise real transactions.
package evmtest

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
)

// Opcodes used by the storage contract.
const (
	opStop         = 0x00
	opEq           = 0x14
	opShr          = 0x1c
	opCalldataload = 0x35
	opCodecopy     = 0x39
	opMstore       = 0x52
	opSload        = 0x54
	opSstore       = 0x55
	opJumpi        = 0x57
	opJumpdest     = 0x5b
	opPush1        = 0x60
	opPush4        = 0x63
	opDup1         = 0x80
	opReturn       = 0xf3
	opRevert       = 0xfd
)

// Jump targets inside the runtime code.
const (
	getterLabel = 0x1e
	setterLabel = 0x2a
)

// StorageRuntime returns runtime bytecode that keeps one uint256 in slot 0.
// getter returns it, setter overwrites it, anything else reverts.
func StorageRuntime(getter, setter []byte) []byte {
	return runtime(getter, setter, []byte{
		opPush1, 0x04, opCalldataload,
		opPush1, 0x00, opSstore,
		opStop,
	})
}

// RevertingRuntime is like StorageRuntime but the setter always reverts.
func RevertingRuntime(getter, setter []byte) []byte {
	return runtime(getter, setter, []byte{
		opPush1, 0x00, opDup1, opRevert,
	})
}

func runtime(getter, setter, setterBody []byte) []byte {
	code := []byte{
		// selector := calldata[0:4]
		opPush1, 0x00, opCalldataload, opPush1, 0xe0, opShr,
		opDup1, opPush4, getter[0], getter[1], getter[2], getter[3], opEq, opPush1, getterLabel, opJumpi,
		opDup1, opPush4, setter[0], setter[1], setter[2], setter[3], opEq, opPush1, setterLabel, opJumpi,
		opPush1, 0x00, opDup1, opRevert,
		// getter
		opJumpdest,
		opPush1, 0x00, opSload, opPush1, 0x00, opMstore,
		opPush1, 0x20, opPush1, 0x00, opReturn,
		// setter
		opJumpdest,
	}
	return append(code, setterBody...)
}

// InitCode wraps runtime code in a constructor that returns it.
func InitCode(runtime []byte) []byte {
	const ctorLen = 11
	ctor := []byte{
		opPush1, byte(len(runtime)), opDup1,
		opPush1, ctorLen, opPush1, 0x00, opCodecopy,
		opPush1, 0x00, opReturn,
	}
	return append(ctor, runtime...)
}

// Client is a simulated client that mines a block after every accepted transaction.
type Client struct {
	simulated.Client
	backend *simulated.Backend
}

// SendTransaction submits tx and commits it into a new block.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	c.backend.Commit()
	return nil
}

// Chain is a simulated chain with one funded account and one contract.
type Chain struct {
	Backend  *simulated.Backend
	Client   *Client
	Key      *ecdsa.PrivateKey
	Funded   common.Address
	Contract common.Address
}

// ContractAddress is where NewChain places the contract code.
var ContractAddress = common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")

// NewChain starts a simulated chain with code at ContractAddress and a funded key.
func NewChain(t testing.TB, code []byte) *Chain {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	funded := crypto.PubkeyToAddress(key.PublicKey)

	balance := new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
	backend := simulated.NewBackend(types.GenesisAlloc{
		funded:          {Balance: balance},
		ContractAddress: {Code: code, Balance: big.NewInt(0)},
	})
	t.Cleanup(func() { _ = backend.Close() })

	return &Chain{
		Backend:  backend,
		Client:   &Client{Client: backend.Client(), backend: backend},
		Key:      key,
		Funded:   funded,
		Contract: ContractAddress,
	}
}
