package uintstore

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Account is a signing identity available to the client.
type Account struct {
	Address common.Address

	opts      *bind.TransactOpts
	signerFor func(ctx context.Context) signerFn
}

// TransactOpts returns a fresh copy of the account's transaction options bound to ctx.
func (a Account) TransactOpts(ctx context.Context) *bind.TransactOpts {
	var o bind.TransactOpts
	if a.opts != nil {
		o = *a.opts
	}
	o.From = a.Address
	o.Context = ctx
	if a.signerFor != nil {
		o.Signer = a.signerFor(ctx)
	}
	return &o
}

// AccountSource lists the signing identities controlled by the caller.
type AccountSource interface {
	Accounts(ctx context.Context) ([]Account, error)
}

// ChainIDReader retrieves the chain ID used for replay-protected signing.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// ListAccounts returns the accounts of src in order. An empty list is an error.
func ListAccounts(ctx context.Context, src AccountSource) ([]Account, error) {
	list, err := src.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("uintstore: list accounts: %w", err)
	}
	if len(list) == 0 {
		return nil, ErrNoAccounts
	}
	return list, nil
}

// KeyedAccounts signs with private keys held in memory.
type KeyedAccounts struct {
	chain ChainIDReader
	keys  []*ecdsa.PrivateKey
}

// NewKeyedAccounts creates an AccountSource from private keys.
func NewKeyedAccounts(chain ChainIDReader, keys ...*ecdsa.PrivateKey) *KeyedAccounts {
	return &KeyedAccounts{chain: chain, keys: keys}
}

// NewKeyedAccountsFromHex is like NewKeyedAccounts but parses hex-encoded keys.
// A 0x prefix is optional.
func NewKeyedAccountsFromHex(chain ChainIDReader, hexKeys ...string) (*KeyedAccounts, error) {
	keys := make([]*ecdsa.PrivateKey, 0, len(hexKeys))
	for i, h := range hexKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(h), "0x"))
		if err != nil {
			return nil, fmt.Errorf("uintstore: private key %d: %w", i, err)
		}
		keys = append(keys, key)
	}
	return NewKeyedAccounts(chain, keys...), nil
}

// Accounts implements AccountSource.
func (k *KeyedAccounts) Accounts(ctx context.Context) ([]Account, error) {
	if len(k.keys) == 0 {
		return nil, nil
	}
	chainID, err := k.chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}

	out := make([]Account, 0, len(k.keys))
	for _, key := range k.keys {
		opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
		if err != nil {
			return nil, err
		}
		out = append(out, Account{Address: opts.From, opts: opts})
	}
	return out, nil
}

// KeystoreAccounts signs with accounts from an encrypted JSON keystore.
type KeystoreAccounts struct {
	chain      ChainIDReader
	ks         *keystore.KeyStore
	passphrase string
}

// OpenKeystore opens the keystore directory at dir with standard scrypt parameters.
func OpenKeystore(dir string) *keystore.KeyStore {
	return keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
}

// NewKeystoreAccounts creates an AccountSource that unlocks every account in
// ks with passphrase.
func NewKeystoreAccounts(chain ChainIDReader, ks *keystore.KeyStore, passphrase string) *KeystoreAccounts {
	return &KeystoreAccounts{chain: chain, ks: ks, passphrase: passphrase}
}

// Accounts implements AccountSource.
func (k *KeystoreAccounts) Accounts(ctx context.Context) ([]Account, error) {
	wallets := k.ks.Accounts()
	if len(wallets) == 0 {
		return nil, nil
	}
	chainID, err := k.chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}

	out := make([]Account, 0, len(wallets))
	for _, acc := range wallets {
		if err := k.ks.Unlock(acc, k.passphrase); err != nil {
			return nil, fmt.Errorf("unlock %s: %w", acc.Address.Hex(), err)
		}
		out = append(out, Account{Address: acc.Address, opts: k.transactOpts(acc, chainID)})
	}
	return out, nil
}

func (k *KeystoreAccounts) transactOpts(acc accounts.Account, chainID *big.Int) *bind.TransactOpts {
	return &bind.TransactOpts{
		From: acc.Address,
		Signer: func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if from != acc.Address {
				return nil, fmt.Errorf("keystore account %s cannot sign for %s", acc.Address.Hex(), from.Hex())
			}
			return k.ks.SignTx(acc, tx, chainID)
		},
	}
}

// RPCCaller performs raw JSON-RPC calls. *rpc.Client satisfies it.
type RPCCaller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// NodeAccounts uses the accounts unlocked on the node itself. Transactions
// are signed by the node through eth_signTransaction.
type NodeAccounts struct {
	rpc RPCCaller
}

// NewNodeAccounts creates an AccountSource backed by the node's eth_accounts.
func NewNodeAccounts(rpc RPCCaller) *NodeAccounts {
	return &NodeAccounts{rpc: rpc}
}

// Accounts implements AccountSource.
func (n *NodeAccounts) Accounts(ctx context.Context) ([]Account, error) {
	var addrs []common.Address
	if err := n.rpc.CallContext(ctx, &addrs, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts: %w", err)
	}

	out := make([]Account, len(addrs))
	for i, addr := range addrs {
		out[i] = Account{Address: addr, signerFor: n.signer}
	}
	return out, nil
}

// signTxArgs is the transaction object accepted by eth_signTransaction.
type signTxArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to,omitempty"`
	Gas                  hexutil.Uint64  `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Input                hexutil.Bytes   `json:"input"`
	ChainID              *hexutil.Big    `json:"chainId,omitempty"`
}

func newSignTxArgs(from common.Address, tx *types.Transaction) signTxArgs {
	args := signTxArgs{
		From:  from,
		To:    tx.To(),
		Gas:   hexutil.Uint64(tx.Gas()),
		Value: (*hexutil.Big)(tx.Value()),
		Nonce: hexutil.Uint64(tx.Nonce()),
		Input: tx.Data(),
	}
	if tx.Type() == types.LegacyTxType {
		args.GasPrice = (*hexutil.Big)(tx.GasPrice())
	} else {
		args.MaxFeePerGas = (*hexutil.Big)(tx.GasFeeCap())
		args.MaxPriorityFeePerGas = (*hexutil.Big)(tx.GasTipCap())
		if id := tx.ChainId(); id != nil && id.Sign() > 0 {
			args.ChainID = (*hexutil.Big)(id)
		}
	}
	return args
}

type signerFn = func(common.Address, *types.Transaction) (*types.Transaction, error)

func (n *NodeAccounts) signer(ctx context.Context) signerFn {
	return func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		var res struct {
			Raw hexutil.Bytes `json:"raw"`
		}
		if err := n.rpc.CallContext(ctx, &res, "eth_signTransaction", newSignTxArgs(from, tx)); err != nil {
			return nil, fmt.Errorf("eth_signTransaction: %w", err)
		}
		signed := new(types.Transaction)
		if err := signed.UnmarshalBinary(res.Raw); err != nil {
			return nil, fmt.Errorf("decode signed transaction: %w", err)
		}
		return signed, nil
	}
}
