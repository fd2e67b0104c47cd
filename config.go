package uintstore

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Output formats for the final report.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds everything needed to connect to a node and bind the contract.
type Config struct {
	RPCURL       string
	Address      string
	ArtifactPath string // empty uses StorageDescriptor
	Value        string

	PrivateKeys []string
	KeystoreDir string
	Passphrase  string

	GasLimit uint64
	Pending  bool
	Timeout  time.Duration
	LogLevel string
	Output   string
}

// DefaultConfig returns a Config pointing at a local development node.
func DefaultConfig() Config {
	return Config{
		RPCURL:   "http://localhost:8545",
		Value:    "345",
		Timeout:  2 * time.Minute,
		LogLevel: "info",
		Output:   OutputText,
	}
}

// Validate checks the fields needed by every command.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("%w: rpc url is required", ErrInvalidConfig)
	}
	if !common.IsHexAddress(c.Address) {
		return fmt.Errorf("%w: contract address %q is not a hex address", ErrInvalidConfig, c.Address)
	}
	if len(c.PrivateKeys) > 0 && c.KeystoreDir != "" {
		return fmt.Errorf("%w: private keys and keystore are mutually exclusive", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidConfig)
	}
	switch c.Output {
	case "", OutputText, OutputJSON:
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output)
	}
	return nil
}

// NewValue parses the configured value to store.
func (c Config) NewValue() (*big.Int, error) {
	v, err := ParseValue(c.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: value: %w", ErrInvalidConfig, err)
	}
	return v, nil
}

// Descriptor returns the ABI descriptor selected by the config.
func (c Config) Descriptor() (Descriptor, error) {
	if c.ArtifactPath == "" {
		return StorageDescriptor, nil
	}
	return LoadArtifact(c.ArtifactPath)
}

// Session is a connected client with the contract bound and signers resolved.
type Session struct {
	Client   *ethclient.Client
	Contract *Contract
	Accounts AccountSource
}

// Open dials the node and binds the contract described by cfg.
// The caller must Close the session.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	desc, err := cfg.Descriptor()
	if err != nil {
		return nil, err
	}
	parsed, err := desc.Parse()
	if err != nil {
		return nil, &ArtifactError{Path: cfg.ArtifactPath, Err: err}
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("uintstore: dial %s: %w", cfg.RPCURL, err)
	}

	contract, err := newConfiguredContract(cfg, parsed, client)
	if err != nil {
		client.Close()
		return nil, err
	}

	accounts, err := cfg.accountSource(client)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Session{Client: client, Contract: contract, Accounts: accounts}, nil
}

// Close releases the underlying connection.
func (s *Session) Close() {
	s.Client.Close()
}

func newConfiguredContract(cfg Config, parsed abi.ABI, backend Backend) (*Contract, error) {
	var opts []ContractOption
	if cfg.GasLimit > 0 {
		opts = append(opts, WithGasLimit(cfg.GasLimit))
	}
	if cfg.Pending {
		opts = append(opts, WithPending())
	}
	return NewContract(common.HexToAddress(cfg.Address), parsed, backend, opts...)
}

func (c Config) accountSource(client *ethclient.Client) (AccountSource, error) {
	switch {
	case len(c.PrivateKeys) > 0:
		return NewKeyedAccountsFromHex(client, c.PrivateKeys...)
	case c.KeystoreDir != "":
		return NewKeystoreAccounts(client, OpenKeystore(c.KeystoreDir), c.Passphrase), nil
	default:
		return NewNodeAccounts(client.Client()), nil
	}
}
