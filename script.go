package uintstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Report is the outcome of one Script run.
type Report struct {
	Address common.Address
	Signer  common.Address
	Before  *big.Int
	After   *big.Int
	Receipt *types.Receipt
}

// Reporter receives the final Report of a run.
type Reporter interface {
	Report(r *Report) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(r *Report) error

// Report implements Reporter.
func (f ReporterFunc) Report(r *Report) error {
	return f(r)
}

// Script reads the stored value, writes a new one from the first available
// account, and reads it back.
type Script struct {
	contract *Contract
	accounts AccountSource
	value    *big.Int
	logger   *zap.Logger
	reporter Reporter
}

// NewScript creates a Script that stores value in contract.
func NewScript(contract *Contract, accounts AccountSource, value *big.Int, opts ...ScriptOption) *Script {
	s := &Script{
		contract: contract,
		accounts: accounts,
		value:    value,
		logger:   zap.NewNop(),
		reporter: ReporterFunc(func(*Report) error { return nil }),
	}
	if value != nil {
		s.value = new(big.Int).Set(value)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the sequence and stops at the first error. The second read
// only happens after the setter's receipt has been observed.
func (s *Script) Run(ctx context.Context) (*Report, error) {
	log := s.logger.With(zap.String("contract", s.contract.Address().Hex()))

	before, err := s.contract.ReadValue(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("read value", zap.String("value", before.String()))

	accounts, err := ListAccounts(ctx, s.accounts)
	if err != nil {
		return nil, err
	}
	signer := accounts[0]
	log.Debug("listed accounts", zap.Int("count", len(accounts)), zap.String("signer", signer.Address.Hex()))

	log.Info("sending transaction", zap.Stringer("value", s.value), zap.String("from", signer.Address.Hex()))
	receipt, err := s.contract.SetValue(ctx, s.value, signer)
	if err != nil {
		return nil, err
	}
	log.Info("transaction mined",
		zap.String("tx", receipt.TxHash.Hex()),
		zap.Uint64("status", receipt.Status),
		zap.Uint64("gas_used", receipt.GasUsed),
		zap.Stringer("block", receipt.BlockNumber))

	after, err := s.contract.ReadValue(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("read value", zap.String("value", after.String()))

	report := &Report{
		Address: s.contract.Address(),
		Signer:  signer.Address,
		Before:  before,
		After:   after,
		Receipt: receipt,
	}
	if err := s.reporter.Report(report); err != nil {
		return report, fmt.Errorf("uintstore: report: %w", err)
	}
	return report, nil
}

// TextReporter writes the before value, after value and the receipt JSON,
// one per line.
type TextReporter struct {
	W io.Writer
}

// Report implements Reporter.
func (t TextReporter) Report(r *Report) error {
	receipt, err := json.MarshalIndent(r.Receipt, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(t.W, "%s\n%s\n%s\n", r.Before, r.After, receipt)
	return err
}

// JSONReporter writes the whole report as a single JSON document.
type JSONReporter struct {
	W io.Writer
}

type jsonReport struct {
	Address common.Address `json:"address"`
	Signer  common.Address `json:"signer"`
	Before  string         `json:"before"`
	After   string         `json:"after"`
	Receipt *types.Receipt `json:"receipt"`
}

// Report implements Reporter.
func (j JSONReporter) Report(r *Report) error {
	enc := json.NewEncoder(j.W)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Address: r.Address,
		Signer:  r.Signer,
		Before:  r.Before.String(),
		After:   r.After.String(),
		Receipt: r.Receipt,
	})
}
