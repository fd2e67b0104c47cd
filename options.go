package uintstore

import "go.uber.org/zap"

// Default method names of the storage contract.
const (
	DefaultGetter = "myUint"
	DefaultSetter = "setMyUint"
)

// ContractOption configures a Contract.
type ContractOption func(*Contract)

// WithGetter sets the name of the view function that returns the stored value.
// Default is "myUint".
func WithGetter(name string) ContractOption {
	return func(c *Contract) {
		c.getter = name
	}
}

// WithSetter sets the name of the function that stores a new value.
// Default is "setMyUint".
func WithSetter(name string) ContractOption {
	return func(c *Contract) {
		c.setter = name
	}
}

// WithPending makes reads observe the pending state instead of the latest block.
func WithPending() ContractOption {
	return func(c *Contract) {
		c.pending = true
	}
}

// WithGasLimit fixes the gas limit of setter transactions.
// Zero (default) lets the client estimate it.
func WithGasLimit(limit uint64) ContractOption {
	return func(c *Contract) {
		c.gasLimit = limit
	}
}

// ScriptOption configures a Script.
type ScriptOption func(*Script)

// WithLogger sets the logger used to trace each step. Default is a no-op logger.
func WithLogger(logger *zap.Logger) ScriptOption {
	return func(s *Script) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReporter sets where the final report is emitted. Default discards it.
func WithReporter(r Reporter) ScriptOption {
	return func(s *Script) {
		if r != nil {
			s.reporter = r
		}
	}
}
