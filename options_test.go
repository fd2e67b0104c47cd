package uintstore

import (
	"testing"

	"go.uber.org/zap"
)

func TestContractDefaults(t *testing.T) {
	c, err := NewContract(testAddr, MustParseABI(StorageABI), nil)
	if err != nil {
		t.Fatalf("NewContract failed: %v", err)
	}

	t.Run("getter is myUint by default", func(t *testing.T) {
		if c.getter != DefaultGetter {
			t.Errorf("Expected getter %q, got %q", DefaultGetter, c.getter)
		}
	})

	t.Run("setter is setMyUint by default", func(t *testing.T) {
		if c.setter != DefaultSetter {
			t.Errorf("Expected setter %q, got %q", DefaultSetter, c.setter)
		}
	})

	t.Run("reads latest state by default", func(t *testing.T) {
		if c.pending {
			t.Error("Expected pending to be false by default")
		}
	})

	t.Run("gas is estimated by default", func(t *testing.T) {
		if c.gasLimit != 0 {
			t.Errorf("Expected gasLimit to be 0, got %d", c.gasLimit)
		}
	})
}

func TestContractOptions(t *testing.T) {
	c := &Contract{}
	for _, opt := range []ContractOption{
		WithGetter("value"),
		WithSetter("store"),
		WithPending(),
		WithGasLimit(50_000),
	} {
		opt(c)
	}

	if c.getter != "value" {
		t.Errorf("Expected getter value, got %q", c.getter)
	}
	if c.setter != "store" {
		t.Errorf("Expected setter store, got %q", c.setter)
	}
	if !c.pending {
		t.Error("Expected pending to be true")
	}
	if c.gasLimit != 50_000 {
		t.Errorf("Expected gasLimit 50000, got %d", c.gasLimit)
	}
}

func TestScriptOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s := NewScript(nil, nil, nil)
		if s.logger == nil {
			t.Error("Expected a no-op logger by default")
		}
		if s.reporter == nil {
			t.Error("Expected a discarding reporter by default")
		}
		if err := s.reporter.Report(&Report{}); err != nil {
			t.Errorf("Default reporter returned %v", err)
		}
	})

	t.Run("nil options keep defaults", func(t *testing.T) {
		s := NewScript(nil, nil, nil, WithLogger(nil), WithReporter(nil))
		if s.logger == nil || s.reporter == nil {
			t.Error("nil options should not clear defaults")
		}
	})

	t.Run("custom logger", func(t *testing.T) {
		logger := zap.NewExample()
		s := NewScript(nil, nil, nil, WithLogger(logger))
		if s.logger != logger {
			t.Error("Expected custom logger")
		}
	})
}
