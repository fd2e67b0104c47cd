package uintstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Address = testAddr.Hex()
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.RPCURL != "http://localhost:8545" {
		t.Errorf("Unexpected RPC URL %q", cfg.RPCURL)
	}
	if cfg.Value != "345" {
		t.Errorf("Expected default value 345, got %q", cfg.Value)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Unexpected timeout %v", cfg.Timeout)
	}
	if cfg.Output != OutputText {
		t.Errorf("Expected text output, got %q", cfg.Output)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"json output", func(c *Config) { c.Output = OutputJSON }, true},
		{"missing rpc url", func(c *Config) { c.RPCURL = "" }, false},
		{"missing address", func(c *Config) { c.Address = "" }, false},
		{"placeholder address", func(c *Config) { c.Address = "ENTER_ADDRESS_HERE" }, false},
		{"short address", func(c *Config) { c.Address = "0x1234" }, false},
		{"keys and keystore", func(c *Config) {
			c.PrivateKeys = []string{"00"}
			c.KeystoreDir = "/tmp/ks"
		}, false},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, false},
		{"unknown output", func(c *Config) { c.Output = "yaml" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfigNewValue(t *testing.T) {
	cfg := validConfig()
	v, err := cfg.NewValue()
	if err != nil {
		t.Fatalf("NewValue failed: %v", err)
	}
	if v.Int64() != 345 {
		t.Errorf("Expected 345, got %s", v)
	}

	cfg.Value = "-3"
	_, err = cfg.NewValue()
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, ErrNegativeValue) {
		t.Errorf("Expected ErrInvalidConfig wrapping ErrNegativeValue, got %v", err)
	}
}

func TestConfigDescriptor(t *testing.T) {
	cfg := validConfig()
	d, err := cfg.Descriptor()
	if err != nil {
		t.Fatalf("Descriptor failed: %v", err)
	}
	if len(d) != len(StorageDescriptor) {
		t.Errorf("Expected built-in descriptor, got %d entries", len(d))
	}

	path := filepath.Join(t.TempDir(), "abi.json")
	if err := os.WriteFile(path, []byte(StorageABI), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.ArtifactPath = path
	d, err = cfg.Descriptor()
	if err != nil {
		t.Fatalf("Descriptor failed: %v", err)
	}
	if _, ok := d.Lookup("setMyUint"); !ok {
		t.Error("Expected setMyUint in loaded descriptor")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Address = "nope"
		if _, err := Open(ctx, cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("missing artifact", func(t *testing.T) {
		cfg := validConfig()
		cfg.ArtifactPath = filepath.Join(t.TempDir(), "missing.json")
		var ae *ArtifactError
		if _, err := Open(ctx, cfg); !errors.As(err, &ae) {
			t.Fatalf("Expected ArtifactError, got %v", err)
		}
	})

	t.Run("artifact without the storage methods", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "other.json")
		if err := os.WriteFile(path, []byte(altABIJSON), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg := validConfig()
		cfg.RPCURL = "http://127.0.0.1:1"
		cfg.ArtifactPath = path
		var mnf *MethodNotFoundError
		if _, err := Open(ctx, cfg); !errors.As(err, &mnf) {
			t.Fatalf("Expected MethodNotFoundError, got %v", err)
		}
	})

	t.Run("selects account source", func(t *testing.T) {
		cfg := validConfig()
		cfg.RPCURL = "http://127.0.0.1:1"

		s, err := Open(ctx, cfg)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer s.Close()
		if _, ok := s.Accounts.(*NodeAccounts); !ok {
			t.Errorf("Expected NodeAccounts, got %T", s.Accounts)
		}
		if s.Contract.Address() != testAddr {
			t.Errorf("Unexpected contract address %s", s.Contract.Address().Hex())
		}

		cfg.PrivateKeys = []string{strings.Repeat("11", 32)}
		ks, err := Open(ctx, cfg)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer ks.Close()
		if _, ok := ks.Accounts.(*KeyedAccounts); !ok {
			t.Errorf("Expected KeyedAccounts, got %T", ks.Accounts)
		}

		cfg.PrivateKeys = nil
		cfg.KeystoreDir = t.TempDir()
		kd, err := Open(ctx, cfg)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer kd.Close()
		if _, ok := kd.Accounts.(*KeystoreAccounts); !ok {
			t.Errorf("Expected KeystoreAccounts, got %T", kd.Accounts)
		}
	})

	t.Run("bad private key", func(t *testing.T) {
		cfg := validConfig()
		cfg.RPCURL = "http://127.0.0.1:1"
		cfg.PrivateKeys = []string{"xyz"}
		if _, err := Open(ctx, cfg); err == nil {
			t.Fatal("Expected error for bad private key")
		}
	})

	t.Run("unreachable node fails on first call", func(t *testing.T) {
		cfg := validConfig()
		cfg.RPCURL = "http://127.0.0.1:1"
		s, err := Open(ctx, cfg)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer s.Close()

		tctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if _, err := s.Contract.ReadValue(tctx); err == nil {
			t.Error("Expected ReadValue to fail against an unreachable node")
		}
		if _, err := ListAccounts(tctx, s.Accounts); err == nil {
			t.Error("Expected ListAccounts to fail against an unreachable node")
		}
	})
}
