// Package integration runs the storage script against a local Anvil node.
package integration

import (
	"context"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/branched-services/go-uintstore"
	"github.com/branched-services/go-uintstore/internal/evmtest"
)

// Test private key (Anvil default account 0)
const testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func rpcURL() string {
	if url := os.Getenv("ANVIL_RPC_URL"); url != "" {
		return url
	}
	return "http://localhost:8545"
}

func TestStorageScript(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("Set INTEGRATION_TEST=1 to run integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := ethclient.Dial(rpcURL())
	if err != nil {
		t.Fatalf("Failed to connect to Anvil: %v", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		t.Fatalf("Failed to get chain ID: %v", err)
	}
	t.Logf("Connected to chain ID: %d", chainID)

	privateKey, err := crypto.HexToECDSA(testPrivateKey)
	if err != nil {
		t.Fatalf("Failed to parse private key: %v", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		t.Fatalf("Failed to create transactor: %v", err)
	}
	auth.Context = ctx

	// Deploy the storage contract
	parsed, err := uintstore.StorageDescriptor.Parse()
	if err != nil {
		t.Fatalf("Failed to parse ABI: %v", err)
	}
	runtime := evmtest.StorageRuntime(parsed.Methods["myUint"].ID, parsed.Methods["setMyUint"].ID)
	addr, tx, _, err := bind.DeployContract(auth, parsed, evmtest.InitCode(runtime), client)
	if err != nil {
		t.Fatalf("Failed to deploy: %v", err)
	}
	if _, err := bind.WaitMined(ctx, client, tx); err != nil {
		t.Fatalf("Failed to mine deployment: %v", err)
	}
	t.Logf("Storage deployed at: %s", addr.Hex())

	contract, err := uintstore.NewContract(addr, parsed, client)
	if err != nil {
		t.Fatalf("Failed to bind contract: %v", err)
	}

	t.Run("keyed account", func(t *testing.T) {
		accounts := uintstore.NewKeyedAccounts(client, privateKey)
		report, err := uintstore.NewScript(contract, accounts, big.NewInt(345)).Run(ctx)
		if err != nil {
			t.Fatalf("Script failed: %v", err)
		}
		if report.Before.Sign() != 0 {
			t.Errorf("Expected fresh contract to hold 0, got %s", report.Before)
		}
		if report.After.Cmp(big.NewInt(345)) != 0 {
			t.Errorf("Expected 345, got %s", report.After)
		}
		if report.Receipt.Status != types.ReceiptStatusSuccessful {
			t.Fatalf("Transaction failed: status=%d", report.Receipt.Status)
		}
		t.Logf("Transaction successful! Gas used: %d", report.Receipt.GasUsed)
	})

	t.Run("node accounts", func(t *testing.T) {
		report, err := uintstore.NewScript(contract, uintstore.NewNodeAccounts(client.Client()), big.NewInt(678)).Run(ctx)
		if err != nil {
			t.Fatalf("Script failed: %v", err)
		}
		if report.Before.Cmp(big.NewInt(345)) != 0 {
			t.Errorf("Expected 345 from the previous run, got %s", report.Before)
		}
		if report.After.Cmp(big.NewInt(678)) != 0 {
			t.Errorf("Expected 678, got %s", report.After)
		}
	})
}
