// Package uintstore reads and writes the single uint256 value held by a
// deployed storage contract over an Ethereum JSON-RPC endpoint.
//
// The storage contract exposes two functions:
//   - myUint() view returns (uint256)
//   - setMyUint(uint256 newUint) nonpayable
//
// # Basic Usage
//
// Dial a node, bind the contract and run the read/write/read sequence:
//
//	client, err := ethclient.Dial("http://localhost:8545")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	contract, err := uintstore.NewContract(addr, uintstore.MustParseABI(uintstore.StorageABI), client)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	script := uintstore.NewScript(contract, uintstore.NewNodeAccounts(client.Client()), big.NewInt(345))
//	report, err := script.Run(ctx)
//
// # ABI Descriptors
//
// The contract interface is described by a typed Descriptor literal
// (StorageDescriptor) that mirrors the JSON array emitted by the Solidity
// compiler. Descriptors can also be loaded from compiler artifacts with
// LoadArtifact.
//
// # Accounts
//
// Signers come from an AccountSource:
//
//   - KeyedAccounts: raw secp256k1 private keys held in memory
//   - KeystoreAccounts: an encrypted JSON keystore directory
//   - NodeAccounts: accounts unlocked on the node, signed with eth_signTransaction
//
// The script always signs with the first account returned.
package uintstore
