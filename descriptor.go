package uintstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Mutability classes used by the storage contract.
const (
	MutabilityView       = "view"
	MutabilityNonpayable = "nonpayable"
)

// Param describes a single input or output of an ABI entry.
type Param struct {
	InternalType string `json:"internalType,omitempty"`
	Name         string `json:"name"`
	Type         string `json:"type"`
}

// Entry describes one function in a contract ABI.
type Entry struct {
	Inputs          []Param `json:"inputs"`
	Name            string  `json:"name"`
	Outputs         []Param `json:"outputs"`
	StateMutability string  `json:"stateMutability"`
	Type            string  `json:"type"`
}

// Descriptor is an ordered contract ABI, as emitted by the Solidity compiler.
type Descriptor []Entry

// StorageDescriptor is the ABI of the storage contract.
var StorageDescriptor = Descriptor{
	{
		Inputs: []Param{},
		Name:   "myUint",
		Outputs: []Param{
			{InternalType: "uint256", Name: "", Type: "uint256"},
		},
		StateMutability: MutabilityView,
		Type:            "function",
	},
	{
		Inputs: []Param{
			{InternalType: "uint256", Name: "newUint", Type: "uint256"},
		},
		Name:            "setMyUint",
		Outputs:         []Param{},
		StateMutability: MutabilityNonpayable,
		Type:            "function",
	},
}

// StorageABI is StorageDescriptor in its JSON form.
const StorageABI = `[
	{
		"inputs": [],
		"name": "myUint",
		"outputs": [
			{"internalType": "uint256", "name": "", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "newUint", "type": "uint256"}
		],
		"name": "setMyUint",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// Lookup returns the entry with the given name.
func (d Descriptor) Lookup(name string) (Entry, bool) {
	for _, e := range d {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// JSON encodes the descriptor as a compiler-style ABI array.
func (d Descriptor) JSON() ([]byte, error) {
	return json.Marshal(d)
}

// Parse converts the descriptor into a go-ethereum ABI.
func (d Descriptor) Parse() (abi.ABI, error) {
	data, err := d.JSON()
	if err != nil {
		return abi.ABI{}, err
	}
	return abi.JSON(bytes.NewReader(data))
}

// ParseDescriptor decodes either a bare ABI array or a compiler artifact
// object carrying the array under an "abi" key (Hardhat, Truffle, Foundry).
func ParseDescriptor(data []byte) (Descriptor, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &ArtifactError{Err: errors.New("empty input")}
	}

	var d Descriptor
	if data[0] == '[' {
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, &ArtifactError{Err: err}
		}
		return d, nil
	}

	var artifact struct {
		ABI Descriptor `json:"abi"`
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, &ArtifactError{Err: err}
	}
	if artifact.ABI == nil {
		return nil, &ArtifactError{Err: errors.New(`missing "abi" field`)}
	}
	return artifact.ABI, nil
}

// LoadArtifact reads a descriptor from an ABI or artifact file on disk.
func LoadArtifact(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	d, err := ParseDescriptor(data)
	if err != nil {
		var ae *ArtifactError
		if errors.As(err, &ae) {
			ae.Path = path
		}
		return nil, err
	}
	return d, nil
}

// ParseABI parses a JSON ABI string into an abi.ABI.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return parsed
}
