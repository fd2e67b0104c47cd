// Command uintstore reads and writes the value held by a deployed storage contract.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
