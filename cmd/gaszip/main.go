// Command gaszip decodes gas-delivery deposit calldata, either one payload at
// a time or by scanning a block range into CSV.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
