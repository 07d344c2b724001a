package main

import (
	"github.com/spf13/cobra"

	"github.com/vitwit/gaszip"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gaszip",
		Short:         "Decode gas-delivery deposit calldata",
		Version:       gaszip.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newDecodeCmd(),
		newScanCmd(),
		newChainsCmd(),
	)
	return root
}
