package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vitwit/gaszip"
	"github.com/vitwit/gaszip/types"
	"github.com/vitwit/gaszip/utils"
)

func newDecodeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "decode <calldata>",
		Short:   "Decode one hex calldata payload",
		Example: "  gaszip decode 0x0211111111111111111111111111111111111111110036",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := args[0]
			if utils.IsEmptyCalldata(raw) {
				return types.ErrEmptyCalldata
			}

			reg, err := loadRegistry(file)
			if err != nil {
				return err
			}

			payload, err := gaszip.New(gaszip.WithRegistry(reg)).Decode(raw)
			if err != nil {
				return err
			}

			out, err := utils.NormalizeJSON(payload)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVar(&file, "registry", "", "YAML chain table to use instead of the embedded one")
	return cmd
}
