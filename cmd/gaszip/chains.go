package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vitwit/gaszip/registry"
)

func newChainsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "chains",
		Short: "List the protocol chain registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry(file)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tNATIVE ID")
			for _, c := range reg.Chains() {
				native := "-"
				if c.HasNativeID() {
					native = fmt.Sprint(c.NativeID)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, native)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "registry", "", "YAML chain table to use instead of the embedded one")
	return cmd
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default(), nil
	}

	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reg, err := registry.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}
