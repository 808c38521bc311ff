package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (c *cli) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.cfg.YAML()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := "defaults"
			if _, statErr := os.Stat(c.cfgPath); statErr == nil {
				source = c.cfgPath
			}
			fmt.Fprintf(out, "# source: %s\n", source)
			_, err = out.Write(data)
			return err
		},
	}
}
