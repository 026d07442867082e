package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kiln/internal/mir"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <module.kmod>",
	Short: "Print a compiled module in readable form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		m, typesIn, err := mir.Decode(data)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), mir.Print(m, typesIn))
		return nil
	},
}
