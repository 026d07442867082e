package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"kiln/internal/mir"
)

var validateCmd = &cobra.Command{
	Use:   "validate <module.kmod>",
	Short: "Check a compiled module's structural invariants",
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

		report, _ := mir.Validate(m, typesIn)
		if report.OK() {
			okColor := color.New(color.FgGreen, color.Bold)
			fmt.Fprintf(cmd.OutOrStdout(), "%s module %q: %d function(s), %d global(s), %d type def(s)\n",
				okColor.Sprint("ok"), m.Name, m.FuncCount(), m.GlobalCount(), m.TypeDefCount())
			return nil
		}

		badColor := color.New(color.FgRed, color.Bold)
		for _, v := range report.Violations {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", badColor.Sprint("violation:"), v)
		}
		return fmt.Errorf("module %q: %d violation(s)", m.Name, len(report.Violations))
	},
}
