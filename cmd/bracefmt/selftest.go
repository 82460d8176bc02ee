package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bracefmt/internal/indent"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the built-in formatting samples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return err
		}
		if !runSelftest(cmd.OutOrStdout(), indent.Samples(), quiet) {
			return errReported
		}
		return nil
	},
}

// runSelftest formats every sample with the default configuration and checks
// both the expected output and that formatting it again changes nothing.
func runSelftest(out io.Writer, samples []indent.Sample, quiet bool) bool {
	cfg := indent.DefaultConfig()
	failed := 0
	for _, s := range samples {
		got := indent.Format(s.Input, cfg)
		diff := indent.LineDiff(s.Want, got)
		if len(diff) == 0 {
			if again := indent.Format(got, cfg); again != got {
				diff = append([]string{"not idempotent:"}, indent.LineDiff(got, again)...)
			}
		}
		if len(diff) == 0 {
			if !quiet {
				fmt.Fprintf(out, "%s %s\n", color.GreenString("ok  "), s.Name)
			}
			continue
		}
		failed++
		fmt.Fprintf(out, "%s %s\n", color.RedString("FAIL"), s.Name)
		for _, line := range diff {
			fmt.Fprintf(out, "     %s\n", line)
		}
	}
	if !quiet || failed > 0 {
		fmt.Fprintf(out, "%d/%d samples passed\n", len(samples)-failed, len(samples))
	}
	return failed == 0
}
