package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"bracefmt/internal/config"
	"bracefmt/internal/driver"
	"bracefmt/internal/indent"
	"bracefmt/internal/source"
)

// runExplain prints how every line of each file gets its indentation.
// Files that fail to load are reported on errOut and skipped.
func runExplain(out, errOut io.Writer, paths []string, settings config.Settings) error {
	printed, failed := 0, false
	for _, path := range paths {
		file, err := source.Load(path)
		if err != nil {
			reportFileError(errOut, driver.FormatResult{Path: path, Err: err})
			failed = true
			continue
		}
		if printed > 0 {
			fmt.Fprintln(out)
		}
		printed++
		fmt.Fprintf(out, "%s (%s)\n", color.New(color.Bold).Sprint(file.Path), file.Flags)
		writeExplain(out, indent.Analyze(file.Text, settings.Format))
	}
	if failed {
		return errReported
	}
	return nil
}

// writeExplain renders one row per line: number, depth, flags, output text.
// Flags: c = inside block comment, < = leading closer, + = continuation space.
func writeExplain(out io.Writer, infos []indent.LineInfo) {
	dim := color.New(color.Faint)
	for _, info := range infos {
		flags := []byte("   ")
		if info.InComment {
			flags[0] = 'c'
		}
		if info.Dedent {
			flags[1] = '<'
		}
		if info.Continuation {
			flags[2] = '+'
		}
		text := strings.TrimRight(info.Text, " \t")
		fmt.Fprintf(out, "%4d %3d %s %s %s\n", info.Number, info.Depth, flags, dim.Sprint("|"), text)
	}
}
