package testkit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"bracefmt/internal/indent"
)

// CheckFormatInvariants runs the properties every formatted output must hold:
// 1) formatting the output again changes nothing
// 2) no carriage returns and no trailing whitespace remain
// 3) non-whitespace content is unchanged, in order (valid UTF-8 input only)
// 4) no line is printed at a negative depth
func CheckFormatInvariants(input string, cfg indent.Config) error {
	once := indent.Format(input, cfg)
	if twice := indent.Format(once, cfg); twice != once {
		return fmt.Errorf("not idempotent:\n%s", strings.Join(indent.LineDiff(once, twice), "\n"))
	}

	if strings.Contains(once, "\r") {
		return fmt.Errorf("output still contains carriage returns")
	}
	for i, line := range strings.Split(once, "\n") {
		if strings.TrimRight(line, " \t") != line {
			return fmt.Errorf("line %d keeps trailing whitespace: %q", i+1, line)
		}
	}

	if utf8.ValidString(input) && squash(input) != squash(once) {
		return fmt.Errorf("formatting changed non-whitespace content")
	}

	for _, info := range indent.Analyze(input, cfg) {
		if info.Depth < 0 {
			return fmt.Errorf("line %d: negative depth %d", info.Number, info.Depth)
		}
	}
	return nil
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}
