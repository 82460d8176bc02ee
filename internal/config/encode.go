package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Encode renders s as a complete config file. Loading the output yields the
// same settings.
func Encode(s Settings) ([]byte, error) {
	f := s.Format
	format := encodedFormat{
		LineComment:   f.LineComment,
		BlockComment:  []string{},
		BlockContinue: f.BlockContinue,
		Ignore:        f.Ignore,
		Quote:         f.Quote,
		FinalNewline:  s.FinalNewline,
		Pairs:         make([][]string, 0, len(f.Pairs)),
	}
	switch {
	case f.Unit == "\t":
		format.UseTabs = true
	case f.Unit != "" && strings.Trim(f.Unit, " ") == "":
		format.IndentWidth = len(f.Unit)
	default:
		format.Indent = f.Unit
	}
	if f.BlockOpen != "" {
		format.BlockComment = []string{f.BlockOpen, f.BlockClose}
	}
	for _, p := range f.Pairs {
		format.Pairs = append(format.Pairs, []string{p.Open, p.Close})
	}

	out := encodedConfig{
		Format: format,
		Files: filesSection{
			Extensions: nonNil(s.Extensions),
			Exclude:    nonNil(s.Exclude),
		},
		Run: runSection{Jobs: s.Jobs, Cache: s.Cache},
	}

	var buf bytes.Buffer
	if s.Path != "" {
		fmt.Fprintf(&buf, "# effective configuration, loaded from %s\n\n", s.Path)
	} else {
		buf.WriteString("# effective configuration (built-in defaults)\n\n")
	}
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// encodedConfig mirrors fileConfig but writes exactly one of indent_width,
// use_tabs and indent.
type encodedConfig struct {
	Format encodedFormat `toml:"format"`
	Files  filesSection  `toml:"files"`
	Run    runSection    `toml:"run"`
}

type encodedFormat struct {
	IndentWidth   int        `toml:"indent_width,omitempty"`
	Indent        string     `toml:"indent,omitempty"`
	UseTabs       bool       `toml:"use_tabs,omitempty"`
	LineComment   string     `toml:"line_comment"`
	BlockComment  []string   `toml:"block_comment"`
	BlockContinue string     `toml:"block_continue"`
	Ignore        string     `toml:"ignore"`
	Quote         string     `toml:"quote"`
	FinalNewline  bool       `toml:"final_newline"`
	Pairs         [][]string `toml:"pairs"`
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
