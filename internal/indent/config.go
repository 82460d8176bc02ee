package indent

import (
	"errors"
	"fmt"
	"strings"
)

// Pair is an opening/closing structural token pair, e.g. "{" and "}".
type Pair struct {
	Open  string `msgpack:"open"`
	Close string `msgpack:"close"`
}

// Config describes the recognized markers and tokens. It is a plain value:
// callers build it once and pass it into every call, nothing is stored
// package-wide. Empty marker strings disable the corresponding feature.
type Config struct {
	LineComment   string // "//"
	BlockOpen     string // "/*"
	BlockClose    string // "*/"
	BlockContinue string // "*", continuation lines inside a block comment
	Unit          string // one level of indentation
	Pairs         []Pair // evaluated in order for the empty-pair collapse
	Ignore        string // removed before comment-marker scanning; lone lines are joined upward
	Quote         string // contents between two quotes are not scanned for tokens
}

// DefaultUnit is four spaces.
const DefaultUnit = "    "

// DefaultPairs returns a fresh copy of the default token pairs.
func DefaultPairs() []Pair {
	return []Pair{{Open: "{", Close: "}"}, {Open: "[", Close: "]"}}
}

// DefaultConfig returns the C-family configuration.
func DefaultConfig() Config {
	return Config{
		LineComment:   "//",
		BlockOpen:     "/*",
		BlockClose:    "*/",
		BlockContinue: "*",
		Unit:          DefaultUnit,
		Pairs:         DefaultPairs(),
		Ignore:        ";",
		Quote:         `"`,
	}
}

// UnitOf builds an indent unit of width spaces, or a single tab.
func UnitOf(width int, tabs bool) string {
	if tabs {
		return "\t"
	}
	if width <= 0 {
		return DefaultUnit
	}
	return strings.Repeat(" ", width)
}

func (c Config) withDefaults() Config {
	if c.Unit == "" {
		c.Unit = DefaultUnit
	}
	if c.Pairs == nil {
		c.Pairs = DefaultPairs()
	}
	// Empty tokens would match everywhere; drop them instead of failing.
	pairs := make([]Pair, 0, len(c.Pairs))
	for _, p := range c.Pairs {
		if p.Open == "" || p.Close == "" {
			continue
		}
		pairs = append(pairs, p)
	}
	c.Pairs = pairs
	if c.BlockOpen == "" || c.BlockClose == "" {
		c.BlockOpen, c.BlockClose, c.BlockContinue = "", "", ""
	}
	return c
}

var (
	// ErrEmptyToken reports a pair with an empty opening or closing token.
	ErrEmptyToken = errors.New("indent: empty structural token")
	// ErrBadUnit reports an indent unit containing non-whitespace.
	ErrBadUnit = errors.New("indent: indent unit must be spaces or tabs")
)

// Validate reports configuration mistakes. Format itself never fails; it
// silently drops what Validate would reject.
func (c Config) Validate() error {
	if strings.Trim(c.Unit, " \t") != "" {
		return fmt.Errorf("%w: %q", ErrBadUnit, c.Unit)
	}
	seen := make(map[string]struct{}, len(c.Pairs)*2)
	for i, p := range c.Pairs {
		if p.Open == "" || p.Close == "" {
			return fmt.Errorf("%w: pair %d", ErrEmptyToken, i)
		}
		if p.Open == p.Close {
			return fmt.Errorf("indent: pair %d uses %q for both sides", i, p.Open)
		}
		for _, tok := range []string{p.Open, p.Close} {
			if _, dup := seen[tok]; dup {
				return fmt.Errorf("indent: token %q registered twice", tok)
			}
			seen[tok] = struct{}{}
		}
	}
	if (c.BlockOpen == "") != (c.BlockClose == "") {
		return errors.New("indent: block comment needs both open and close markers")
	}
	if c.BlockOpen != "" && c.BlockOpen == c.BlockClose {
		return fmt.Errorf("indent: block comment markers must differ, got %q", c.BlockOpen)
	}
	if strings.ContainsAny(c.Ignore, " \t\r\n") {
		return fmt.Errorf("indent: ignore marker %q contains whitespace", c.Ignore)
	}
	return nil
}
