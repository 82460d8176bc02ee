package indent

import (
	"errors"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{name: "empty open", mutate: func(c *Config) { c.Pairs = []Pair{{Close: "}"}} }, is: ErrEmptyToken},
		{name: "bad unit", mutate: func(c *Config) { c.Unit = "--" }, is: ErrBadUnit},
		{name: "same token", mutate: func(c *Config) { c.Pairs = []Pair{{Open: "|", Close: "|"}} }},
		{name: "duplicate token", mutate: func(c *Config) { c.Pairs = append(c.Pairs, Pair{Open: "{", Close: ")"}) }},
		{name: "half block comment", mutate: func(c *Config) { c.BlockClose = "" }},
		{name: "same block markers", mutate: func(c *Config) { c.BlockOpen, c.BlockClose = "%%", "%%" }},
		{name: "whitespace ignore", mutate: func(c *Config) { c.Ignore = "; " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{
		BlockOpen: "/*",
		Pairs:     []Pair{{Open: "(", Close: ""}, {Open: "<", Close: ">"}},
	}.withDefaults()
	if cfg.Unit != DefaultUnit {
		t.Fatalf("expected default unit, got %q", cfg.Unit)
	}
	if len(cfg.Pairs) != 1 || cfg.Pairs[0].Open != "<" {
		t.Fatalf("empty tokens should be dropped, got %+v", cfg.Pairs)
	}
	if cfg.BlockOpen != "" {
		t.Fatal("a block comment without a close marker should be disabled")
	}

	// Format stays total even with a configuration Validate rejects.
	bad := Config{Pairs: []Pair{{}}}
	if got := Format("{\nx\n}", bad); got != "{\nx\n}" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestUnitOf(t *testing.T) {
	if UnitOf(2, false) != "  " {
		t.Fatal("expected two spaces")
	}
	if UnitOf(8, true) != "\t" {
		t.Fatal("tabs win over width")
	}
	if UnitOf(0, false) != DefaultUnit {
		t.Fatal("zero width falls back to the default unit")
	}
}
