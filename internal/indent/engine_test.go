package indent

import (
	"strings"
	"testing"
)

func TestSamples(t *testing.T) {
	cfg := DefaultConfig()
	for _, s := range Samples() {
		t.Run(s.Name, func(t *testing.T) {
			got := Format(s.Input, cfg)
			if got != s.Want {
				t.Fatalf("unexpected output:\n%s", strings.Join(LineDiff(s.Want, got), "\n"))
			}
		})
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format("", DefaultConfig()); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := Format(" \n\t\r\n ", DefaultConfig()); got != "" {
		t.Fatalf("expected whitespace-only input to format to empty, got %q", got)
	}
}

func TestFormatCases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "nested brackets",
			in:   "a = [\n{\nb: 1\n},\n2\n]",
			want: "a = [\n    {\n        b: 1\n    },\n    2\n]",
		},
		{
			name: "excess closers floor at zero",
			in:   "}\n}\n]\nx\n{\ny\n}",
			want: "}\n}\n]\nx\n{\n    y\n}",
		},
		{
			name: "double opener adds two levels",
			in:   "{{\nx\n}\n}",
			want: "{{\n        x\n    }\n}",
		},
		{
			name: "only the first leading closer dedents",
			in:   "{\n{\nx\n}}\ny",
			want: "{\n    {\n        x\n    }}\n    y",
		},
		{
			name: "else on closing line",
			in:   "if (a) {\nb()\n} else {\nc()\n}",
			want: "if (a) {\n    b()\n} else {\n    c()\n}",
		},
		{
			name: "closer inside the line dedents following lines",
			in:   "f({\na: 1\n}); g({\nb: 2\nx); }\nz",
			want: "f({\n    a: 1\n}); g({\n    b: 2\n    x); }\nz",
		},
		{
			name: "tokens in line comments are ignored",
			in:   "x // {\ny\n// }\nz",
			want: "x // {\ny\n// }\nz",
		},
		{
			name: "tokens after block comment open are ignored",
			in:   "a /* { */\nb",
			want: "a /* { */\nb",
		},
		{
			name: "interior spacing is preserved",
			in:   "  x  =   {\n\t y   :  1\n}",
			want: "x  =   {\n    y   :  1\n}",
		},
		{
			name: "trailing whitespace removed",
			in:   "a  \t\n{ \t\nb\t\n}  ",
			want: "a\n{\n    b\n}",
		},
		{
			name: "blank lines inside a block stay empty",
			in:   "{\na\n\nb\n}",
			want: "{\n    a\n\n    b\n}",
		},
		{
			name: "bare carriage returns",
			in:   "{\ra\r}",
			want: "{\n    a\n}",
		},
		{
			name: "ignore markers are removed before comment detection",
			in:   "{\nx /;/ }\ny\n}",
			want: "{\n    x /;/ }\n    y\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.in, DefaultConfig())
			if got != tt.want {
				t.Fatalf("Format(%q):\n%s", tt.in, strings.Join(LineDiff(tt.want, got), "\n"))
			}
		})
	}
}

func TestBlockCommentContinuation(t *testing.T) {
	in := "class A {\n/**\n* doc {\n* more }\n*/\nm()\n}"
	want := "class A {\n    /**\n     * doc {\n     * more }\n     */\n    m()\n}"
	got := Format(in, DefaultConfig())
	if got != want {
		t.Fatalf("unexpected output:\n%s", strings.Join(LineDiff(want, got), "\n"))
	}

	for _, info := range Analyze(in, DefaultConfig()) {
		if !info.Continuation {
			continue
		}
		lead := len(info.Text) - len(strings.TrimLeft(info.Text, " "))
		if lead != info.Depth*len(DefaultUnit)+1 {
			t.Fatalf("line %d: continuation indented by %d, want %d", info.Number, lead, info.Depth*len(DefaultUnit)+1)
		}
	}
}

func TestCommentStateTransitions(t *testing.T) {
	cfg := DefaultConfig().withDefaults()
	tests := []struct {
		raw  string
		in   bool
		want bool
	}{
		{raw: "code", in: false, want: false},
		{raw: "/* open", in: false, want: true},
		{raw: "/* closed */", in: false, want: false},
		{raw: "still inside", in: true, want: true},
		{raw: "done */", in: true, want: false},
		{raw: "done */ /* again", in: true, want: false},
		{raw: "/**/ x /**/", in: false, want: false},
		{raw: "*/ before any open", in: false, want: false},
		{raw: "/*/", in: false, want: true},
	}
	for _, tt := range tests {
		if got := cfg.commentAfter(tt.raw, tt.in); got != tt.want {
			t.Fatalf("commentAfter(%q, %v) = %v, want %v", tt.raw, tt.in, got, tt.want)
		}
	}
}

func TestActiveContent(t *testing.T) {
	cfg := DefaultConfig().withDefaults()
	tests := []struct {
		line string
		want string
	}{
		{line: "  x = 1;  ", want: "x = 1"},
		{line: "a { // b {", want: "a {"},
		{line: "a { /* b { */", want: "a {"},
		{line: "a /* x */ // y", want: "a"},
		{line: `s = "{[" + t {`, want: `s = "" + t {`},
		{line: `s = "a \" {" }`, want: `s = "" }`},
		{line: `s = "unterminated {`, want: `s = "unterminated {`},
		{line: `u = "http://x" {`, want: `u = "" {`},
		{line: "/;/ hidden", want: ""},
	}
	for _, tt := range tests {
		if got := cfg.activeContent(tt.line); got != tt.want {
			t.Fatalf("activeContent(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestQuotedTokensDoNotNest(t *testing.T) {
	in := "x = \"{\"\ny\nz = {\nw\n}"
	want := "x = \"{\"\ny\nz = {\n    w\n}"
	if got := Format(in, DefaultConfig()); got != want {
		t.Fatalf("unexpected output:\n%s", strings.Join(LineDiff(want, got), "\n"))
	}

	cfg := DefaultConfig()
	cfg.Quote = ""
	got := Format(in, cfg)
	if !strings.HasPrefix(strings.Split(got, "\n")[1], DefaultUnit) {
		t.Fatalf("with quote handling disabled the brace in the string should nest, got:\n%s", got)
	}
}

func TestBalancedDepthMatchesOpenCount(t *testing.T) {
	in := strings.Join([]string{
		"module {",
		"items = [",
		"one,",
		"{ two: [",
		"3",
		"]",
		"},",
		"]",
		"fn {",
		"body",
		"}",
		"}",
		"tail",
	}, "\n")

	infos := Analyze(in, DefaultConfig())
	open := 0
	for _, info := range infos {
		want := open
		if strings.HasPrefix(info.Active, "}") || strings.HasPrefix(info.Active, "]") {
			want--
		}
		if want < 0 {
			want = 0
		}
		if info.Depth != want {
			t.Fatalf("line %d %q: depth %d, want %d", info.Number, info.Text, info.Depth, want)
		}
		open += strings.Count(info.Active, "{") + strings.Count(info.Active, "[")
		open -= strings.Count(info.Active, "}") + strings.Count(info.Active, "]")
	}
	if open != 0 {
		t.Fatalf("fixture is unbalanced: %d", open)
	}
}

func TestAnalyzeNeverNegative(t *testing.T) {
	in := "]]]]\n}}}}\n{\n}}}}\n]\n/*\n}\n*/\n}"
	for _, info := range Analyze(in, DefaultConfig()) {
		if info.Depth < 0 {
			t.Fatalf("line %d has negative depth %d", info.Number, info.Depth)
		}
		if strings.HasPrefix(info.Text, " ") && !info.Continuation {
			t.Fatalf("line %d should be at depth 0, got %q", info.Number, info.Text)
		}
	}
}

func TestAnalyzeMatchesFormat(t *testing.T) {
	for _, s := range Samples() {
		infos := Analyze(s.Input, DefaultConfig())
		lines := make([]string, 0, len(infos))
		for _, info := range infos {
			lines = append(lines, info.Text)
		}
		if got := strings.TrimSpace(strings.Join(lines, "\n")); got != Format(s.Input, DefaultConfig()) {
			t.Fatalf("%s: Analyze text diverges from Format", s.Name)
		}
	}
}

func TestIdempotent(t *testing.T) {
	inputs := []string{
		"\n\n;\nx\n;\n;\n{\n\n;\n}",
		"{\n{\n}\n}\n[\n{\n}\n]",
		"/*\n *\n*/\n{\n/* {\n*/\n}",
	}
	for _, s := range Samples() {
		inputs = append(inputs, s.Input)
	}
	for _, in := range inputs {
		once := Format(in, DefaultConfig())
		twice := Format(once, DefaultConfig())
		if once != twice {
			t.Fatalf("Format is not idempotent for %q:\n%s", in, strings.Join(LineDiff(once, twice), "\n"))
		}
	}
}

func TestCustomConfig(t *testing.T) {
	cfg := Config{
		LineComment: "#",
		Unit:        "\t",
		Pairs:       []Pair{{Open: "(", Close: ")"}},
	}
	in := "(define x\n(list 1 2) # ( ignored\n)\n"
	want := "(define x\n\t(list 1 2) # ( ignored\n)"
	if got := Format(in, cfg); got != want {
		t.Fatalf("unexpected output:\n%s", strings.Join(LineDiff(want, got), "\n"))
	}
}

func TestFormatIsolatedBetweenCalls(t *testing.T) {
	first := Format("{\n/*\nx", DefaultConfig())
	if first != "{\n    /*\n    x" {
		t.Fatalf("unexpected first output %q", first)
	}
	if got := Format("y", DefaultConfig()); got != "y" {
		t.Fatalf("state leaked between calls: %q", got)
	}
}
