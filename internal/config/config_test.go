package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"bracefmt/internal/indent"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	s, err := Parse("empty", "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !reflect.DeepEqual(s, Default()) {
		t.Fatalf("empty file changed settings:\n got %+v\nwant %+v", s, Default())
	}
}

func TestParseOverlaysOnlyDefinedKeys(t *testing.T) {
	s, err := Parse("partial", `
[format]
indent_width = 2
final_newline = false

[run]
jobs = 3
`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if s.Format.Unit != "  " {
		t.Fatalf("unit = %q, want two spaces", s.Format.Unit)
	}
	if s.FinalNewline {
		t.Fatal("final_newline = false should be honored")
	}
	if s.Jobs != 3 {
		t.Fatalf("jobs = %d, want 3", s.Jobs)
	}
	def := indent.DefaultConfig()
	if s.Format.LineComment != def.LineComment || s.Format.Ignore != def.Ignore || !reflect.DeepEqual(s.Format.Pairs, def.Pairs) {
		t.Fatalf("undefined keys must keep defaults: %+v", s.Format)
	}
	if !reflect.DeepEqual(s.Extensions, DefaultExtensions()) {
		t.Fatalf("extensions changed: %v", s.Extensions)
	}
}

func TestParseFormatKeys(t *testing.T) {
	s, err := Parse("full", `
[format]
use_tabs = true
line_comment = "#"
block_comment = []
ignore = ""
quote = "'"
pairs = [["(", ")"], ["{", "}"]]

[files]
extensions = ["py", ".sh", " "]
exclude = ["build/**"]

[run]
cache = true
`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	f := s.Format
	if f.Unit != "\t" || f.LineComment != "#" || f.BlockOpen != "" || f.BlockClose != "" || f.Ignore != "" || f.Quote != "'" {
		t.Fatalf("unexpected format config %+v", f)
	}
	wantPairs := []indent.Pair{{Open: "(", Close: ")"}, {Open: "{", Close: "}"}}
	if !reflect.DeepEqual(f.Pairs, wantPairs) {
		t.Fatalf("pairs = %+v, want %+v", f.Pairs, wantPairs)
	}
	if !reflect.DeepEqual(s.Extensions, []string{".py", ".sh"}) {
		t.Fatalf("extensions = %v", s.Extensions)
	}
	if !reflect.DeepEqual(s.Exclude, []string{"build/**"}) || !s.Cache {
		t.Fatalf("unexpected files/run settings %+v", s)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[format\n", "failed to parse TOML"},
		{"unknown key", "[format]\nindent_size = 2\n", "unknown keys: format.indent_size"},
		{"width", "[format]\nindent_width = 0\n", "indent_width must be positive"},
		{"block arity", "[format]\nblock_comment = [\"/*\"]\n", "block_comment must be"},
		{"pair arity", "[format]\npairs = [[\"{\"]]\n", "pairs[0] must be"},
		{"bad unit", "[format]\nindent = \"--\"\n", "indent unit must be spaces or tabs"},
		{"duplicate token", "[format]\npairs = [[\"{\", \"}\"], [\"{\", \"]\"]]\n", "registered twice"},
		{"jobs", "[run]\njobs = -1\n", "jobs must not be negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("cfg.toml", tc.data)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) || !strings.HasPrefix(err.Error(), "cfg.toml: ") {
				t.Fatalf("error %q should start with the file name and mention %q", err, tc.want)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "[format]\nindent_width = 8\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	s, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if s.Path != path {
		t.Fatalf("Path = %q, want %q", s.Path, path)
	}
	if s.Format.Unit != strings.Repeat(" ", 8) {
		t.Fatalf("unit = %q", s.Format.Unit)
	}
}

func TestFindMissing(t *testing.T) {
	// The temp dir's ancestors are not expected to carry a config file.
	dir := t.TempDir()
	path, ok, err := Find(dir)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if ok {
		t.Skipf("found an unrelated config above the temp dir: %s", path)
	}
}

func TestLoadReportsPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[format]\nline_comment = 5\n")
	_, err := Load(path)
	if err == nil || !strings.HasPrefix(err.Error(), path+": ") {
		t.Fatalf("expected an error prefixed with %q, got %v", path, err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	settings := []Settings{Default()}

	tabs := Default()
	tabs.Format.Unit = "\t"
	tabs.Format.BlockOpen, tabs.Format.BlockClose = "", ""
	tabs.FinalNewline = false
	tabs.Jobs = 4
	tabs.Cache = true
	settings = append(settings, tabs)

	mixed := Default()
	mixed.Format.Unit = " \t"
	mixed.Format.Pairs = []indent.Pair{{Open: "begin", Close: "end"}}
	mixed.Extensions = []string{}
	settings = append(settings, mixed)

	for i, want := range settings {
		data, err := Encode(want)
		if err != nil {
			t.Fatalf("case %d: Encode returned error: %v", i, err)
		}
		got, err := Parse("encoded", string(data))
		if err != nil {
			t.Fatalf("case %d: re-parse failed: %v\n%s", i, err, data)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("case %d: round trip mismatch\n got %+v\nwant %+v\n%s", i, got, want, data)
		}
	}
}
