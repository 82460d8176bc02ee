package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadPlain(t *testing.T) {
	path := writeTemp(t, "plain.js", []byte("a\nb\n"))
	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if file.Text != "a\nb\n" {
		t.Fatalf("unexpected text %q", file.Text)
	}
	if file.Flags != 0 {
		t.Fatalf("expected no flags, got %s", file.Flags)
	}
	if file.Lines != 3 {
		t.Fatalf("expected 3 lines, got %d", file.Lines)
	}
	if file.Mode != 0o600 {
		t.Fatalf("expected mode 0600, got %v", file.Mode)
	}
	if file.Hash != Sum([]byte("a\nb\n")) {
		t.Fatal("hash should cover the raw bytes")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.js"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadBOM(t *testing.T) {
	path := writeTemp(t, "bom.js", []byte("\xEF\xBB\xBFa\r\nb\r\n"))
	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if file.Text != "a\r\nb\r\n" {
		t.Fatalf("BOM should be stripped, got %q", file.Text)
	}
	if !file.Flags.Has(FileHadBOM | FileHadCR) {
		t.Fatalf("expected bom and cr flags, got %s", file.Flags)
	}

	out, err := file.Encode("a\nb")
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !bytes.Equal(out, []byte("\xEF\xBB\xBFa\nb")) {
		t.Fatalf("unexpected encoded bytes %q", out)
	}
	if !file.Changed(out) {
		t.Fatal("rewritten content should count as changed")
	}
}

func TestUTF16RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		flag FileFlags
	}{
		{name: "le", raw: []byte{0xFF, 0xFE, '{', 0, '\n', 0, '}', 0}, flag: FileUTF16LE},
		{name: "be", raw: []byte{0xFE, 0xFF, 0, '{', 0, '\n', 0, '}'}, flag: FileUTF16BE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := FromBytes("x.js", tt.raw)
			if err != nil {
				t.Fatalf("FromBytes returned error: %v", err)
			}
			if file.Text != "{\n}" {
				t.Fatalf("unexpected text %q", file.Text)
			}
			if !file.Flags.Has(tt.flag | FileHadBOM | FileVirtual) {
				t.Fatalf("unexpected flags %s", file.Flags)
			}
			out, err := file.Encode(file.Text)
			if err != nil {
				t.Fatalf("Encode returned error: %v", err)
			}
			if !bytes.Equal(out, tt.raw) {
				t.Fatalf("round trip changed bytes: %v != %v", out, tt.raw)
			}
			if file.Changed(out) {
				t.Fatal("identical output must not count as changed")
			}
		})
	}
}

func TestFlagsString(t *testing.T) {
	if got := FileFlags(0).String(); got != "plain" {
		t.Fatalf("got %q", got)
	}
	if got := (FileHadBOM | FileUTF16BE).String(); got != "bom,utf16be" {
		t.Fatalf("got %q", got)
	}
}

func TestCombineOrderMatters(t *testing.T) {
	a, b := Sum([]byte("a")), Sum([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("Combine should depend on argument order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatal("Combine should be deterministic")
	}
	if len(a.Short()) != 12 {
		t.Fatalf("unexpected short digest %q", a.Short())
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}
	if err := os.MkdirAll(otherDir, 0o755); err != nil {
		t.Fatalf("failed to create other dir: %v", err)
	}

	target := filepath.Join(otherDir, "file.js")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(target)
	if got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestRelativePathInsideBaseStaysRelative(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	target := filepath.Join(baseDir, "nested", "file.js")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(filepath.Join("nested", "file.js"))
	if got != want {
		t.Fatalf("expected relative path %q, got %q", want, got)
	}
}
