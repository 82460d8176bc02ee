package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		lvl, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", name, err)
		}
		if lvl.String() != strings.ToLower(name) {
			t.Fatalf("round trip mismatch: %q -> %s", name, lvl)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeFile) {
		t.Fatal("phase level should not emit file events")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopeLine) {
		t.Fatal("detail level should emit file events only")
	}
	if !LevelDebug.ShouldEmit(ScopeLine) {
		t.Fatal("debug level should emit everything")
	}
	if LevelOff.ShouldEmit(ScopeRun) {
		t.Fatal("off emits nothing")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	run := Begin(tr, ScopeRun, "run", 0)
	file := Begin(tr, ScopeFile, "a.js", run.ID())
	Point(tr, ScopeLine, file.ID(), "line", "dropped at detail level", nil)
	file.WithExtra("changed", "true").End("ok")
	run.End("")

	out := buf.String()
	if strings.Count(out, "\n") != 4 {
		t.Fatalf("expected 4 events, got:\n%s", out)
	}
	if !strings.Contains(out, "→ a.js") || !strings.Contains(out, "← a.js (ok) {changed=true, dur=") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeLine, 0, "line 3", "depth=2", map[string]string{"dedent": "true"})

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid NDJSON %q: %v", buf.String(), err)
	}
	if decoded["scope"] != "line" || decoded["kind"] != "point" {
		t.Fatalf("unexpected event %v", decoded)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDetail)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeFile, 0, name, "", nil)
	}
	snap := ring.Snapshot()
	if len(snap) != 3 || snap[0].Name != "c" || snap[2].Name != "e" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump returned error: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("unexpected dump:\n%s", buf.String())
	}
}

func TestNewErrorLevelUsesRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ring, ok := Ring(tr)
	if !ok {
		t.Fatalf("expected a ring tracer, got %T", tr)
	}
	Begin(tr, ScopeFile, "x.js", 0).End("")
	if len(ring.Snapshot()) != 2 {
		t.Fatalf("expected begin and end events, got %d", len(ring.Snapshot()))
	}
}

func TestNewBothMode(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	Begin(tr, ScopeRun, "run", 0).End("")
	if _, ok := Ring(tr); !ok {
		t.Fatal("both mode should include a ring")
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("stream side should see both events:\n%s", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context should yield Nop")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer should round-trip through context")
	}
	if FromContext(WithTracer(ctx, nil)) != Nop {
		t.Fatal("nil tracer should become Nop")
	}
}
