// Package trace provides lightweight tracing for bracefmt runs.
//
// Tracing answers "what did the formatter do and how long did it take":
// one span per run, one per file, and at debug level one point per line
// with the depth the engine assigned.
//
// # Usage
//
//	bracefmt --trace=- --trace-level=detail src/
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: keeps the last N events, dumped when a run fails
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only ring dumps on failure
//   - LevelPhase: run boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: per-line events
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, path, 0)
//	defer span.End("")
package trace
