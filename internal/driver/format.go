package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"bracefmt/internal/indent"
	"bracefmt/internal/pipeline"
	"bracefmt/internal/source"
	"bracefmt/internal/trace"
)

// ErrNoFiles is returned when the given paths expand to nothing.
var ErrNoFiles = errors.New("format: no source files found")

// FormatOptions configures code formatting.
type FormatOptions struct {
	Check        bool // report files that would change, touch nothing
	Stdout       bool // return formatted content instead of writing it
	Jobs         int  // worker limit, GOMAXPROCS when <= 0
	Config       indent.Config
	FinalNewline bool
	Extensions   []string // used when walking directories
	Exclude      []string // doublestar globs relative to each walked directory
	Cache        *DiskCache
	Progress     pipeline.ProgressSink
	Timings      *pipeline.Timings
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Cached    bool // skipped because the cache knew the content was formatted
	Err       error
	Formatted []byte // only with Stdout
	Flags     source.FileFlags
	Lines     uint32
}

// FormatPaths formats provided files or directories. Directories are walked
// for files with the configured extensions; files named explicitly are always
// formatted. When opts.Check is true, files are not modified; Changed indicates
// whether formatting would update the file contents. When opts.Stdout is true,
// formatted content is returned in the results without touching files on disk.
//
// Per-file failures are stored in FormatResult.Err and do not stop the run.
// Results follow the sorted file order regardless of scheduling.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracer := trace.FromContext(ctx)
	run := trace.Begin(tracer, trace.ScopeRun, "format", 0)

	files, err := collectSourceFiles(ctx, paths, newFileFilter(opts.Extensions, opts.Exclude))
	if err != nil {
		run.End("collect failed")
		return nil, err
	}
	if len(files) == 0 {
		run.End("no files")
		return nil, ErrNoFiles
	}
	run.WithExtra("files", strconv.Itoa(len(files)))

	for _, path := range files {
		pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageRead, Status: pipeline.StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FormatResult, len(files))
	fmtr := &fileFormatter{opts: opts, tracer: tracer, parent: run.ID()}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FormatResult{Path: path, Err: err}
				return err
			}
			results[i] = fmtr.format(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		run.End("canceled")
		return results, err
	}

	changed, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else if r.Changed {
			changed++
		}
	}
	run.WithExtra("changed", strconv.Itoa(changed)).WithExtra("failed", strconv.Itoa(failed)).End("")
	return results, nil
}

type fileFormatter struct {
	opts   FormatOptions
	tracer trace.Tracer
	parent uint64
}

func (f *fileFormatter) emit(path string, stage pipeline.Stage, status pipeline.Status, err error, elapsed time.Duration) {
	pipeline.Emit(f.opts.Progress, pipeline.Event{File: path, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

func (f *fileFormatter) stage(stage pipeline.Stage, start time.Time) time.Duration {
	elapsed := time.Since(start)
	f.opts.Timings.Add(stage, elapsed)
	return elapsed
}

func (f *fileFormatter) fail(span *trace.Span, result FormatResult, stage pipeline.Stage, err error, began time.Time) FormatResult {
	result.Err = err
	span.WithExtra("stage", string(stage)).End(err.Error())
	f.emit(result.Path, stage, pipeline.StatusError, err, time.Since(began))
	return result
}

func (f *fileFormatter) format(path string) FormatResult {
	began := time.Now()
	span := trace.Begin(f.tracer, trace.ScopeFile, path, f.parent)
	result := FormatResult{Path: path}
	opts := f.opts

	// read
	f.emit(path, pipeline.StageRead, pipeline.StatusWorking, nil, 0)
	start := time.Now()
	file, err := source.Load(path)
	f.stage(pipeline.StageRead, start)
	if err != nil {
		return f.fail(span, result, pipeline.StageRead, err, began)
	}
	result.Flags = file.Flags
	result.Lines = file.Lines
	span.WithExtra("flags", file.Flags.String())

	var key source.Digest
	if opts.Cache != nil {
		key = CacheKey(file.Hash, opts.Config, opts.FinalNewline)
		var entry CacheEntry
		hit, cacheErr := opts.Cache.Get(key, &entry)
		if cacheErr != nil {
			trace.Point(f.tracer, trace.ScopeFile, span.ID(), "cache", cacheErr.Error(), nil)
		}
		if hit {
			result.Cached = true
			if opts.Stdout {
				result.Formatted = file.Raw
			}
			span.WithExtra("cache", "hit").End("unchanged")
			f.emit(path, pipeline.StageFormat, pipeline.StatusCached, nil, time.Since(began))
			return result
		}
	}

	// format
	f.emit(path, pipeline.StageFormat, pipeline.StatusWorking, nil, 0)
	start = time.Now()
	text := indent.Format(file.Text, opts.Config)
	if opts.FinalNewline && text != "" {
		text += "\n"
	}
	if f.tracer.Level().ShouldEmit(trace.ScopeLine) {
		f.traceLines(span.ID(), file.Text)
	}
	formatted, err := file.Encode(text)
	f.stage(pipeline.StageFormat, start)
	if err != nil {
		return f.fail(span, result, pipeline.StageFormat, fmt.Errorf("encode: %w", err), began)
	}
	changed := file.Changed(formatted)
	span.WithExtra("changed", strconv.FormatBool(changed))

	switch {
	case opts.Check:
		result.Changed = changed
	case opts.Stdout:
		result.Formatted = formatted
		result.Changed = changed
	case changed:
		f.emit(path, pipeline.StageWrite, pipeline.StatusWorking, nil, 0)
		start = time.Now()
		err = writeFileAtomic(path, formatted, file.Mode)
		f.stage(pipeline.StageWrite, start)
		if err != nil {
			return f.fail(span, result, pipeline.StageWrite, err, began)
		}
		result.Changed = true
	}

	// In check and dry-run modes the file on disk keeps its old content, so
	// only content that is already formatted may be remembered.
	if opts.Cache != nil && (!changed || (!opts.Check && !opts.Stdout)) {
		if changed {
			key = CacheKey(source.Sum(formatted), opts.Config, opts.FinalNewline)
		}
		if cacheErr := opts.Cache.Remember(key, path, formatted, file.Lines); cacheErr != nil {
			trace.Point(f.tracer, trace.ScopeFile, span.ID(), "cache", cacheErr.Error(), nil)
		}
	}

	status := pipeline.StatusDone
	if !changed {
		status = pipeline.StatusUnchanged
	}
	span.End(string(status))
	f.emit(path, pipeline.StageWrite, status, nil, time.Since(began))
	return result
}

// traceLines emits the per-line analysis as debug points.
func (f *fileFormatter) traceLines(parent uint64, text string) {
	for _, info := range indent.Analyze(text, f.opts.Config) {
		extra := map[string]string{"depth": strconv.Itoa(info.Depth)}
		if info.InComment {
			extra["comment"] = "true"
		}
		if info.Dedent {
			extra["dedent"] = "true"
		}
		if info.Continuation {
			extra["continuation"] = "true"
		}
		trace.Point(f.tracer, trace.ScopeLine, parent, "line "+strconv.Itoa(info.Number), info.Active, extra)
	}
}
