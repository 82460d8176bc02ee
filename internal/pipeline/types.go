package pipeline

import (
	"sync"
	"time"
)

// Stage describes a per-file phase.
type Stage string

const (
	// StageRead loads and decodes the file.
	StageRead Stage = "read"
	// StageFormat runs the re-indentation pass.
	StageFormat Stage = "format"
	// StageWrite replaces the file on disk.
	StageWrite Stage = "write"
)

// Stages lists every stage in execution order.
func Stages() []Stage {
	return []Stage{StageRead, StageFormat, StageWrite}
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the file is finished.
	StatusDone Status = "done"
	// StatusUnchanged indicates the file was already formatted.
	StatusUnchanged Status = "unchanged"
	// StatusCached indicates the cache proved the file formatted without reading further.
	StatusCached Status = "cached"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Terminal reports whether no further events follow for the file.
func (s Status) Terminal() bool {
	switch s {
	case StatusDone, StatusUnchanged, StatusCached, StatusError:
		return true
	default:
		return false
	}
}

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings accumulates stage durations. Safe for concurrent use.
type Timings struct {
	mu     sync.Mutex
	stages map[Stage]time.Duration
	counts map[Stage]int
}

// Add records one more run of stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
		t.counts = make(map[Stage]int)
	}
	t.stages[stage] += dur
	t.counts[stage]++
}

// Duration returns the total recorded for stage.
func (t *Timings) Duration(stage Stage) time.Duration {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stages[stage]
}

// Count returns how many times stage ran.
func (t *Timings) Count(stage Stage) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t *Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.Duration(stage)
	}
	return total
}
