package main

import (
	"bracefmt/internal/observ"
	"bracefmt/internal/pipeline"
)

// foldStageTimings adds per-stage totals collected by the workers to timer.
// The stages ran inside the "format" phase, so they are listed but not summed.
func foldStageTimings(timer *observ.Timer, timings *pipeline.Timings) {
	if timer == nil || timings == nil {
		return
	}
	for _, stage := range pipeline.Stages() {
		if timings.Count(stage) == 0 {
			continue
		}
		timer.Add("  "+string(stage), timings.Duration(stage))
	}
}
