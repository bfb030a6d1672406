package tui

import (
	"time"

	"github.com/formatlab/sacfit/internal/orchestration"
)

// ProgressMsg carries a pipeline stage transition into the TUI.
type ProgressMsg struct {
	Update orchestration.ProgressUpdate
}

// ProgressDoneMsg signals that the progress channel closed.
type ProgressDoneMsg struct{}

// PipelineDoneMsg carries the final pipeline results.
// Generation guards against stale messages after a reset.
type PipelineDoneMsg struct {
	Results    []orchestration.PipelineResult
	ExitCode   int
	Generation uint64
}

// ErrorMsg reports a fatal pipeline error.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic refresh of the elapsed timer and resource stats.
type TickMsg time.Time

// SysStatsMsg carries a resource usage sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
	HeapBytes  uint64
	Goroutines int
}

// ContextCancelledMsg signals that the run context was canceled externally.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
