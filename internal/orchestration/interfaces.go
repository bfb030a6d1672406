package orchestration

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"io"
	"sync"
	"time"

	"github.com/formatlab/sacfit/internal/accumulation"
	"github.com/formatlab/sacfit/internal/fit"
)

// Stage identifies a phase of the per-input pipeline.
type Stage int

// Pipeline stages, in execution order.
const (
	StageLoad Stage = iota
	StageCompute
	StageFit
	StageWrite
	StageDone
)

// String returns the human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "loading registry"
	case StageCompute:
		return "computing accumulation"
	case StageFit:
		return "fitting curve"
	case StageWrite:
		return "writing outputs"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// ProgressUpdate reports that an input has entered a pipeline stage.
type ProgressUpdate struct {
	// InputIndex is the position of the input in the configured input list.
	InputIndex int
	// Input is the registry file being processed.
	Input string
	// Stage is the phase the input just entered.
	Stage Stage
}

// PipelineResult encapsulates the outcome of processing a single registry
// file. It serves as the shared domain type between orchestration and
// presentation layers.
type PipelineResult struct {
	// Input is the registry file that was processed.
	Input string
	// Summary describes the loaded registry (source and label counts).
	Summary string
	// Records is the accumulation curve, one row per source. Nil on error.
	Records []accumulation.Record
	// Fit is the logarithmic fit with its confidence band. Nil on error.
	Fit *fit.Result
	// Outputs lists the files written for this input.
	Outputs []string
	// Duration is the time taken to process the input.
	Duration time.Duration
	// Err contains any error that occurred during processing.
	Err error
}

// ProgressReporter defines the interface for displaying pipeline progress.
// This interface decouples the orchestration layer from the presentation
// layer; implementations handle the visual representation (spinners, TUI
// messages) while the orchestration layer focuses on coordinating the work.
type ProgressReporter interface {
	// DisplayProgress starts displaying progress updates from the channel.
	// It should be called in a separate goroutine and runs until
	// progressChan is closed, then signals wg.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numInputs int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numInputs int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numInputs int, out io.Writer) {
	f(wg, progressChan, numInputs, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
		// Drain channel silently
	}
}

// ResultPresenter defines the interface for presenting pipeline results.
// It decouples the orchestration layer from presentation concerns, allowing
// different output formats without modifying the orchestration logic.
type ResultPresenter interface {
	// PresentSummaryTable displays the per-input summary table.
	PresentSummaryTable(results []PipelineResult, out io.Writer)

	// PresentResult displays the curve table and fit for one input.
	PresentResult(result PipelineResult, quiet bool, out io.Writer)
}

// ErrorHandler handles pipeline errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
