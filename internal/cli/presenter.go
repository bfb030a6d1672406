// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayProgress], [DisplayFit].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Example: [FormatFit].
//
//   - Generate* functions emit scripts or other derived artifacts.
//     Example: [GenerateCompletion].

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/formatlab/sacfit/internal/errors"
	"github.com/formatlab/sacfit/internal/fit"
	"github.com/formatlab/sacfit/internal/format"
	"github.com/formatlab/sacfit/internal/orchestration"
	"github.com/formatlab/sacfit/internal/report"
	"github.com/formatlab/sacfit/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI
// output. It wraps DisplayProgress to provide a spinner display while the
// pipeline runs.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner for ongoing pipeline work.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numInputs int, out io.Writer) {
	DisplayProgress(wg, progressChan, numInputs, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// It provides formatted, colorized output for pipeline results in the
// command-line interface.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentSummaryTable displays the per-input summary table with input names,
// source counts, durations, and status in a formatted tabular layout.
// Uses manual padding to correctly handle ANSI color codes.
func (CLIResultPresenter) PresentSummaryTable(results []orchestration.PipelineResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Pipeline Summary ---\n")

	maxInputLen := 5    // "Input" header length
	maxDurationLen := 8 // "Duration" header length
	for _, res := range results {
		if len(res.Input) > maxInputLen {
			maxInputLen = len(res.Input)
		}
		duration := format.FormatExecutionDuration(res.Duration)
		if len(duration) > maxDurationLen {
			maxDurationLen = len(duration)
		}
	}

	fmt.Fprintf(out, "%sInput%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxInputLen-5),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorError(), res.Err, ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✅ %d sources%s", ui.ColorSuccess(), len(res.Records), ui.ColorReset())
		}
		duration := format.FormatExecutionDuration(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorInfo(), res.Input, ui.ColorReset(), padRight("", maxInputLen-len(res.Input)),
			ui.ColorWarning(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

// padRight returns s followed by spaces up to the given length.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the curve table, the fitted coefficients, and the
// written output files for one input. In quiet mode only the coefficients
// are printed, suitable for scripting.
func (CLIResultPresenter) PresentResult(result orchestration.PipelineResult, quiet bool, out io.Writer) {
	if result.Err != nil || result.Fit == nil {
		return
	}
	if quiet {
		fmt.Fprintf(out, "%.6f %.6f\n", result.Fit.A, result.Fit.B)
		return
	}

	fmt.Fprintf(out, "\n%s%s%s (%s)\n", ui.ColorBold(), result.Input, ui.ColorReset(), result.Summary)
	fmt.Fprint(out, report.FormatRecordsTable(result.Records))
	DisplayFit(result.Fit, out)
	for _, path := range result.Outputs {
		fmt.Fprintf(out, "%s✓ Wrote: %s%s%s\n",
			ui.ColorSuccess(), ui.ColorInfo(), path, ui.ColorReset())
	}
}

// FormatFit returns the fitted equation as a display string.
func FormatFit(res *fit.Result) string {
	return fmt.Sprintf("y = %.4f·ln(x) + %.4f", res.A, res.B)
}

// DisplayFit writes the fitted equation with colorization.
func DisplayFit(res *fit.Result, out io.Writer) {
	fmt.Fprintf(out, "\n%sFit:%s %s%s%s\n",
		ui.ColorBold(), ui.ColorReset(),
		ui.ColorPrimary(), FormatFit(res), ui.ColorReset())
}

// HandleError writes a diagnostic for a pipeline error and returns the
// process exit code associated with it.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	if apperrors.IsContextError(err) {
		fmt.Fprintf(out, "\n%sInterrupted after %s: %v%s\n",
			ui.ColorWarning(), format.FormatExecutionDuration(duration), err, ui.ColorReset())
	} else {
		fmt.Fprintf(out, "\n%sError: %v%s\n", ui.ColorError(), err, ui.ColorReset())
	}
	return apperrors.ExitCodeFor(err)
}
