package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/formatlab/sacfit/internal/cli"
	apperrors "github.com/formatlab/sacfit/internal/errors"
	"github.com/formatlab/sacfit/internal/logging"
	"github.com/formatlab/sacfit/internal/orchestration"
	"github.com/formatlab/sacfit/internal/registry"
	"github.com/formatlab/sacfit/internal/report"
	"github.com/formatlab/sacfit/internal/server"
	"github.com/formatlab/sacfit/internal/tui"
)

// withLifecycle wraps ctx with the configured timeout and SIGINT/SIGTERM
// handling. The returned cancel releases both.
func (a *Application) withLifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, timeoutCancel := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		signalCancel()
		timeoutCancel()
	}
}

// runCurve processes each input registry through the accumulation pipeline
// and presents the results. It returns the exit code of the first failure,
// or 0 when every input succeeded.
func (a *Application) runCurve(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.withLifecycle(ctx)
	defer cancel()

	var (
		reporter    orchestration.ProgressReporter
		progressOut io.Writer
	)
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	} else {
		reporter = cli.CLIProgressReporter{}
		progressOut = out
	}

	pipeline := orchestration.NewPipeline(a.Config, a.Logger)
	results := pipeline.Run(ctx, reporter, progressOut)

	presenter := cli.CLIResultPresenter{}
	if !a.Config.Quiet && len(results) > 1 {
		presenter.PresentSummaryTable(results, out)
	}
	for _, res := range results {
		presenter.PresentResult(res, a.Config.Quiet, out)
	}

	exitCode := apperrors.ExitSuccess
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		code := presenter.HandleError(res.Err, res.Duration, a.ErrWriter)
		if exitCode == apperrors.ExitSuccess {
			exitCode = code
		}
	}
	return exitCode
}

// runCompare loads the single input registry, reads the holdings CSV, and
// writes the per-extension comparison to out.
func (a *Application) runCompare(out io.Writer) int {
	sets, err := registry.Load(a.Config.Inputs[0])
	if err != nil {
		return a.fail(err)
	}
	holdings, err := report.ReadHoldingsFile(a.Config.CompareCSV, a.Logger)
	if err != nil {
		return a.fail(err)
	}
	rows := report.Compare(sets, holdings)
	if err := report.WriteComparison(out, rows); err != nil {
		return a.fail(err)
	}
	return apperrors.ExitSuccess
}

// runExtensions dumps the merged extension registry of the single input to
// the configured JSON file.
func (a *Application) runExtensions(out io.Writer) int {
	sets, err := registry.Load(a.Config.Inputs[0])
	if err != nil {
		return a.fail(err)
	}
	if err := report.WriteRegistryFile(a.Config.ExtensionsOut, sets); err != nil {
		return a.fail(err)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "%s\n", registry.Summarize(sets))
		fmt.Fprintf(out, "Wrote %s\n", a.Config.ExtensionsOut)
	}
	return apperrors.ExitSuccess
}

// runServe starts the HTTP API and blocks until the context is canceled or
// the listener fails.
func (a *Application) runServe(ctx context.Context) int {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(a.Config.Serve, a.Logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		return a.fail(err)
	}
	return apperrors.ExitSuccess
}

// runTUI runs the interactive dashboard. The pipeline executes inside the
// TUI's own lifecycle, so only signal and timeout handling happen here.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancel := a.withLifecycle(ctx)
	defer cancel()

	return tui.Run(ctx, a.Config, a.Logger, Version)
}

// fail logs the error and maps it to a process exit code.
func (a *Application) fail(err error) int {
	a.Logger.Error("run failed", logging.Err(err))
	fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
	return apperrors.ExitCodeFor(err)
}
