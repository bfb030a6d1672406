// Package app wires configuration, logging, and the processing modes into a
// runnable application. It owns mode dispatch and process exit codes.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/formatlab/sacfit/internal/cli"
	"github.com/formatlab/sacfit/internal/config"
	apperrors "github.com/formatlab/sacfit/internal/errors"
	"github.com/formatlab/sacfit/internal/logging"
	"github.com/formatlab/sacfit/internal/ui"
)

// Application represents the sacfit application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Logger    logging.Logger
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "sacfit"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	logging.SetGlobalVerbosity(a.Config.Verbosity)
	ui.InitTheme(a.Config.NoColor)
	if a.Logger == nil {
		a.Logger = logging.NewLogger(a.ErrWriter, "sacfit")
	}

	switch {
	case a.Config.Serve != "":
		return a.runServe(ctx)
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.CompareCSV != "":
		return a.runCompare(out)
	case a.Config.ExtensionsOut != "":
		return a.runExtensions(out)
	default:
		return a.runCurve(ctx, out)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
