// Package config defines the application configuration and its resolution
// chain: CLI flags take precedence over SACFIT_-prefixed environment
// variables, which take precedence over defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	apperrors "github.com/formatlab/sacfit/internal/errors"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "SACFIT_"

// Default values for tunable settings.
const (
	DefaultFitSteps = 100
	DefaultTimeout  = 2 * time.Minute
	DefaultWorkers  = 4
)

// AppConfig holds the complete resolved application configuration.
type AppConfig struct {
	// Inputs are the registry files to process (positional arguments).
	Inputs []string

	// CompareCSV switches to comparison mode against the given holdings CSV.
	CompareCSV string
	// ExtensionsOut switches to export mode, writing the loaded registry
	// mapping to the given JSON file.
	ExtensionsOut string

	// FitMin and FitMax bound the fit sample domain; zero means "use the
	// data range".
	FitMin float64
	FitMax float64
	// FitSteps is the number of curve sample points.
	FitSteps int

	// NoPlot skips PNG/SVG chart generation.
	NoPlot bool
	// JSONOut additionally writes the curve (records + fit) as JSON.
	JSONOut bool
	// OutputDir redirects output files; empty writes alongside the input.
	OutputDir string

	// Serve starts the HTTP API on the given address instead of running the
	// batch pipeline.
	Serve string
	// TUI launches the interactive dashboard.
	TUI bool
	// Completion selects a shell to emit a completion script for.
	Completion string

	// Workers bounds how many input files are processed concurrently.
	Workers int
	// Timeout bounds the whole pipeline run.
	Timeout time.Duration

	// Quiet suppresses progress and table output.
	Quiet bool
	// Verbosity is the -v count: 0 warn, 1 info, 2+ debug.
	Verbosity int
	// NoColor disables ANSI colors.
	NoColor bool
}

// ParseConfig parses command-line arguments into an AppConfig, applies
// environment overrides for flags not explicitly set, and validates the
// result.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		FitSteps: DefaultFitSteps,
		Timeout:  DefaultTimeout,
		Workers:  DefaultWorkers,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() { printUsage(fs, programName, errWriter) }

	fs.StringVar(&cfg.CompareCSV, "compare", "", "compare registries against a holdings CSV (extension,file_count)")
	fs.StringVar(&cfg.ExtensionsOut, "extensions", "", "export the loaded registry mapping to the given JSON `file`")
	fs.Float64Var(&cfg.FitMin, "fit-min", 0, "lower bound of the fit sample domain (0 = data minimum)")
	fs.Float64Var(&cfg.FitMax, "fit-max", 0, "upper bound of the fit sample domain (0 = data maximum)")
	fs.IntVar(&cfg.FitSteps, "fit-steps", DefaultFitSteps, "number of fitted-curve sample points")
	fs.BoolVar(&cfg.NoPlot, "no-plot", false, "skip PNG/SVG chart output")
	fs.BoolVar(&cfg.JSONOut, "json", false, "also write the curve and fit as JSON")
	fs.StringVar(&cfg.OutputDir, "output-dir", "", "directory for output files (default: alongside the input)")
	fs.StringVar(&cfg.Serve, "serve", "", "serve the HTTP API on `addr` (e.g. :8080) instead of running the batch pipeline")
	fs.BoolVar(&cfg.TUI, "tui", false, "launch the interactive dashboard")
	fs.StringVar(&cfg.Completion, "completion", "", "emit a completion script for `shell` (bash, zsh, fish)")
	fs.IntVar(&cfg.Workers, "workers", DefaultWorkers, "maximum input files processed concurrently")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "maximum run time")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "suppress progress and table output")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable colored output")

	var v, vv bool
	fs.BoolVar(&v, "v", false, "info-level logging")
	fs.BoolVar(&vv, "vv", false, "debug-level logging")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	switch {
	case vv:
		cfg.Verbosity = 2
	case v:
		cfg.Verbosity = 1
	}

	cfg.Inputs = fs.Args()
	applyEnvOverrides(&cfg, fs)

	if err := validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// validate rejects flag combinations the pipeline cannot run.
func validate(cfg AppConfig) error {
	if cfg.FitSteps <= 0 {
		return apperrors.NewConfigError("-fit-steps must be positive, got %d", cfg.FitSteps)
	}
	if cfg.FitMin < 0 || cfg.FitMax < 0 {
		return apperrors.NewConfigError("-fit-min and -fit-max must not be negative")
	}
	if cfg.FitMin > 0 && cfg.FitMax > 0 && cfg.FitMax < cfg.FitMin {
		return apperrors.NewConfigError("-fit-max (%g) must not be below -fit-min (%g)", cfg.FitMax, cfg.FitMin)
	}
	if cfg.Workers <= 0 {
		return apperrors.NewConfigError("-workers must be positive, got %d", cfg.Workers)
	}
	if cfg.Completion != "" || cfg.Serve != "" {
		return nil
	}
	if len(cfg.Inputs) == 0 {
		return apperrors.NewConfigError("no input registry file supplied")
	}
	if (cfg.CompareCSV != "" || cfg.ExtensionsOut != "") && len(cfg.Inputs) != 1 {
		return apperrors.NewConfigError("compare and extensions modes take exactly one input, got %d", len(cfg.Inputs))
	}
	if cfg.TUI && len(cfg.Inputs) != 1 {
		return apperrors.NewConfigError("the dashboard takes exactly one input, got %d", len(cfg.Inputs))
	}
	return nil
}

// printUsage writes the usage banner followed by the generated flag table.
func printUsage(fs *flag.FlagSet, programName string, w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [flags] <registry-file> [more registry files...]\n\n", programName)
	fmt.Fprintf(w, "Computes the species accumulation curve of file-extension registries,\n")
	fmt.Fprintf(w, "fits y = a·ln(x) + b to it, and writes CSV, JSON and chart outputs.\n\n")
	fmt.Fprintf(w, "Flags:\n")
	fs.PrintDefaults()
}
