package config

import (
	"bytes"
	"errors"
	"testing"
	"time"

	apperrors "github.com/formatlab/sacfit/internal/errors"
)

func parseArgs(t *testing.T, args ...string) (AppConfig, error) {
	t.Helper()
	var errBuf bytes.Buffer
	return ParseConfig("sacfit", args, &errBuf)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseArgs(t, "registry.yaml")
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if len(cfg.Inputs) != 1 || cfg.Inputs[0] != "registry.yaml" {
		t.Errorf("Inputs = %v, want [registry.yaml]", cfg.Inputs)
	}
	if cfg.FitSteps != DefaultFitSteps {
		t.Errorf("FitSteps = %d, want %d", cfg.FitSteps, DefaultFitSteps)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.Verbosity != 0 {
		t.Errorf("Verbosity = %d, want 0", cfg.Verbosity)
	}
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := parseArgs(t,
		"-fit-min", "2", "-fit-max", "30", "-fit-steps", "50",
		"-json", "-no-plot", "-quiet", "-vv",
		"-timeout", "30s", "-workers", "2",
		"a.yaml", "b.jsonl")
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if cfg.FitMin != 2 || cfg.FitMax != 30 || cfg.FitSteps != 50 {
		t.Errorf("fit bounds = (%g, %g, %d), want (2, 30, 50)", cfg.FitMin, cfg.FitMax, cfg.FitSteps)
	}
	if !cfg.JSONOut || !cfg.NoPlot || !cfg.Quiet {
		t.Errorf("bool flags not applied: %+v", cfg)
	}
	if cfg.Verbosity != 2 {
		t.Errorf("Verbosity = %d, want 2", cfg.Verbosity)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if len(cfg.Inputs) != 2 {
		t.Errorf("Inputs = %v, want two entries", cfg.Inputs)
	}
}

func TestParseConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no inputs", []string{}},
		{"zero steps", []string{"-fit-steps", "0", "a.yaml"}},
		{"negative min", []string{"-fit-min", "-1", "a.yaml"}},
		{"inverted domain", []string{"-fit-min", "10", "-fit-max", "5", "a.yaml"}},
		{"zero workers", []string{"-workers", "0", "a.yaml"}},
		{"compare with two inputs", []string{"-compare", "holdings.csv", "a.yaml", "b.yaml"}},
		{"tui with two inputs", []string{"-tui", "a.yaml", "b.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(t, tt.args...)
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("ParseConfig(%v) error = %v, want ConfigError", tt.args, err)
			}
		})
	}
}

func TestParseConfigServeNeedsNoInput(t *testing.T) {
	cfg, err := parseArgs(t, "-serve", ":8080")
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if cfg.Serve != ":8080" {
		t.Errorf("Serve = %q, want :8080", cfg.Serve)
	}
}

func TestEnvOverrideAppliedWhenFlagAbsent(t *testing.T) {
	t.Setenv(EnvPrefix+"FIT_STEPS", "25")
	cfg, err := parseArgs(t, "a.yaml")
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if cfg.FitSteps != 25 {
		t.Errorf("FitSteps = %d, want 25 from environment", cfg.FitSteps)
	}
}

func TestFlagTakesPrecedenceOverEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"FIT_STEPS", "25")
	cfg, err := parseArgs(t, "-fit-steps", "40", "a.yaml")
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if cfg.FitSteps != 40 {
		t.Errorf("FitSteps = %d, want 40 from flag", cfg.FitSteps)
	}
}

func TestEnvBoolParsing(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"true", true}, {"1", true}, {"YES", true},
		{"false", false}, {"0", false}, {"no", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.val, false); got != tt.want {
			t.Errorf("parseBoolEnv(%q) = %v, want %v", tt.val, got, tt.want)
		}
	}
}

func TestEnvDurationOverride(t *testing.T) {
	t.Setenv(EnvPrefix+"TIMEOUT", "90s")
	cfg, err := parseArgs(t, "a.yaml")
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s from environment", cfg.Timeout)
	}
}
