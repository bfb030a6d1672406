package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/formatlab/sacfit/internal/errors"
)

// writeFile creates a fixture file inside dir and fails the test on error.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

// writeRegistry creates a JSON registry fixture with two overlapping sources.
func writeRegistry(t *testing.T, dir string) string {
	t.Helper()
	sets := map[string][]string{
		"alpha": {"*.avi", "*.mov", "*.mkv", "*.wav", "*.flac", "*.png", "*.tif"},
		"beta":  {"*.avi", "*.doc", "*.xls", "*.pdf"},
	}
	data, err := json.Marshal(sets)
	if err != nil {
		t.Fatalf("marshaling fixture: %v", err)
	}
	return writeFile(t, dir, "registry.json", string(data))
}

func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	errBuf := &bytes.Buffer{}
	application, err := New(append([]string{"sacfit"}, args...), errBuf)
	if err != nil {
		t.Fatalf("New() error = %v, stderr = %q", err, errBuf.String())
	}
	return application, errBuf
}

func TestNew(t *testing.T) {
	t.Run("RejectsUnknownFlag", func(t *testing.T) {
		_, err := New([]string{"sacfit", "-bogus"}, &bytes.Buffer{})
		if err == nil {
			t.Fatal("New() with unknown flag should return an error")
		}
	})

	t.Run("HelpIsHelpError", func(t *testing.T) {
		_, err := New([]string{"sacfit", "-h"}, &bytes.Buffer{})
		if !IsHelpError(err) {
			t.Errorf("IsHelpError(%v) = false, want true", err)
		}
	})

	t.Run("EmptyArgsUsesDefaultName", func(t *testing.T) {
		_, err := New(nil, &bytes.Buffer{})
		if err == nil {
			t.Fatal("New() with no inputs should fail validation")
		}
	})
}

func TestRunCurve(t *testing.T) {
	t.Run("QuietSuccess", func(t *testing.T) {
		dir := t.TempDir()
		input := writeRegistry(t, dir)
		application, errBuf := newTestApp(t,
			"-quiet", "-no-plot", "-no-color", "-output-dir", dir, input)

		out := &bytes.Buffer{}
		code := application.Run(context.Background(), out)
		if code != apperrors.ExitSuccess {
			t.Fatalf("Run() = %d, want %d, stderr = %q", code, apperrors.ExitSuccess, errBuf.String())
		}

		// Quiet mode prints exactly the two fit coefficients.
		fields := strings.Fields(out.String())
		if len(fields) != 2 {
			t.Errorf("quiet output = %q, want two coefficients", out.String())
		}
		csvPath := filepath.Join(dir, "registry.species.csv")
		if _, err := os.Stat(csvPath); err != nil {
			t.Errorf("expected CSV output at %s: %v", csvPath, err)
		}
	})

	t.Run("MissingInputExitCode", func(t *testing.T) {
		application, _ := newTestApp(t, "-quiet", "-no-plot", "no-such-registry.json")
		code := application.Run(context.Background(), &bytes.Buffer{})
		if code != apperrors.ExitErrorInput {
			t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorInput)
		}
	})

	t.Run("SingleSourceFitExitCode", func(t *testing.T) {
		dir := t.TempDir()
		input := writeFile(t, dir, "single.json", `{"only": ["*.avi", "*.mov"]}`)
		application, _ := newTestApp(t, "-quiet", "-no-plot", "-output-dir", dir, input)
		code := application.Run(context.Background(), &bytes.Buffer{})
		if code != apperrors.ExitErrorFit {
			t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorFit)
		}
	})
}

func TestRunExtensions(t *testing.T) {
	dir := t.TempDir()
	input := writeRegistry(t, dir)
	outPath := filepath.Join(dir, "extensions.json")
	application, errBuf := newTestApp(t, "-no-color", "-extensions", outPath, input)

	out := &bytes.Buffer{}
	if code := application.Run(context.Background(), out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, stderr = %q", code, errBuf.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var exported map[string][]string
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(exported["alpha"]) != 7 {
		t.Errorf("exported alpha has %d extensions, want 7", len(exported["alpha"]))
	}
	if !strings.Contains(out.String(), "2 sources") {
		t.Errorf("summary output = %q, want source count", out.String())
	}
}

func TestRunCompare(t *testing.T) {
	dir := t.TempDir()
	input := writeRegistry(t, dir)
	holdings := writeFile(t, dir, "holdings.csv",
		"extension,file_count\navi,10\nmov,5\nzzz,3\n")
	application, errBuf := newTestApp(t, "-no-color", "-compare", holdings, input)

	out := &bytes.Buffer{}
	if code := application.Run(context.Background(), out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, stderr = %q", code, errBuf.String())
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("comparison has %d rows, want 3 (two sources + union): %q", len(lines), out.String())
	}
	// Largest registry first, union row last.
	if !strings.HasPrefix(lines[0], "alpha ") {
		t.Errorf("first row = %q, want alpha", lines[0])
	}
	if !strings.HasPrefix(lines[2], "_ALL_ ") {
		t.Errorf("last row = %q, want union row", lines[2])
	}
	// alpha knows avi and mov but not zzz: common 2, remainder 1, mass 3.
	if lines[0] != "alpha 2 1 3 18" {
		t.Errorf("alpha row = %q, want %q", lines[0], "alpha 2 1 3 18")
	}
}

func TestRunCompletion(t *testing.T) {
	t.Run("Bash", func(t *testing.T) {
		application, _ := newTestApp(t, "-completion", "bash")
		out := &bytes.Buffer{}
		if code := application.Run(context.Background(), out); code != apperrors.ExitSuccess {
			t.Fatalf("Run() = %d", code)
		}
		if !strings.Contains(out.String(), "complete") {
			t.Error("bash completion output missing complete directive")
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		application, _ := newTestApp(t, "-completion", "powershell")
		code := application.Run(context.Background(), &bytes.Buffer{})
		if code != apperrors.ExitErrorConfig {
			t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorConfig)
		}
	})
}

func TestVersion(t *testing.T) {
	cases := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-version"}, true},
		{[]string{"-V"}, true},
		{[]string{"-quiet", "registry.json"}, false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := HasVersionFlag(tc.args); got != tc.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tc.args, got, tc.want)
		}
	}

	out := &bytes.Buffer{}
	PrintVersion(out)
	if !strings.Contains(out.String(), "sacfit") || !strings.Contains(out.String(), Version) {
		t.Errorf("PrintVersion() = %q, want banner with name and version", out.String())
	}
}
