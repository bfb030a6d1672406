package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and exercises the command surface end to end.
func TestCLI_E2E(t *testing.T) {
	tmpDir := t.TempDir()
	binName := "sacfit"
	if runtime.GOOS == "windows" {
		binName = "sacfit.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs with the package directory as CWD, so build from the
	// module root two levels up.
	build := exec.Command("go", "build", "-o", binPath, "./cmd/sacfit")
	build.Dir = "../.."
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to build sacfit: %v", err)
	}

	registryPath := filepath.Join(tmpDir, "registry.json")
	registryJSON := `{
		"alpha": ["*.avi", "*.mov", "*.mkv", "*.wav", "*.flac", "*.png"],
		"beta":  ["*.avi", "*.doc", "*.pdf"],
		"gamma": ["*.avi", "*.xml"]
	}`
	if err := os.WriteFile(registryPath, []byte(registryJSON), 0o644); err != nil {
		t.Fatalf("writing registry fixture: %v", err)
	}
	holdingsPath := filepath.Join(tmpDir, "holdings.csv")
	if err := os.WriteFile(holdingsPath, []byte("extension,file_count\navi,10\nzzz,3\n"), 0o644); err != nil {
		t.Fatalf("writing holdings fixture: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Curve Default",
			args:     []string{"-no-plot", "-output-dir", tmpDir, registryPath},
			wantOut:  "ln(x)",
			wantCode: 0,
		},
		{
			name:     "Curve Quiet",
			args:     []string{"-quiet", "-no-plot", "-output-dir", tmpDir, registryPath},
			wantOut:  ".",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "sacfit",
			wantCode: 0,
		},
		{
			name:     "Missing Input",
			args:     []string{"-quiet", "no-such-file.json"},
			wantOut:  "",
			wantCode: 2,
		},
		{
			name:     "No Input",
			args:     []string{},
			wantOut:  "",
			wantCode: 1,
		},
		{
			name:     "Extensions Export",
			args:     []string{"-extensions", filepath.Join(tmpDir, "exts.json"), registryPath},
			wantOut:  "3 sources",
			wantCode: 0,
		},
		{
			name:     "Compare Holdings",
			args:     []string{"-compare", holdingsPath, registryPath},
			wantOut:  "_ALL_",
			wantCode: 0,
		},
		{
			name:     "Bash Completion",
			args:     []string{"-completion", "bash"},
			wantOut:  "complete",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			if tt.wantCode == 0 {
				if err != nil {
					t.Errorf("Command failed unexpectedly: %v\nOutput: %s", err, outStr)
				}
			} else {
				if err == nil {
					t.Errorf("Expected non-zero exit code, but command succeeded.\nOutput: %s", outStr)
				} else if exitErr, ok := err.(*exec.ExitError); ok {
					if exitErr.ExitCode() != tt.wantCode {
						t.Errorf("Exit code = %d, want %d\nOutput: %s", exitErr.ExitCode(), tt.wantCode, outStr)
					}
				}
			}

			if tt.wantOut != "" {
				if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
					t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
				}
			}
		})
	}
}
