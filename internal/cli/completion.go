package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // flag name without the leading dash
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "compare", Help: "Compare registries against a holdings CSV", IsFile: true, ValueName: "file"},
	{Long: "extensions", Help: "Export the registry mapping as JSON", IsFile: true, ValueName: "file"},
	{Long: "fit-min", Help: "Lower bound of the fit sample domain", ValueName: "number"},
	{Long: "fit-max", Help: "Upper bound of the fit sample domain", ValueName: "number"},
	{Long: "fit-steps", Help: "Number of fitted-curve sample points", Values: []string{"50", "100", "200", "500"}, ValueName: "steps"},
	{Long: "no-plot", Help: "Skip PNG/SVG chart output"},
	{Long: "json", Help: "Also write the curve and fit as JSON"},
	{Long: "output-dir", Help: "Directory for output files", IsFile: true, ValueName: "dir"},
	{Long: "serve", Help: "Serve the HTTP API on the given address", Values: []string{":8080", "localhost:8080"}, ValueName: "addr"},
	{Long: "tui", Help: "Launch the interactive dashboard"},
	{Long: "workers", Help: "Maximum inputs processed concurrently", Values: []string{"1", "2", "4", "8"}, ValueName: "count"},
	{Long: "timeout", Help: "Maximum run time", Values: []string{"30s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "quiet", Help: "Suppress progress and table output"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "v", Help: "Info-level logging"},
	{Long: "vv", Help: "Debug-level logging"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion generates a shell completion script for the specified
// shell.
func GenerateCompletion(out io.Writer, shell string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out)
	case "zsh":
		return generateZshCompletion(out)
	case "fish":
		return generateFishCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer) error {
	var opts []string
	for _, f := range flagRegistry {
		opts = append(opts, "--"+f.Long)
	}

	// Case entries: file flags share a block, then flags with static values.
	var filePatterns []string
	for _, f := range flagRegistry {
		if f.IsFile {
			filePatterns = append(filePatterns, "--"+f.Long)
		}
	}

	var caseBody strings.Builder
	caseBody.WriteString("        ")
	caseBody.WriteString(strings.Join(filePatterns, "|"))
	caseBody.WriteString(")\n            # File/directory completion\n")
	caseBody.WriteString("            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n")
	caseBody.WriteString("            return 0\n            ;;\n")
	for _, f := range flagRegistry {
		if f.IsFile || len(f.Values) == 0 {
			continue
		}
		caseBody.WriteString("        --")
		caseBody.WriteString(f.Long)
		caseBody.WriteString(")\n")
		fmt.Fprintf(&caseBody, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(f.Values, " "))
		caseBody.WriteString("            return 0\n            ;;\n")
	}

	script := fmt.Sprintf(`# Bash completion script for sacfit
# Add this to your ~/.bashrc or ~/.bash_completion

_sacfit_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main options
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi

    # Positional arguments are registry files
    COMPREPLY=( $(compgen -f -- "${cur}") )
}

complete -F _sacfit_completions sacfit
`, strings.Join(opts, " "), caseBody.String())

	_, err := fmt.Fprint(out, script)
	if err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	args = append(args, "        '*:registry file:_files'")

	script := fmt.Sprintf(`#compdef sacfit

# Zsh completion script for sacfit
# Add this to your ~/.zshrc or place in $fpath

_sacfit() {
    _arguments -s \
%s
}

_sacfit "$@"
`, strings.Join(args, " \\\n"))

	_, err := fmt.Fprint(out, script)
	if err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer) error {
	var lines []string

	lines = append(lines, "# Fish completion script for sacfit")
	lines = append(lines, "# Add this to ~/.config/fish/completions/sacfit.fish")
	lines = append(lines, "")
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f))
	}
	lines = append(lines, "")

	_, err := fmt.Fprint(out, strings.Join(lines, "\n"))
	if err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion) string {
	var parts []string
	parts = append(parts, "complete -c sacfit")
	parts = append(parts, fmt.Sprintf("-l %s", f.Long))
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}

	return strings.Join(parts, " ")
}
