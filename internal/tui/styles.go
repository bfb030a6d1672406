package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/formatlab/sacfit/internal/ui"
)

// Style variables for the TUI dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	elapsedStyle       lipgloss.Style
	dimStyle           lipgloss.Style
	tableHeaderStyle   lipgloss.Style
	tableRowStyle      lipgloss.Style
	tableCursorStyle   lipgloss.Style
	chartCurveStyle    lipgloss.Style
	chartBandStyle     lipgloss.Style
	fitLegendStyle     lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
	memSparklineStyle  lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	elapsedStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	dimStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	tableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Info)

	tableRowStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	tableCursorStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	chartCurveStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	chartBandStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	fitLegendStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	statusRunningStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	statusPausedStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	statusDoneStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	cpuSparklineStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	memSparklineStyle = lipgloss.NewStyle().
		Foreground(t.Warning)
}
