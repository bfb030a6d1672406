package tui

import (
	"fmt"

	"github.com/formatlab/sacfit/internal/sysmon"
)

// sparklineHistory is the number of resource samples kept for the footer.
const sparklineHistory = 30

// FooterModel renders the bottom bar: status, resource sparklines, key hints.
type FooterModel struct {
	width  int
	done   bool
	paused bool
	failed bool

	cpu *RingBuffer
	mem *RingBuffer

	goroutines int
}

// NewFooterModel creates a new footer.
func NewFooterModel() FooterModel {
	return FooterModel{
		cpu: NewRingBuffer(sparklineHistory),
		mem: NewRingBuffer(sparklineHistory),
	}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetDone marks the pipeline as finished.
func (f *FooterModel) SetDone(done bool) { f.done = done }

// SetPaused marks sampling as paused.
func (f *FooterModel) SetPaused(paused bool) { f.paused = paused }

// SetError marks the run as failed.
func (f *FooterModel) SetError(failed bool) { f.failed = failed }

// AddSample records a resource usage sample.
func (f *FooterModel) AddSample(s sysmon.Stats) {
	f.cpu.Push(s.CPUPercent)
	f.mem.Push(s.MemPercent)
	f.goroutines = s.Goroutines
}

// Reset clears status flags and sample history.
func (f *FooterModel) Reset() {
	f.done = false
	f.paused = false
	f.failed = false
	f.cpu.Reset()
	f.mem.Reset()
}

func (f FooterModel) status() string {
	switch {
	case f.failed:
		return statusErrorStyle.Render("FAILED")
	case f.done:
		return statusDoneStyle.Render("DONE")
	case f.paused:
		return statusPausedStyle.Render("PAUSED")
	default:
		return statusRunningStyle.Render("RUNNING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	status := f.status()

	stats := fmt.Sprintf("%s%s %s%s %s",
		cpuSparklineStyle.Render("cpu "+RenderSparkline(f.cpu.Slice())),
		dimStyle.Render(fmt.Sprintf(" %3.0f%%", f.cpu.Last())),
		memSparklineStyle.Render("mem "+RenderSparkline(f.mem.Slice())),
		dimStyle.Render(fmt.Sprintf(" %3.0f%%", f.mem.Last())),
		dimStyle.Render(fmt.Sprintf("goroutines %d", f.goroutines)),
	)

	hints := footerKeyStyle.Render("q") + footerDescStyle.Render(" quit  ") +
		footerKeyStyle.Render("r") + footerDescStyle.Render(" rerun  ") +
		footerKeyStyle.Render("p") + footerDescStyle.Render(" pause  ") +
		footerKeyStyle.Render("↑/↓") + footerDescStyle.Render(" scroll")

	return status + dimStyle.Render(" | ") + stats + dimStyle.Render(" | ") + hints
}
