package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/formatlab/sacfit/internal/config"
	apperrors "github.com/formatlab/sacfit/internal/errors"
	"github.com/formatlab/sacfit/internal/logging"
	"github.com/formatlab/sacfit/internal/orchestration"
	"github.com/formatlab/sacfit/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight           = 1
	footerHeight           = 1
	minBodyHeight          = 6
	tablePanelWidthPercent = 55
)

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	h := l.height - headerHeight - footerHeight
	if h < minBodyHeight {
		h = minBodyHeight
	}
	return h
}

// tableWidth returns the width allocated to the records table.
func (l LayoutManager) tableWidth() int {
	return l.width * tablePanelWidthPercent / 100
}

// chartWidth returns the width allocated to the curve chart.
func (l LayoutManager) chartWidth() int {
	return l.width - l.tableWidth()
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header HeaderModel
	table  TableModel
	chart  ChartModel
	footer FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	logger    logging.Logger
	ref       *programRef
	paused    bool
}

// NewModel creates a new dashboard model for the configured single input.
func NewModel(parentCtx context.Context, cfg config.AppConfig, logger logging.Logger, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)

	input := ""
	if len(cfg.Inputs) > 0 {
		input = cfg.Inputs[0]
	}

	return Model{
		header: NewHeaderModel(version, input),
		table:  NewTableModel(),
		chart:  NewChartModel(),
		footer: NewFooterModel(),
		keymap: DefaultKeyMap(),
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		logger:    logger,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startPipelineCmd(m.ref, m.ctx, m.config, m.logger, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		m.chart.SetStage(msg.Update.Stage.String())
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case PipelineDoneMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		m.footer.SetDone(true)
		if len(msg.Results) > 0 {
			res := msg.Results[0]
			if res.Err != nil {
				m.footer.SetError(true)
			} else {
				m.table.SetRecords(res.Records)
				m.chart.SetFit(res.Fit)
			}
		}
		return m, nil

	case ErrorMsg:
		m.footer.SetError(true)
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case SysStatsMsg:
		m.footer.AddSample(sysmon.Stats{
			CPUPercent: msg.CPUPercent,
			MemPercent: msg.MemPercent,
			HeapBytes:  msg.HeapBytes,
			Goroutines: msg.Goroutines,
		})
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		if m.cancel != nil {
			m.cancel()
		}

		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel

		m.header.Reset()
		m.table.Reset()
		m.chart.Reset()
		m.footer.Reset()
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess

		return m, tea.Batch(
			tickCmd(),
			startPipelineCmd(m.ref, m.ctx, m.config, m.logger, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.table.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.table.View(), m.chart.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.table.SetSize(m.tableWidth(), m.bodyHeight())
	m.chart.SetSize(m.chartWidth(), m.bodyHeight())
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, cfg config.AppConfig, logger logging.Logger, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, cfg, logger, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startPipelineCmd returns a tea.Cmd that launches the pipeline run.
func startPipelineCmd(ref *programRef, ctx context.Context, cfg config.AppConfig, logger logging.Logger, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref}
		pipeline := orchestration.NewPipeline(cfg, logger)
		results := pipeline.Run(ctx, reporter, io.Discard)

		exitCode := apperrors.ExitSuccess
		for _, res := range results {
			if res.Err != nil {
				exitCode = apperrors.ExitCodeFor(res.Err)
				break
			}
		}
		return PipelineDoneMsg{Results: results, ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSysStatsCmd reads resource usage and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
			HeapBytes:  s.HeapBytes,
			Goroutines: s.Goroutines,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
