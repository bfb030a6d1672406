package orchestration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/formatlab/sacfit/internal/accumulation"
	"github.com/formatlab/sacfit/internal/config"
	"github.com/formatlab/sacfit/internal/fit"
	"github.com/formatlab/sacfit/internal/logging"
	"github.com/formatlab/sacfit/internal/plot"
	"github.com/formatlab/sacfit/internal/registry"
	reportpkg "github.com/formatlab/sacfit/internal/report"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking pipeline
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// tracerName identifies this package's instrumentation scope.
const tracerName = "sacfit/orchestration"

// Pipeline processes registry files end to end: load, accumulate, fit, write.
type Pipeline struct {
	cfg    config.AppConfig
	logger logging.Logger
	tracer trace.Tracer
}

// NewPipeline creates a pipeline for the given configuration.
func NewPipeline(cfg config.AppConfig, logger logging.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// Run orchestrates the concurrent processing of all configured inputs.
//
// It manages the lifecycle of per-input goroutines, collects their results,
// and coordinates the display of progress updates. Concurrency is bounded by
// the configured worker count. Results are returned in input order; per-input
// failures are recorded in the result rather than aborting the whole run.
func (p *Pipeline) Run(ctx context.Context, progressReporter ProgressReporter, out io.Writer) []PipelineResult {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	results := make([]PipelineResult, len(p.cfg.Inputs))
	progressChan := make(chan ProgressUpdate, len(p.cfg.Inputs)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(p.cfg.Inputs), out)

	for i, input := range p.cfg.Inputs {
		idx, in := i, input
		g.Go(func() error {
			results[idx] = p.ProcessInput(ctx, idx, in, progressChan)
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// ProcessInput runs the full pipeline for one registry file. progressChan may
// be nil when no progress reporting is wanted.
func (p *Pipeline) ProcessInput(ctx context.Context, idx int, input string, progressChan chan<- ProgressUpdate) PipelineResult {
	ctx, span := p.tracer.Start(ctx, "pipeline.ProcessInput",
		trace.WithAttributes(attribute.String("input", input)),
	)
	defer span.End()

	start := time.Now()
	res := PipelineResult{Input: input}
	fail := func(err error) PipelineResult {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	report(progressChan, idx, input, StageLoad)
	sets, err := p.loadStage(ctx, input)
	if err != nil {
		return fail(err)
	}
	res.Summary = registry.Summarize(sets)

	report(progressChan, idx, input, StageCompute)
	res.Records, err = p.computeStage(ctx, sets)
	if err != nil {
		return fail(err)
	}

	report(progressChan, idx, input, StageFit)
	res.Fit, err = p.fitStage(ctx, res.Records)
	if err != nil {
		return fail(err)
	}

	report(progressChan, idx, input, StageWrite)
	res.Outputs, err = p.writeStage(ctx, input, res.Records, res.Fit)
	if err != nil {
		return fail(err)
	}

	report(progressChan, idx, input, StageDone)
	res.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("sources", len(res.Records)),
		attribute.Int("outputs", len(res.Outputs)),
	)
	p.logger.Info("input processed",
		logging.String("input", input),
		logging.Int("sources", len(res.Records)),
		logging.String("duration", res.Duration.String()),
	)
	return res
}

func (p *Pipeline) loadStage(ctx context.Context, input string) (registry.Sets, error) {
	_, span := p.tracer.Start(ctx, "pipeline.load")
	defer span.End()

	sets, err := registry.Load(input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("sources", len(sets)))
	return sets, nil
}

func (p *Pipeline) computeStage(ctx context.Context, sets registry.Sets) ([]accumulation.Record, error) {
	_, span := p.tracer.Start(ctx, "pipeline.compute")
	defer span.End()

	records, err := accumulation.Compute(sets)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return records, nil
}

func (p *Pipeline) fitStage(ctx context.Context, records []accumulation.Record) (*fit.Result, error) {
	_, span := p.tracer.Start(ctx, "pipeline.fit")
	defer span.End()

	xs, ys := accumulation.Totals(records)
	opts := []fit.Option{fit.WithSteps(p.cfg.FitSteps)}
	if p.cfg.FitMin > 0 && p.cfg.FitMax > 0 {
		opts = append(opts, fit.WithDomain(p.cfg.FitMin, p.cfg.FitMax))
	}
	res, err := fit.Fit(xs, ys, opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Float64("a", res.A),
		attribute.Float64("b", res.B),
	)
	return res, nil
}

// writeStage produces the CSV, optional JSON, and optional chart outputs for
// one input, returning the paths written.
func (p *Pipeline) writeStage(ctx context.Context, input string, records []accumulation.Record, res *fit.Result) ([]string, error) {
	_, span := p.tracer.Start(ctx, "pipeline.write")
	defer span.End()

	fail := func(err error) ([]string, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	csvPath := p.outputPath(reportpkg.CSVPath(input))
	if err := reportpkg.WriteRecordsFile(csvPath, records); err != nil {
		return fail(err)
	}
	outputs := []string{csvPath}

	if p.cfg.JSONOut {
		jsonPath := strings.TrimSuffix(csvPath, ".csv") + ".json"
		if err := reportpkg.WriteCurveFile(jsonPath, reportpkg.NewCurveJSON(records, res)); err != nil {
			return fail(err)
		}
		outputs = append(outputs, jsonPath)
	}

	if !p.cfg.NoPlot {
		written, err := plot.Save(records, res, reportpkg.PlotPrefix(csvPath), plot.DefaultOptions())
		if err != nil {
			return fail(err)
		}
		outputs = append(outputs, written...)
	}

	span.SetAttributes(attribute.Int("files", len(outputs)))
	return outputs, nil
}

// outputPath redirects an output file into the configured output directory,
// keeping only its base name. With no directory configured the path is
// returned unchanged so outputs land alongside the input.
func (p *Pipeline) outputPath(path string) string {
	if p.cfg.OutputDir == "" {
		return path
	}
	_ = os.MkdirAll(p.cfg.OutputDir, 0o755)
	return filepath.Join(p.cfg.OutputDir, filepath.Base(path))
}

// report sends a progress update without blocking pipeline goroutines when
// the channel is full or nil.
func report(ch chan<- ProgressUpdate, idx int, input string, stage Stage) {
	if ch == nil {
		return
	}
	select {
	case ch <- ProgressUpdate{InputIndex: idx, Input: input, Stage: stage}:
	default:
	}
}
