package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"comicwebp/internal/archive"
	"comicwebp/internal/config"
	"comicwebp/internal/convert"
	"comicwebp/internal/history"
	"comicwebp/internal/logging"
	"comicwebp/internal/packager"
	"comicwebp/internal/services"
	"comicwebp/internal/workspace"
)

const (
	StageWorkspace = "workspace"
	StageExtract   = "extract"
	StageConvert   = "convert"
	StagePackage   = "package"
	StageCleanup   = "cleanup"
)

// Recorder persists finished runs. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (int64, error)
}

// Pipeline converts comic archives to WebP-page zip archives.
type Pipeline struct {
	workspaces *workspace.Manager
	extractor  *archive.Extractor
	converter  *convert.Converter
	packager   *packager.Packager
	recorder   Recorder
	logger     *slog.Logger
	clock      func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithRecorder stores every finished run with r.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithClock overrides the time source used for report timestamps.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// New wires the stages from cfg. Every external tool runs through exec; a
// nil executor runs real processes.
func New(cfg *config.Config, exec services.Executor, logger *slog.Logger, opts ...Option) *Pipeline {
	if exec == nil {
		exec = services.CommandExecutor{}
	}
	detector := archive.NewDetector(cfg.Tools.MimeProbe, exec, logger)
	p := &Pipeline{
		workspaces: workspace.NewManager(cfg.WorkDir(), logger),
		extractor: archive.NewExtractor(archive.Tools{
			SevenZip: cfg.Tools.SevenZip,
			Unrar:    cfg.Tools.Unrar,
		}, detector, exec, logger),
		converter: convert.NewConverter(
			convert.Encoders{Still: cfg.Tools.Cwebp, Animated: cfg.Tools.Gif2webp},
			convert.Options{Quality: cfg.Conversion.Quality, StripApostrophes: cfg.Conversion.StripApostrophes},
			exec,
			logger,
		),
		packager: packager.New(cfg.Tools.SevenZip, packager.Options{RemoveSource: cfg.Output.RemoveSource}, exec, logger),
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run converts one archive. The returned report always carries the stage
// results observed; Report.Err is set only for failures that stopped the run.
func (p *Pipeline) Run(ctx context.Context, input string) (report Report) {
	report = Report{
		RunID:     uuid.NewString(),
		Input:     input,
		StartedAt: p.clock(),
	}
	ctx = services.WithRunID(ctx, report.RunID)
	ctx = services.WithArchive(ctx, filepath.Base(input))
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("run started", logging.String("input", input))

	defer func() {
		report.FinishedAt = p.clock()
		p.record(ctx, report)
		logger.Info("run finished",
			logging.String("status", string(report.Status())),
			logging.Int("converted", len(report.Converted)),
			logging.Int("failed", len(report.Failed)),
			logging.String("duration", report.Duration().Round(time.Millisecond).String()),
		)
	}()

	ws, err := p.workspaces.Create(services.WithStage(ctx, StageWorkspace), input)
	if err != nil {
		stage := services.NewStageResult(StageWorkspace)
		stage.Fail(p.workspaces.PathFor(input), "prepare workspace", err)
		report.add(stage)
		report.Err = err
		logger.Error("workspace unavailable", logging.Error(err))
		return report
	}
	report.Workspace = ws.Path
	defer p.cleanup(ctx, ws, &report)

	p.process(ctx, ws.Path, &report)
	return report
}

func (p *Pipeline) process(ctx context.Context, workspaceDir string, report *Report) {
	logger := logging.WithContext(ctx, p.logger)

	extracted, err := p.extractor.Extract(services.WithStage(ctx, StageExtract), workspaceDir, report.Input)
	report.add(extracted)
	if err != nil {
		report.Err = err
		logger.Error("extraction aborted", logging.Error(err))
		return
	}

	convertCtx := services.WithStage(ctx, StageConvert)
	entries, err := convert.ListEntries(workspaceDir)
	if err != nil {
		stage := services.NewStageResult(StageConvert)
		stage.Fail(workspaceDir, "list workspace", err)
		report.add(stage)
		report.Err = services.Wrap(services.ErrNotFound, StageConvert, "list workspace", workspaceDir, err)
		return
	}
	converted := p.converter.Convert(convertCtx, entries)
	report.add(converted.StageResult)
	report.Converted = converted.Converted
	report.Failed = converted.Failed
	if converted.Status == services.StatusFatal {
		report.Err = interrupted(ctx)
		return
	}

	packaged, stage := p.packager.Package(services.WithStage(ctx, StagePackage), workspaceDir, report.Input)
	report.add(stage)
	report.Output = packaged.Output
	report.Entries = packaged.Entries
	if stage.Status == services.StatusFatal {
		report.Err = interrupted(ctx)
	}
}

func (p *Pipeline) cleanup(ctx context.Context, ws *workspace.Workspace, report *Report) {
	stage := services.NewStageResult(StageCleanup)
	if err := p.workspaces.Destroy(ws); err != nil {
		stage.AddFailure(ws.Path, "remove workspace", err)
	} else {
		logging.WithContext(services.WithStage(ctx, StageCleanup), p.logger).Debug("workspace removed", logging.String("path", ws.Path))
	}
	report.add(stage)
}

func (p *Pipeline) record(ctx context.Context, report Report) {
	if p.recorder == nil {
		return
	}
	run := history.Run{
		RunID:      report.RunID,
		Input:      report.Input,
		Output:     report.Output,
		Status:     string(report.Status()),
		Converted:  len(report.Converted),
		Failed:     len(report.Failed),
		Entries:    len(report.Entries),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}
	if report.Err != nil {
		run.Error = report.Err.Error()
	}
	// Recording must outlive an interrupted run.
	if _, err := p.recorder.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.WithContext(ctx, p.logger).Warn("run history not recorded", logging.Error(err))
	}
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.New("run interrupted")
}
