package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"comicwebp/internal/logging"
	"comicwebp/internal/services"
)

// ErrUnknownFormat marks an archive whose container family could not be
// identified. It aborts the run.
var ErrUnknownFormat = errors.New("archive format not recognized")

const stageExtract = "extract"

// Tools names the extraction executables.
type Tools struct {
	SevenZip string
	Unrar    string
}

// Extractor unpacks archives flat into a workspace.
type Extractor struct {
	tools    Tools
	detector *Detector
	exec     services.Executor
	logger   *slog.Logger
}

// NewExtractor constructs an Extractor. A nil executor runs real processes.
func NewExtractor(tools Tools, detector *Detector, exec services.Executor, logger *slog.Logger) *Extractor {
	if strings.TrimSpace(tools.SevenZip) == "" {
		tools.SevenZip = "7z"
	}
	if strings.TrimSpace(tools.Unrar) == "" {
		tools.Unrar = "unrar"
	}
	if exec == nil {
		exec = services.CommandExecutor{}
	}
	return &Extractor{
		tools:    tools,
		detector: detector,
		exec:     exec,
		logger:   logging.NewComponentLogger(logger, stageExtract),
	}
}

// Extract identifies archivePath and unpacks it into workspaceDir.
//
// An unrecognized format returns ErrUnknownFormat and nothing is extracted. A
// failing extraction tool is only recorded in the stage result; the caller
// carries on with whatever the workspace holds.
func (e *Extractor) Extract(ctx context.Context, workspaceDir, archivePath string) (services.StageResult, error) {
	logger := logging.WithContext(ctx, e.logger)
	result := services.NewStageResult(stageExtract)

	archiveAbs, err := filepath.Abs(archivePath)
	if err != nil {
		result.Fail(archivePath, "resolve archive path", err)
		return result, services.Wrap(services.ErrValidation, stageExtract, "resolve", archivePath, err)
	}
	workspaceAbs, err := filepath.Abs(workspaceDir)
	if err != nil {
		result.Fail(workspaceDir, "resolve workspace path", err)
		return result, services.Wrap(services.ErrValidation, stageExtract, "resolve", workspaceDir, err)
	}

	detection := e.detector.Detect(ctx, archiveAbs)
	logger.Info("extracting", logging.String("from", archiveAbs), logging.String("to", workspaceAbs), logging.String("format", string(detection.Format)))

	binary, args, err := e.command(detection, archiveAbs, workspaceAbs)
	if err != nil {
		result.Fail(archiveAbs, err.Error(), detection.ProbeErr)
		return result, err
	}

	if _, err := e.exec.Run(ctx, binary, args); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.Fail(archiveAbs, "extraction interrupted", ctxErr)
			return result, ctxErr
		}
		logger.Error("extraction error",
			logging.String(logging.FieldFile, archiveAbs),
			logging.Int(logging.FieldExitCode, services.ExitCode(err)),
			logging.Error(err),
		)
		result.AddFailure(archiveAbs, "extraction tool failed", err)
	}
	return result, nil
}

func (e *Extractor) command(detection Detection, archivePath, workspaceDir string) (string, []string, error) {
	switch detection.Format {
	case FormatZip:
		return e.tools.SevenZip, []string{"e", "-y", "-o" + workspaceDir, "--", archivePath}, nil
	case FormatRar:
		return e.tools.Unrar, []string{"e", "-y", "--", archivePath, workspaceDir + string(filepath.Separator)}, nil
	}
	mime := detection.MIME
	if detection.ProbeErr != nil {
		return "", nil, fmt.Errorf("%w: %w: %s: mime probe failed: %w", services.ErrValidation, ErrUnknownFormat, archivePath, detection.ProbeErr)
	}
	return "", nil, fmt.Errorf("%w: %w: %s: mime type %q", services.ErrValidation, ErrUnknownFormat, archivePath, mime)
}
