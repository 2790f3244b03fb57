package packager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mholt/archives"

	"comicwebp/internal/logging"
	"comicwebp/internal/services"
)

const (
	stagePackage = "package"
	dirMode      = 0o775
)

// packagedPatterns selects the workspace files carried into the output.
var packagedPatterns = []string{"*.webp", "*.xml"}

// Options tunes packaging.
type Options struct {
	// RemoveSource deletes the input archive once there are pages to package.
	RemoveSource bool
}

// Result describes the produced archive. Output stays empty unless the
// archive tool succeeded.
type Result struct {
	Output  string
	Files   []string
	Entries []string
}

// Packager writes the output archive with 7z.
type Packager struct {
	sevenZip string
	opts     Options
	exec     services.Executor
	logger   *slog.Logger
}

// New constructs a Packager. A nil executor runs real processes.
func New(sevenZip string, opts Options, exec services.Executor, logger *slog.Logger) *Packager {
	if strings.TrimSpace(sevenZip) == "" {
		sevenZip = "7z"
	}
	if exec == nil {
		exec = services.CommandExecutor{}
	}
	return &Packager{
		sevenZip: sevenZip,
		opts:     opts,
		exec:     exec,
		logger:   logging.NewComponentLogger(logger, stagePackage),
	}
}

// OutputPath returns the archive path produced for inputPath: the input with
// its last character replaced by "z". "book.cbr" becomes "book.cbz" and
// "book.cbz" maps onto itself.
func OutputPath(inputPath string) string {
	if inputPath == "" {
		return "z"
	}
	return inputPath[:len(inputPath)-1] + "z"
}

// Package bundles the WebP pages and XML metadata found directly in
// workspaceDir into the output archive for inputPath. Failures are recorded
// in the returned stage result and never abort the caller.
func (p *Packager) Package(ctx context.Context, workspaceDir, inputPath string) (Result, services.StageResult) {
	logger := logging.WithContext(ctx, p.logger)
	stage := services.NewStageResult(stagePackage)
	var result Result

	output, err := filepath.Abs(OutputPath(inputPath))
	if err != nil {
		stage.AddFailure(OutputPath(inputPath), "resolve output path", err)
		return result, stage
	}

	if err := os.MkdirAll(filepath.Dir(output), dirMode); err != nil {
		logger.Error("create output directory failed", logging.String("path", filepath.Dir(output)), logging.Error(err))
		stage.AddFailure(output, "create output directory", err)
		return result, stage
	}

	files, err := collect(workspaceDir)
	if err != nil {
		logger.Error("list workspace failed", logging.String("workspace", workspaceDir), logging.Error(err))
		stage.AddFailure(workspaceDir, "list workspace", err)
		return result, stage
	}
	result.Files = files
	if !hasPages(files) {
		// The input may be the output path; leave it in place.
		logger.Warn("nothing to package, keeping existing files",
			logging.String("workspace", workspaceDir),
			logging.String("input", inputPath),
		)
		stage.AddFailure(workspaceDir, "no webp pages to package", nil)
		return result, stage
	}

	if err := p.clearTarget(logger, inputPath, output); err != nil {
		stage.AddFailure(output, "remove existing archive", err)
		return result, stage
	}

	logger.Info("packaging", logging.String("output", output), logging.Int("files", len(files)))
	args := append([]string{"a", "-tzip", "-y", "--", output}, files...)
	if _, err := p.exec.Run(ctx, p.sevenZip, args); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			stage.Fail(output, "packaging interrupted", ctxErr)
			return result, stage
		}
		logger.Error("error in creation of archive",
			logging.String("output", output),
			logging.Int(logging.FieldExitCode, services.ExitCode(err)),
			logging.Error(err),
		)
		stage.AddFailure(output, "archive tool failed", err)
		return result, stage
	}
	result.Output = output

	entries, err := ListEntries(ctx, output)
	if err != nil {
		logger.Warn("unable to read packaged archive", logging.String("output", output), logging.Error(err))
		stage.AddFailure(output, "read packaged archive", err)
		return result, stage
	}
	result.Entries = entries
	logger.Info("archive created", logging.String("output", output), logging.Int("entries", len(entries)))
	return result, stage
}

// clearTarget removes the file 7z would otherwise append to. With
// RemoveSource the input archive is deleted as well.
func (p *Packager) clearTarget(logger *slog.Logger, inputPath, output string) error {
	targets := []string{output}
	if p.opts.RemoveSource {
		if abs, err := filepath.Abs(inputPath); err == nil && abs != output {
			targets = append(targets, abs)
		}
	}
	for _, target := range targets {
		err := os.Remove(target)
		if err == nil {
			logger.Info("removed existing file", logging.String("path", target))
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Error("remove existing file failed", logging.String("path", target), logging.Error(err))
			return err
		}
	}
	return nil
}

func hasPages(files []string) bool {
	for _, file := range files {
		if strings.EqualFold(filepath.Ext(file), ".webp") {
			return true
		}
	}
	return false
}

func collect(workspaceDir string) ([]string, error) {
	var files []string
	for _, pattern := range packagedPatterns {
		matches, err := filepath.Glob(filepath.Join(workspaceDir, pattern))
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}
			if info.Mode().IsRegular() {
				files = append(files, match)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// ListEntries opens the archive at path and returns the names of its file
// entries in archive order.
func ListEntries(ctx context.Context, path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	format, reader, err := archives.Identify(ctx, filepath.Base(path), file)
	if err != nil {
		return nil, fmt.Errorf("identify archive: %w", err)
	}
	extractor, ok := format.(archives.Extraction)
	if !ok {
		return nil, fmt.Errorf("%s is not an extractable archive", strings.TrimPrefix(format.Extension(), "."))
	}

	var names []string
	err = extractor.Extract(ctx, reader, func(ctx context.Context, f archives.FileInfo) error {
		if f.IsDir() {
			return nil
		}
		names = append(names, f.NameInArchive)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read archive entries: %w", err)
	}
	return names, nil
}
