package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"comicwebp/internal/logging"
	"comicwebp/internal/services"
)

const stageConvert = "convert"

// Encoders names the WebP encoder executables.
type Encoders struct {
	Still    string
	Animated string
}

// Options tunes conversion.
type Options struct {
	Quality          int
	StripApostrophes bool
}

// Result lists what a conversion pass produced.
type Result struct {
	services.StageResult
	Converted []string
	Failed    []string
}

// Converter encodes workspace images to WebP, one external process per file.
type Converter struct {
	encoders Encoders
	opts     Options
	exec     services.Executor
	logger   *slog.Logger
}

// NewConverter constructs a Converter. A nil executor runs real processes.
func NewConverter(encoders Encoders, opts Options, exec services.Executor, logger *slog.Logger) *Converter {
	if strings.TrimSpace(encoders.Still) == "" {
		encoders.Still = "cwebp"
	}
	if strings.TrimSpace(encoders.Animated) == "" {
		encoders.Animated = "gif2webp"
	}
	if exec == nil {
		exec = services.CommandExecutor{}
	}
	return &Converter{
		encoders: encoders,
		opts:     opts,
		exec:     exec,
		logger:   logging.NewComponentLogger(logger, stageConvert),
	}
}

// Convert encodes every image entry. A failing file is logged and skipped;
// the pass continues with the next entry. Only context cancellation stops it
// early.
func (c *Converter) Convert(ctx context.Context, entries []Entry) Result {
	logger := logging.WithContext(ctx, c.logger)
	result := Result{StageResult: services.NewStageResult(stageConvert)}
	logger.Info("starting conversion")

	for _, entry := range entries {
		if entry.Kind != KindImage {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Fail(entry.Path, "conversion interrupted", err)
			return result
		}

		src := entry.Path
		logger.Info("conversion started", logging.String(logging.FieldFile, filepath.Base(src)))
		if c.opts.StripApostrophes && strings.Contains(filepath.Base(src), "'") {
			renamed := sanitizedPath(src)
			if _, err := os.Lstat(renamed); err == nil {
				// Renaming would replace another page.
				logger.Warn("rename target exists, keeping original name",
					logging.String(logging.FieldFile, filepath.Base(src)),
					logging.String("target", filepath.Base(renamed)),
				)
			} else if err := os.Rename(src, renamed); err != nil {
				logger.Error("rename failed", logging.String(logging.FieldFile, src), logging.Error(err))
				result.AddFailure(src, "rename before conversion", err)
				result.Failed = append(result.Failed, src)
				continue
			} else {
				src = renamed
			}
		}

		dst := OutputPath(src)
		binary, args := c.command(src, dst)
		logger.Debug("encoder command", logging.String("binary", binary), logging.String("args", strings.Join(args, " ")))
		if _, err := c.exec.Run(ctx, binary, args); err != nil {
			logger.Error("error in conversion process",
				logging.String(logging.FieldFile, filepath.Base(src)),
				logging.Int(logging.FieldExitCode, services.ExitCode(err)),
				logging.Error(err),
			)
			result.AddFailure(src, fmt.Sprintf("%s failed", binary), err)
			result.Failed = append(result.Failed, src)
			continue
		}
		result.Converted = append(result.Converted, dst)
	}
	return result
}

func (c *Converter) command(src, dst string) (string, []string) {
	binary := c.encoders.Still
	if strings.EqualFold(filepath.Ext(src), ".gif") {
		binary = c.encoders.Animated
	}
	return binary, []string{"-quiet", "-q", strconv.Itoa(c.opts.Quality), src, "-o", dst}
}
