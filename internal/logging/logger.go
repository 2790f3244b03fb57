package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"comicwebp/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	Development bool
}

// New constructs a slog logger using the provided options. Log files it
// opens stay open for the life of the process; use Open to release them.
func New(opts Options) (*slog.Logger, error) {
	logger, _, err := Open(opts)
	return logger, err
}

// Open constructs a slog logger and returns a function closing the log files
// it opened.
func Open(opts Options) (*slog.Logger, func() error, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	paths := opts.OutputPaths
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}
	writer, closeFiles, err := openWriters(paths)
	if err != nil {
		return nil, nil, err
	}

	addSource := opts.Development || level <= slog.LevelDebug

	var handler slog.Handler
	if format == "json" {
		handler = newJSONHandler(writer, levelVar, addSource)
	} else {
		handler = newConsoleHandler(writer, levelVar, addSource)
	}
	return slog.New(handler), closeFiles, nil
}

// NewFromConfig creates a logger using application config defaults. Output
// goes to stderr so stdout stays free for command output. The returned
// function closes the log file, if any.
func NewFromConfig(cfg *config.Config) (*slog.Logger, func() error, error) {
	if cfg == nil {
		return Open(Options{Level: "info", Format: "console"})
	}

	outputPaths := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("ensure log directory: %w", err)
		}
		outputPaths = append(outputPaths, filepath.Join(cfg.Paths.LogDir, "comicwebp.log"))
	}

	return Open(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputPaths,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openWriters(paths []string) (io.Writer, func() error, error) {
	seen := map[string]struct{}{}
	var writers []io.Writer
	var files []*os.File
	closeFiles := func() error {
		var errs []error
		for _, file := range files {
			if err := file.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		files = nil
		return errors.Join(errs...)
	}

	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if dir := filepath.Dir(trimmed); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					_ = closeFiles()
					return nil, nil, fmt.Errorf("create log directory %s: %w", dir, err)
				}
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				_ = closeFiles()
				return nil, nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			files = append(files, file)
			writers = append(writers, file)
		}
	}

	switch len(writers) {
	case 0:
		return os.Stderr, closeFiles, nil
	case 1:
		return writers[0], closeFiles, nil
	default:
		return io.MultiWriter(writers...), closeFiles, nil
	}
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
