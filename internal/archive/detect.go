package archive

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"comicwebp/internal/logging"
	"comicwebp/internal/services"
)

// Format is the container family of a comic archive.
type Format string

const (
	FormatZip     Format = "zip"
	FormatRar     Format = "rar"
	FormatUnknown Format = "unknown"
)

var rarMIMETypes = map[string]struct{}{
	"application/vnd.rar":          {},
	"application/x-rar-compressed": {},
	"application/x-rar":            {},
	"application/rar":              {},
	"application/x-x-rar":          {},
}

var zipMIMETypes = map[string]struct{}{
	"application/zip":              {},
	"application/x-zip-compressed": {},
	"multipart/x-zip":              {},
}

// Classify maps a MIME type reported by the probe to a container family.
// Matching is exact; anything outside the allow-lists is FormatUnknown.
func Classify(mime string) Format {
	if _, ok := rarMIMETypes[mime]; ok {
		return FormatRar
	}
	if _, ok := zipMIMETypes[mime]; ok {
		return FormatZip
	}
	return FormatUnknown
}

// Detection is the outcome of probing an archive.
type Detection struct {
	Format Format
	MIME   string
	// ProbeErr is set when the MIME probe itself failed; Format is then
	// FormatUnknown.
	ProbeErr error
}

// Detector runs the external MIME probe (file -b --mime-type).
type Detector struct {
	binary string
	exec   services.Executor
	logger *slog.Logger
}

// NewDetector constructs a Detector. A nil executor runs real processes.
func NewDetector(binary string, exec services.Executor, logger *slog.Logger) *Detector {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "file"
	}
	if exec == nil {
		exec = services.CommandExecutor{}
	}
	return &Detector{binary: binary, exec: exec, logger: logging.NewComponentLogger(logger, "detect")}
}

// Detect probes path. A failing probe is logged and reported through
// Detection.ProbeErr rather than returned, leaving the decision to the caller.
func (d *Detector) Detect(ctx context.Context, path string) Detection {
	logger := logging.WithContext(ctx, d.logger)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	output, err := d.exec.Run(ctx, d.binary, []string{"-b", "--mime-type", "--", path})
	if err != nil {
		logger.Error("mime probe failed",
			logging.String(logging.FieldFile, path),
			logging.Int(logging.FieldExitCode, services.ExitCode(err)),
			logging.Error(err),
		)
		return Detection{Format: FormatUnknown, ProbeErr: err}
	}
	mime := strings.TrimSpace(string(output))
	logger.Debug("mime type detected", logging.String("mime", mime))
	return Detection{Format: Classify(mime), MIME: mime}
}
