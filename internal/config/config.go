package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkRoot    string `toml:"work_root"`
	LogDir      string `toml:"log_dir"`
	HistoryPath string `toml:"history_path"`
}

// Tools names the external executables invoked by the pipeline.
type Tools struct {
	MimeProbe string `toml:"mime_probe"`
	SevenZip  string `toml:"seven_zip"`
	Unrar     string `toml:"unrar"`
	Cwebp     string `toml:"cwebp"`
	Gif2webp  string `toml:"gif2webp"`
}

// Conversion contains image encoding settings.
type Conversion struct {
	Quality int `toml:"quality"`
	// StripApostrophes renames source images containing an apostrophe before
	// encoding so the converted page names match earlier releases.
	StripApostrophes bool `toml:"strip_apostrophes"`
}

// Output contains settings for the produced archive.
type Output struct {
	// RemoveSource deletes the input archive before packaging, which is how
	// .cbr inputs were replaced by their .cbz counterpart historically.
	RemoveSource bool `toml:"remove_source"`
}

// History contains configuration for the run history store.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for comicwebp.
//
// Configuration sections by subsystem:
//   - Paths: workspace root, log directory, history database
//   - Tools: external executables (MIME probe, archivers, encoders)
//   - Conversion: WebP quality and file name handling
//   - Output: produced archive handling
//   - History: SQLite run history
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Tools      Tools      `toml:"tools"`
	Conversion Conversion `toml:"conversion"`
	Output     Output     `toml:"output"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("comicwebp.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the workspace root and, when configured, the log
// directory and history database directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Join(c.Paths.WorkRoot, "work")}
	if c.Paths.LogDir != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	if c.History.Enabled && c.Paths.HistoryPath != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryPath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o775); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WorkDir returns the directory that holds per-run workspaces.
func (c *Config) WorkDir() string {
	return filepath.Join(c.Paths.WorkRoot, "work")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
