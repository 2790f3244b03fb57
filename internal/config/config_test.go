package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"comicwebp/internal/config"
)

func TestLoadDefaultConfigUsesTempWorkRoot(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("C2W_PATH", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantRoot := filepath.Join(os.TempDir(), "comicwebp")
	if cfg.Paths.WorkRoot != wantRoot {
		t.Fatalf("unexpected work root: got %q want %q", cfg.Paths.WorkRoot, wantRoot)
	}
	if cfg.WorkDir() != filepath.Join(wantRoot, "work") {
		t.Fatalf("unexpected work dir: %q", cfg.WorkDir())
	}
	wantHistory := filepath.Join(tempHome, ".local", "share", "comicwebp", "history.db")
	if cfg.Paths.HistoryPath != wantHistory {
		t.Fatalf("unexpected history path: got %q want %q", cfg.Paths.HistoryPath, wantHistory)
	}
	if cfg.Conversion.Quality != 80 {
		t.Fatalf("expected quality 80, got %d", cfg.Conversion.Quality)
	}
	if !cfg.Conversion.StripApostrophes {
		t.Fatal("expected apostrophe stripping enabled by default")
	}
	if cfg.Output.RemoveSource {
		t.Fatal("expected remove_source disabled by default")
	}
	if cfg.Tools.Cwebp != "cwebp" || cfg.Tools.Gif2webp != "gif2webp" || cfg.Tools.MimeProbe != "file" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadHonoursWorkRootEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	t.Setenv("C2W_PATH", root)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.WorkRoot != root {
		t.Fatalf("expected work root from env, got %q", cfg.Paths.WorkRoot)
	}
}

func TestLoadCustomConfigOverridesEnv(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("C2W_PATH", "/should/not/be/used")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `[paths]
work_root = "~/cache/comicwebp"
log_dir = "~/logs"

[tools]
seven_zip = "7zz"

[conversion]
quality = 65

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.WorkRoot != filepath.Join(tempHome, "cache", "comicwebp") {
		t.Fatalf("unexpected work root %q", cfg.Paths.WorkRoot)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "logs") {
		t.Fatalf("unexpected log dir %q", cfg.Paths.LogDir)
	}
	if cfg.Tools.SevenZip != "7zz" || cfg.Tools.Unrar != "unrar" {
		t.Fatalf("unexpected tools %+v", cfg.Tools)
	}
	if cfg.Conversion.Quality != 65 {
		t.Fatalf("unexpected quality %d", cfg.Conversion.Quality)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "quality too high",
			mutate: func(c *config.Config) { c.Conversion.Quality = 101 },
			want:   "conversion.quality",
		},
		{
			name:   "quality negative",
			mutate: func(c *config.Config) { c.Conversion.Quality = -1 },
			want:   "conversion.quality",
		},
		{
			name:   "missing work root",
			mutate: func(c *config.Config) { c.Paths.WorkRoot = "" },
			want:   "paths.work_root",
		},
		{
			name:   "unknown level",
			mutate: func(c *config.Config) { c.Logging.Level = "verbose" },
			want:   "logging.level",
		},
		{
			name:   "unknown format",
			mutate: func(c *config.Config) { c.Logging.Format = "xml" },
			want:   "logging.format",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.WorkRoot = t.TempDir()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[conversion]\nqualty = 70\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nformat = \"logfmt\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestEnsureDirectoriesCreatesWorkDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkRoot = filepath.Join(t.TempDir(), "root")
	cfg.Paths.HistoryPath = filepath.Join(t.TempDir(), "db", "history.db")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	if info, err := os.Stat(cfg.WorkDir()); err != nil || !info.IsDir() {
		t.Fatalf("expected work dir, err=%v", err)
	}
	if _, err := os.Stat(filepath.Dir(cfg.Paths.HistoryPath)); err != nil {
		t.Fatalf("expected history dir: %v", err)
	}
}

func TestSampleConfigParses(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Conversion.Quality != 80 {
		t.Fatalf("expected sample quality 80, got %d", cfg.Conversion.Quality)
	}
	if _, _, _, err := config.Load(target); err != nil {
		t.Fatalf("Load(sample) returned error: %v", err)
	}
}
