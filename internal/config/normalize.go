package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.WorkRoot = strings.TrimSpace(c.Paths.WorkRoot)
	if c.Paths.WorkRoot == "" {
		if value, ok := os.LookupEnv(workRootEnv); ok && strings.TrimSpace(value) != "" {
			c.Paths.WorkRoot = strings.TrimSpace(value)
		} else {
			c.Paths.WorkRoot = defaultWorkRoot()
		}
	}
	if c.Paths.WorkRoot, err = expandPath(c.Paths.WorkRoot); err != nil {
		return fmt.Errorf("paths.work_root: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryPath) == "" {
		c.Paths.HistoryPath = defaultHistoryPath
	}
	if c.Paths.HistoryPath, err = expandPath(c.Paths.HistoryPath); err != nil {
		return fmt.Errorf("paths.history_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.MimeProbe = orDefault(c.Tools.MimeProbe, defaultMimeProbe)
	c.Tools.SevenZip = orDefault(c.Tools.SevenZip, defaultSevenZip)
	c.Tools.Unrar = orDefault(c.Tools.Unrar, defaultUnrar)
	c.Tools.Cwebp = orDefault(c.Tools.Cwebp, defaultCwebp)
	c.Tools.Gif2webp = orDefault(c.Tools.Gif2webp, defaultGif2webp)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
