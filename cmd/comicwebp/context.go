package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"comicwebp/internal/config"
	"comicwebp/internal/history"
	"comicwebp/internal/logging"
	"comicwebp/internal/services"
)

type commandContext struct {
	configFlag *string
	executor   services.Executor

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
	closeLogs  func() error
}

type contextOption func(*commandContext)

// withExecutor replaces the process executor used by the pipeline.
func withExecutor(exec services.Executor) contextOption {
	return func(c *commandContext) { c.executor = exec }
}

func newCommandContext(configFlag *string, opts ...contextOption) *commandContext {
	c := &commandContext{configFlag: configFlag}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.closeLogs, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// close releases the log files opened by ensureLogger.
func (c *commandContext) close() error {
	if c.closeLogs == nil {
		return nil
	}
	return c.closeLogs()
}

// openHistory opens the run history store. A nil store with a nil error
// means history is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg)
	if errors.Is(err, history.ErrDisabled) {
		return nil, nil
	}
	return store, err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
