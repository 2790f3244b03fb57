// Package logging assembles structured slog loggers used across comicwebp.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code tags log lines
// with the run ID, stage, and archive path. Components receive a
// *slog.Logger explicitly; NewNop serves tests and wiring that cannot fail.
package logging
