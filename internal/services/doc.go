// Package services defines shared utilities consumed by the pipeline stages and
// their external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and archive paths for
//     logging.
//   - Structured error markers plus the Wrap helper so callers can tell fatal
//     failures from best-effort ones.
//   - The Executor abstraction that makes external tool invocation testable,
//     and the StageResult type each stage reports.
package services
