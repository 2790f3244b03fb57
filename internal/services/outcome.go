package services

import "strings"

// Status classifies the outcome of a pipeline stage.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusPartial   Status = "partial"
	StatusFatal     Status = "fatal"
)

// Diagnostic records one failure observed inside a stage that did not stop it.
type Diagnostic struct {
	Subject  string
	Message  string
	ExitCode int
	Err      error
}

// StageResult is the outcome of a single pipeline stage. Stages that log and
// continue report StatusPartial together with their diagnostics.
type StageResult struct {
	Stage       string
	Status      Status
	Diagnostics []Diagnostic
}

// NewStageResult returns a succeeded result for the named stage.
func NewStageResult(stage string) StageResult {
	return StageResult{Stage: stage, Status: StatusSucceeded}
}

// AddFailure appends a diagnostic and downgrades a succeeded stage to partial.
func (r *StageResult) AddFailure(subject, message string, err error) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Subject:  subject,
		Message:  strings.TrimSpace(message),
		ExitCode: ExitCode(err),
		Err:      err,
	})
	if r.Status == StatusSucceeded {
		r.Status = StatusPartial
	}
}

// Fail marks the stage fatal.
func (r *StageResult) Fail(subject, message string, err error) {
	r.AddFailure(subject, message, err)
	r.Status = StatusFatal
}

// OK reports whether the stage completed without diagnostics.
func (r StageResult) OK() bool {
	return r.Status == StatusSucceeded
}
