package pipeline

import (
	"time"

	"comicwebp/internal/services"
)

// Report summarizes one run.
type Report struct {
	RunID      string
	Input      string
	Output     string
	Workspace  string
	Stages     []services.StageResult
	Converted  []string
	Failed     []string
	Entries    []string
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Status folds the run error and stage results into an overall outcome. A
// run error or fatal stage wins, then any partial stage.
func (r Report) Status() services.Status {
	if r.Err != nil {
		return services.FailureStatus(r.Err)
	}
	status := services.StatusSucceeded
	for _, stage := range r.Stages {
		switch stage.Status {
		case services.StatusFatal:
			return services.StatusFatal
		case services.StatusPartial:
			status = services.StatusPartial
		}
	}
	return status
}

// Stage returns the result recorded for name, if that stage ran.
func (r Report) Stage(name string) (services.StageResult, bool) {
	for _, stage := range r.Stages {
		if stage.Stage == name {
			return stage, true
		}
	}
	return services.StageResult{}, false
}

// Duration reports the wall time of the run.
func (r Report) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) add(stage services.StageResult) {
	r.Stages = append(r.Stages, stage)
}
