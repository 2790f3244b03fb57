package testsupport

import (
	"context"
	"sync"
)

// Call records one invocation seen by a RecordingExecutor.
type Call struct {
	Binary string
	Args   []string
}

// RecordingExecutor is a services.Executor stand-in. Each binary can be
// scripted with a handler; unscripted binaries succeed with empty output.
type RecordingExecutor struct {
	mu       sync.Mutex
	Handlers map[string]func(args []string) ([]byte, error)
	calls    []Call
}

// NewRecordingExecutor returns an executor with no scripted binaries.
func NewRecordingExecutor() *RecordingExecutor {
	return &RecordingExecutor{Handlers: make(map[string]func(args []string) ([]byte, error))}
}

// Handle scripts the response for binary.
func (e *RecordingExecutor) Handle(binary string, fn func(args []string) ([]byte, error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Handlers[binary] = fn
}

func (e *RecordingExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	e.mu.Lock()
	e.calls = append(e.calls, Call{Binary: binary, Args: append([]string(nil), args...)})
	handler := e.Handlers[binary]
	e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, nil
	}
	return handler(args)
}

// Calls returns a copy of the recorded invocations.
func (e *RecordingExecutor) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// CallsTo returns the recorded invocations of binary.
func (e *RecordingExecutor) CallsTo(binary string) []Call {
	var out []Call
	for _, call := range e.Calls() {
		if call.Binary == binary {
			out = append(out, call)
		}
	}
	return out
}
