package azure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// HandlerFunc answers a single operation in a MockRunner.
type HandlerFunc func(ctx context.Context, op Operation) (*Result, error)

// MockRunner is a Runner for tests. Operations without a handler succeed
// with empty output. Every call is recorded.
type MockRunner struct {
	mu       sync.Mutex
	handlers map[OperationID]HandlerFunc
	calls    []Operation
}

// NewMockRunner creates an empty mock.
func NewMockRunner() *MockRunner {
	return &MockRunner{handlers: make(map[OperationID]HandlerFunc)}
}

// On registers fn for id, replacing any earlier handler.
func (m *MockRunner) On(id OperationID, fn HandlerFunc) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handlers == nil {
		m.handlers = make(map[OperationID]HandlerFunc)
	}
	m.handlers[id] = fn
	return m
}

// Returns registers a fixed result for id.
func (m *MockRunner) Returns(id OperationID, res *Result) *MockRunner {
	return m.On(id, func(context.Context, Operation) (*Result, error) { return res, nil })
}

// Fails registers a fixed failure for id.
func (m *MockRunner) Fails(id OperationID, stderr string) *MockRunner {
	return m.On(id, func(context.Context, Operation) (*Result, error) {
		return nil, &ExecutionError{Operation: id, ExitCode: 1, Stderr: stderr}
	})
}

// Run implements Runner. A failing handler is downgraded to an empty result
// when opts.IgnoreErrors is set, as CLIRunner does.
func (m *MockRunner) Run(ctx context.Context, op Operation, opts RunOptions) (*Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, op)
	fn := m.handlers[op.ID]
	m.mu.Unlock()

	if fn == nil {
		return &Result{}, nil
	}
	res, err := fn(ctx, op)
	if err != nil {
		if opts.IgnoreErrors {
			code := 1
			var execErr *ExecutionError
			if errors.As(err, &execErr) {
				code = execErr.ExitCode
			}
			return &Result{ExitCode: code}, nil
		}
		return nil, err
	}
	if res == nil {
		res = &Result{}
	}
	cp := *res
	res = &cp
	if opts.CaptureJSON && res.Parsed == nil {
		res.Parsed = parseOutput(res.Stdout)
	}
	return res, nil
}

// Calls returns every operation run so far, in order.
func (m *MockRunner) Calls() []Operation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Operation, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns the recorded operations with the given id.
func (m *MockRunner) CallsFor(id OperationID) []Operation {
	var out []Operation
	for _, op := range m.Calls() {
		if op.ID == id {
			out = append(out, op)
		}
	}
	return out
}

// CallCount returns how many times id was run.
func (m *MockRunner) CallCount(id OperationID) int {
	return len(m.CallsFor(id))
}

// IDs returns the ids of every recorded call, in order.
func (m *MockRunner) IDs() []OperationID {
	calls := m.Calls()
	out := make([]OperationID, len(calls))
	for i, op := range calls {
		out[i] = op.ID
	}
	return out
}

// TextResult builds a result whose stdout is s followed by a newline.
func TextResult(s string) *Result {
	return &Result{Stdout: s + "\n"}
}

// JSONResult builds a result whose stdout is v encoded as JSON.
func JSONResult(v any) *Result {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return &Result{Stdout: string(data)}
}
