package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// RunOptions controls how a single operation is executed.
type RunOptions struct {
	// CaptureJSON parses stdout as JSON into Result.Parsed. Plain-text
	// output is returned as a trimmed string instead.
	CaptureJSON bool
	// IgnoreErrors turns a nonzero exit into an empty result and a warning.
	IgnoreErrors bool
	// Stream copies output to the runner's output writer while it runs.
	Stream bool
}

// Result holds the output of an operation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Parsed   any
}

// Text returns stdout with surrounding whitespace removed.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Stdout)
}

// Field returns a top-level string field of a parsed JSON object.
func (r *Result) Field(key string) string {
	if r == nil {
		return ""
	}
	obj, ok := r.Parsed.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj[key].(string)
	return s
}

// Decode unmarshals stdout into out.
func (r *Result) Decode(out any) error {
	if r == nil || strings.TrimSpace(r.Stdout) == "" {
		return errors.New("empty output")
	}
	if err := json.Unmarshal([]byte(r.Stdout), out); err != nil {
		return fmt.Errorf("failed to decode output: %w", err)
	}
	return nil
}

// Runner executes management-plane operations.
type Runner interface {
	Run(ctx context.Context, op Operation, opts RunOptions) (*Result, error)
}

// ExecFunc starts a program and waits for it. A nonzero exit is reported
// through exitCode with a nil error; err is set only when the program could
// not be run at all.
type ExecFunc func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (exitCode int, err error)

// CLIRunner runs operations as az and docker processes.
type CLIRunner struct {
	Adapter Adapter
	Exec    ExecFunc
	Log     logr.Logger
	// Out receives streamed output. Defaults to os.Stderr.
	Out io.Writer
}

// NewCLIRunner creates a runner using the az/docker adapter.
func NewCLIRunner(log logr.Logger) *CLIRunner {
	return &CLIRunner{
		Adapter: NewCLIAdapter(),
		Exec:    execCommand,
		Log:     log,
		Out:     os.Stderr,
	}
}

// Run implements Runner.
func (r *CLIRunner) Run(ctx context.Context, op Operation, opts RunOptions) (*Result, error) {
	name, args, err := r.Adapter.Command(op)
	if err != nil {
		return nil, err
	}
	r.Log.V(1).Info("running command", "operation", op.ID, "command", CommandLine(name, args))

	var stdout, stderr bytes.Buffer
	var outW, errW io.Writer = &stdout, &stderr
	if opts.Stream {
		out := r.Out
		if out == nil {
			out = os.Stderr
		}
		outW = io.MultiWriter(&stdout, out)
		errW = io.MultiWriter(&stderr, out)
	}

	run := r.Exec
	if run == nil {
		run = execCommand
	}

	start := time.Now()
	exitCode, runErr := run(ctx, name, args, outW, errW)
	elapsed := time.Since(start)

	if runErr != nil || exitCode != 0 {
		if runErr != nil {
			exitCode = -1
		}
		r.Log.V(1).Info("command stderr", "operation", op.ID, "exitCode", exitCode, "stderr", strings.TrimSpace(stderr.String()))
		if opts.IgnoreErrors {
			recordCall(op.ID, ResultIgnored, elapsed)
			r.Log.Info("WARNING: ignoring failed operation", "operation", op.ID, "exitCode", exitCode)
			return &Result{ExitCode: exitCode}, nil
		}
		recordCall(op.ID, ResultFailure, elapsed)
		return nil, &ExecutionError{
			Operation: op.ID,
			ExitCode:  exitCode,
			Stderr:    stderr.String(),
			Err:       runErr,
		}
	}
	recordCall(op.ID, ResultSuccess, elapsed)

	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
	if opts.CaptureJSON {
		res.Parsed = parseOutput(res.Stdout)
	}
	return res, nil
}

// parseOutput decodes JSON output, falling back to the trimmed raw text for
// operations that print a bare scalar.
func parseOutput(stdout string) any {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return trimmed
	}
	return v
}

func execCommand(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	// #nosec G204 - program and arguments come from the adapter, not a shell
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	return -1, err
}
