package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// TimeoutMessage is shown instead of partial output when a command runs too long.
const TimeoutMessage = "Error: Command timed out."

const (
	defaultShell          = "/bin/sh"
	defaultCommandTimeout = 300 * time.Second
	defaultScriptTimeout  = 30 * time.Second
	// waitDelay bounds how long Wait keeps reading pipes after the process
	// exited or was killed; grandchildren may hold them open.
	waitDelay = 2 * time.Second
)

// Kind selects how a target is started.
type Kind int

const (
	// KindRaw runs an opaque command line through the shell.
	KindRaw Kind = iota
	// KindBreadcrumb runs the default script with the breadcrumb as arguments.
	KindBreadcrumb
)

// Target is what a leaf selection asks to run.
type Target struct {
	Kind    Kind
	Command string
	Path    []string
}

// Raw returns a target that runs command through the shell.
func Raw(command string) Target {
	return Target{Kind: KindRaw, Command: command}
}

// Breadcrumb returns a target that runs the default script with path as its
// positional arguments. No shell is involved.
func Breadcrumb(path []string) Target {
	dup := make([]string, len(path))
	copy(dup, path)
	return Target{Kind: KindBreadcrumb, Path: dup}
}

// Text is a human readable form of the target, used for titles and file names.
func (t Target) Text() string {
	if t.Kind == KindRaw {
		return t.Command
	}
	return strings.Join(t.Path, " ")
}

// Status tags an Outcome.
type Status int

const (
	StatusSuccess Status = iota
	StatusTimedOut
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusTimedOut:
		return "timed out"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one execution.
type Outcome struct {
	Status Status
	// Output holds the combined stdout/stderr of a successful run.
	Output string
	// Message explains a TimedOut or Failed outcome.
	Message  string
	ExitCode int
	Duration time.Duration
}

// Text is what the output view shows for the outcome.
func (o Outcome) Text() string {
	if o.Status == StatusSuccess {
		return o.Output
	}
	return o.Message
}

// Options configure an Executor. Zero values use the defaults.
type Options struct {
	Shell          string
	ScriptPath     string
	Dir            string
	CommandTimeout time.Duration
	ScriptTimeout  time.Duration
	Logger         *slog.Logger
}

// Executor runs one command at a time and reports a structured outcome.
type Executor struct {
	shell          string
	scriptPath     string
	dir            string
	commandTimeout time.Duration
	scriptTimeout  time.Duration
	logger         *slog.Logger
}

// New builds an Executor from opts.
func New(opts Options) *Executor {
	e := &Executor{
		shell:          strings.TrimSpace(opts.Shell),
		scriptPath:     strings.TrimSpace(opts.ScriptPath),
		dir:            opts.Dir,
		commandTimeout: opts.CommandTimeout,
		scriptTimeout:  opts.ScriptTimeout,
		logger:         opts.Logger,
	}
	if e.shell == "" {
		e.shell = defaultShell
	}
	if e.commandTimeout <= 0 {
		e.commandTimeout = defaultCommandTimeout
	}
	if e.scriptTimeout <= 0 {
		e.scriptTimeout = defaultScriptTimeout
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Timeout reports the limit that applies to target.
func (e *Executor) Timeout(target Target) time.Duration {
	if target.Kind == KindBreadcrumb {
		return e.scriptTimeout
	}
	return e.commandTimeout
}

// Execute runs target and blocks until it exits, times out, or ctx is cancelled.
// On timeout or cancellation the whole process group is killed before Execute
// returns.
func (e *Executor) Execute(ctx context.Context, target Target) Outcome {
	name, args, err := e.argv(target)
	if err != nil {
		return Outcome{Status: StatusFailed, Message: fmt.Sprintf("Error executing command: %v", err)}
	}

	timeout := e.Timeout(target)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = e.dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = waitDelay
	isolate(cmd)

	logger := e.logger.With("target", target.Text(), "timeout", timeout)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		logger.Warn("command failed to start", "error", err)
		return Outcome{
			Status:   StatusFailed,
			Message:  fmt.Sprintf("Error executing command: %v", err),
			Duration: time.Since(start),
		}
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	switch {
	case waitErr != nil && ctx.Err() != nil:
		logger.Info("command cancelled", "elapsed", elapsed)
		return Outcome{Status: StatusFailed, Message: "Error: command cancelled.", Duration: elapsed}
	case waitErr != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		logger.Warn("command timed out", "elapsed", elapsed)
		return Outcome{Status: StatusTimedOut, Message: TimeoutMessage, Duration: elapsed}
	}

	result := Outcome{Status: StatusSuccess, Output: output.String(), Duration: elapsed}
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.As(waitErr, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case errors.Is(waitErr, exec.ErrWaitDelay):
		// The process exited but something it spawned kept the pipes open.
	default:
		logger.Warn("command wait failed", "error", waitErr)
		return Outcome{Status: StatusFailed, Message: fmt.Sprintf("Error executing command: %v", waitErr), Duration: elapsed}
	}
	logger.Info("command finished", "exit", result.ExitCode, "elapsed", elapsed, "bytes", output.Len())
	return result
}

func (e *Executor) argv(target Target) (string, []string, error) {
	switch target.Kind {
	case KindRaw:
		if strings.TrimSpace(target.Command) == "" {
			return "", nil, errors.New("empty command")
		}
		return e.shell, []string{"-c", target.Command}, nil
	case KindBreadcrumb:
		if e.scriptPath == "" {
			return "", nil, errors.New("no default script configured")
		}
		return e.scriptPath, target.Path, nil
	default:
		return "", nil, fmt.Errorf("unknown target kind %d", target.Kind)
	}
}
