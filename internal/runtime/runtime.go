// SPDX-License-Identifier: MPL-2.0

// Package runtime executes resolved functions. It consumes the book
// core's output and never influences classification: a function whose
// flavor cannot be resolved is rejected here before anything runs.
package runtime

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/GangGreenTemperTatum/robopages-cli/internal/container"
	"github.com/GangGreenTemperTatum/robopages-cli/pkg/book"
	"github.com/charmbracelet/log"
)

// Options controls one execution.
type Options struct {
	// Virtual runs shell-flavored bodies in the embedded interpreter
	// instead of spawning the host shell.
	Virtual bool
	// ForceContainer runs the function in its declared container image
	// even when the host could run it directly.
	ForceContainer bool
	// Stream wires the caller's stdio through instead of capturing
	// combined output into the Result.
	Stream bool
	// Stdin, Stdout and Stderr are the streams used when Stream is set.
	// Nil values default to the process stdio.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// WorkDir is the working directory; empty means the process one.
	WorkDir string
	// Env is extra environment on top of the process environment.
	Env map[string]string
}

// Executor runs functions according to their execution flavor.
type Executor struct {
	engine   container.Engine
	lookPath func(string) (string, error)
	shell    string
}

// ExecutorOption customizes an Executor.
type ExecutorOption func(*Executor)

// WithEngine sets the container engine used for image fallback.
func WithEngine(engine container.Engine) ExecutorOption {
	return func(e *Executor) { e.engine = engine }
}

// WithLookPath overrides interpreter resolution. Tests use this to
// simulate missing or present binaries.
func WithLookPath(fn func(string) (string, error)) ExecutorOption {
	return func(e *Executor) { e.lookPath = fn }
}

// WithShell pins the host shell instead of probing SHELL and PATH.
func WithShell(shell string) ExecutorOption {
	return func(e *Executor) { e.shell = shell }
}

// NewExecutor creates an Executor. The default container engine is
// docker, resolved lazily only when a containerized run is needed.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(e)
	}
	if e.engine == nil {
		e.engine = container.NewDockerEngine()
	}
	return e
}

// Execute resolves the function's flavor, interpolates its body with
// the given parameter values, and runs it. Resolution and interpolation
// errors are returned before anything is spawned.
func (e *Executor) Execute(ctx context.Context, fn *book.Function, values map[string]string, opts Options) (*Result, error) {
	flavor, err := book.ResolveFlavor(fn)
	if err != nil {
		return nil, err
	}
	script, err := fn.Render(values)
	if err != nil {
		return nil, err
	}

	streams, collect := newStreams(opts)
	start := time.Now()

	var res *Result
	switch flavor.Kind {
	case book.FlavorShell:
		res, err = e.executeShell(ctx, fn, script, streams, opts)
	case book.FlavorInterpreted:
		res, err = e.executeInterpreted(ctx, fn, flavor.Interpreter, script, streams, opts)
	}
	if err != nil {
		return nil, err
	}

	res.Output = collect()
	res.Duration = time.Since(start)
	log.Debug("function executed",
		"function", fn.Name, "flavor", flavor.String(),
		"exit", res.ExitCode, "duration", res.Duration)
	return res, nil
}

// executeShell dispatches a shell-flavored body to the embedded
// interpreter, a container, or the host shell.
func (e *Executor) executeShell(ctx context.Context, fn *book.Function, script string, streams ioStreams, opts Options) (*Result, error) {
	if opts.ForceContainer {
		return e.runShellContainer(ctx, fn, script, streams, opts)
	}
	if opts.Virtual {
		return e.runVirtual(ctx, script, streams, opts)
	}
	return e.runNative(ctx, script, streams, opts)
}

// executeInterpreted runs an interpreted body on the host when the
// interpreter binary exists, falling back to the declared container
// image when it does not.
func (e *Executor) executeInterpreted(ctx context.Context, fn *book.Function, interpreter, script string, streams ioStreams, opts Options) (*Result, error) {
	if opts.ForceContainer {
		return e.runInterpretedContainer(ctx, fn, interpreter, script, streams, opts)
	}

	path, err := e.lookPath(interpreter)
	if err != nil {
		if fn.ContainerImage != "" {
			log.Debug("interpreter missing, using container image",
				"interpreter", interpreter, "image", fn.ContainerImage)
			return e.runInterpretedContainer(ctx, fn, interpreter, script, streams, opts)
		}
		return nil, &MissingInterpreterError{Function: fn.Name, Interpreter: interpreter}
	}
	return e.runInterpreted(ctx, path, interpreter, script, streams, opts)
}

// ioStreams is the resolved stdio for one execution.
type ioStreams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// newStreams resolves the execution stdio. When output is captured,
// stdout and stderr share one buffer and collect returns its contents;
// when streaming, collect returns "".
func newStreams(opts Options) (ioStreams, func() string) {
	if opts.Stream {
		s := ioStreams{stdin: opts.Stdin, stdout: opts.Stdout, stderr: opts.Stderr}
		if s.stdin == nil {
			s.stdin = os.Stdin
		}
		if s.stdout == nil {
			s.stdout = os.Stdout
		}
		if s.stderr == nil {
			s.stderr = os.Stderr
		}
		return s, func() string { return "" }
	}

	buf := &syncBuffer{}
	return ioStreams{stdin: opts.Stdin, stdout: buf, stderr: buf}, buf.String
}
