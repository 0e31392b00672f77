// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// runVirtual runs a shell script in the embedded POSIX interpreter.
// No external process is spawned for the shell itself; commands the
// script invokes still run on the host.
func (e *Executor) runVirtual(ctx context.Context, script string, streams ioStreams, opts Options) (*Result, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "")
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	workDir := opts.WorkDir
	if workDir == "" {
		if wd, wdErr := os.Getwd(); wdErr == nil {
			workDir = wd
		}
	}

	env := append(os.Environ(), envToSlice(opts.Env)...)
	runner, err := interp.New(
		interp.Dir(workDir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(streams.stdin, streams.stdout, streams.stderr),
	)
	if err != nil {
		return nil, fmt.Errorf("create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &Result{ExitCode: int(status)}, nil
		}
		return nil, fmt.Errorf("script execution failed: %w", err)
	}
	return &Result{}, nil
}
