// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/GangGreenTemperTatum/robopages-cli/internal/container"
	"github.com/GangGreenTemperTatum/robopages-cli/pkg/book"
)

// containerScriptDir is where the script temp directory is mounted
// inside fallback containers.
const containerScriptDir = "/robopages"

// runInterpreted writes the script to a temp file carrying the
// interpreter's conventional extension and runs the interpreter on it.
func (e *Executor) runInterpreted(ctx context.Context, interpreterPath, interpreter, script string, streams ioStreams, opts Options) (*Result, error) {
	path, cleanup, err := writeScript(interpreter, script)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cmd := exec.CommandContext(ctx, interpreterPath, path)
	cmd.Dir = opts.WorkDir
	cmd.Env = append(os.Environ(), envToSlice(opts.Env)...)
	cmd.Stdin = streams.stdin
	cmd.Stdout = streams.stdout
	cmd.Stderr = streams.stderr

	return resultFromRun(cmd.Run())
}

// runShellContainer runs a shell script inside the function's image.
func (e *Executor) runShellContainer(ctx context.Context, fn *book.Function, script string, streams ioStreams, opts Options) (*Result, error) {
	return e.runContainer(ctx, fn, container.RunOptions{
		Command: []string{"sh", "-c", script},
		Env:     opts.Env,
	}, streams)
}

// runInterpretedContainer mounts the script into the function's image
// and runs the interpreter there.
func (e *Executor) runInterpretedContainer(ctx context.Context, fn *book.Function, interpreter, script string, streams ioStreams, opts Options) (*Result, error) {
	path, cleanup, err := writeScript(interpreter, script)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return e.runContainer(ctx, fn, container.RunOptions{
		Command: []string{interpreter, containerScriptDir + "/" + filepath.Base(path)},
		Env:     opts.Env,
		Mounts: []container.Mount{{
			HostPath:      filepath.Dir(path),
			ContainerPath: containerScriptDir,
			ReadOnly:      true,
		}},
	}, streams)
}

func (e *Executor) runContainer(ctx context.Context, fn *book.Function, runOpts container.RunOptions, streams ioStreams) (*Result, error) {
	if fn.ContainerImage == "" {
		return nil, fmt.Errorf("function %q declares no container image", fn.Name)
	}
	if !e.engine.Available() {
		return nil, fmt.Errorf("container engine %q is not available", e.engine.Name())
	}

	runOpts.Image = fn.ContainerImage
	runOpts.Stdin = streams.stdin
	runOpts.Stdout = streams.stdout
	runOpts.Stderr = streams.stderr

	code, err := e.engine.Run(ctx, runOpts)
	if err != nil {
		return nil, err
	}
	return &Result{ExitCode: code}, nil
}

// writeScript persists a script to a temp file so interpreters that
// cannot read programs from arguments can run it. The returned cleanup
// removes the file's private directory.
func writeScript(interpreter, script string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "robopages-*")
	if err != nil {
		return "", nil, fmt.Errorf("create script dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	name := "script" + book.ExtensionForInterpreter(interpreter)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write script: %w", err)
	}
	return path, cleanup, nil
}
