// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// runNative runs a shell script with the host shell.
func (e *Executor) runNative(ctx context.Context, script string, streams ioStreams, opts Options) (*Result, error) {
	shell, err := e.hostShell()
	if err != nil {
		return nil, err
	}

	args := append(shellArgs(shell), script)
	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Dir = opts.WorkDir
	cmd.Env = append(os.Environ(), envToSlice(opts.Env)...)
	cmd.Stdin = streams.stdin
	cmd.Stdout = streams.stdout
	cmd.Stderr = streams.stderr

	return resultFromRun(cmd.Run())
}

// hostShell picks the shell to spawn: the configured one, then SHELL,
// then bash, then sh. Windows prefers pwsh, powershell, cmd.
func (e *Executor) hostShell() (string, error) {
	if e.shell != "" {
		return e.shell, nil
	}

	if runtime.GOOS == "windows" {
		for _, candidate := range []string{"pwsh", "powershell", "cmd"} {
			if path, err := e.lookPath(candidate); err == nil {
				return path, nil
			}
		}
		return "", errors.New("no shell found")
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		return shell, nil
	}
	for _, candidate := range []string{"bash", "sh"} {
		if path, err := e.lookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no shell found")
}

// shellArgs returns the flag that makes the shell run the following
// argument as a script.
func shellArgs(shell string) []string {
	base := strings.TrimSuffix(filepath.Base(shell), ".exe")
	switch base {
	case "cmd":
		return []string{"/C"}
	case "pwsh", "powershell":
		return []string{"-NoProfile", "-Command"}
	default:
		return []string{"-c"}
	}
}

// resultFromRun turns a cmd.Run error into a Result, keeping child exit
// codes out of the error channel.
func resultFromRun(err error) (*Result, error) {
	if err == nil {
		return &Result{}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &Result{ExitCode: exitErr.ExitCode()}, nil
	}
	return nil, fmt.Errorf("execute command: %w", err)
}

// envToSlice flattens an env map into KEY=value form.
func envToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
