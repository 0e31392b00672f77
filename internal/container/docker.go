// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
)

// DockerEngine runs containers through the docker CLI.
type DockerEngine struct {
	binaryPath  string
	execCommand ExecCommandFunc
}

// DockerOption customizes a DockerEngine.
type DockerOption func(*DockerEngine)

// WithExecCommand overrides how the engine spawns the docker CLI.
// Tests use this to substitute a fake process.
func WithExecCommand(fn ExecCommandFunc) DockerOption {
	return func(e *DockerEngine) {
		e.execCommand = fn
	}
}

// WithBinaryPath overrides the docker binary path instead of resolving
// it from PATH.
func WithBinaryPath(path string) DockerOption {
	return func(e *DockerEngine) {
		e.binaryPath = path
	}
}

// NewDockerEngine creates a docker engine. The binary is resolved from
// PATH at construction; Available reports whether that succeeded and
// the daemon answers.
func NewDockerEngine(opts ...DockerOption) *DockerEngine {
	path, _ := exec.LookPath("docker")
	e := &DockerEngine{
		binaryPath:  path,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the engine name.
func (e *DockerEngine) Name() string { return "docker" }

// BinaryPath returns the resolved docker binary path, empty when docker
// is not installed.
func (e *DockerEngine) BinaryPath() string { return e.binaryPath }

// Available checks that the docker binary exists and the daemon responds.
func (e *DockerEngine) Available() bool {
	if e.binaryPath == "" {
		return false
	}
	cmd := e.execCommand(context.Background(), e.binaryPath, "version", "--format", "{{.Server.Version}}")
	return cmd.Run() == nil
}

// Run runs a command in a fresh container and returns its exit code.
func (e *DockerEngine) Run(ctx context.Context, opts RunOptions) (int, error) {
	if e.binaryPath == "" {
		return 1, errors.New("docker binary not found")
	}
	if opts.Image == "" {
		return 1, errors.New("no container image specified")
	}

	cmd := e.execCommand(ctx, e.binaryPath, RunArgs(opts)...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("run container: %w", err)
	}
	return 0, nil
}

// RunArgs builds the docker CLI arguments for a RunOptions. Exported so
// argument construction stays testable without a daemon. Environment
// variables are emitted in sorted key order for determinism.
func RunArgs(opts RunOptions) []string {
	args := []string{"run", "--rm", "-i"}

	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}
	for _, m := range opts.Mounts {
		spec := m.HostPath + ":" + m.ContainerPath
		if m.ReadOnly {
			spec += ":ro"
		}
		args = append(args, "-v", spec)
	}

	keys := make([]string, 0, len(opts.Env))
	for k := range opts.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-e", k+"="+opts.Env[k])
	}

	args = append(args, opts.Image)
	args = append(args, opts.Command...)
	return args
}
