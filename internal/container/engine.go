// SPDX-License-Identifier: MPL-2.0

// Package container runs function bodies inside containers by shelling
// out to the docker CLI. It exists as a fallback for functions whose
// interpreter is not installed on the host but which declare a
// container image.
package container

import (
	"context"
	"io"
	"os/exec"
)

// ExecCommandFunc creates the exec.Cmd an engine runs. Tests inject a
// fake so no daemon is required.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// Mount binds a host path into the container.
type Mount struct {
	// HostPath is the absolute path on the host.
	HostPath string
	// ContainerPath is the mount point inside the container.
	ContainerPath string
	// ReadOnly mounts the path read-only.
	ReadOnly bool
}

// RunOptions describes a single containerized execution.
type RunOptions struct {
	// Image is the image to run.
	Image string
	// Command is the command and its arguments.
	Command []string
	// WorkDir is the working directory inside the container.
	WorkDir string
	// Env is the container environment.
	Env map[string]string
	// Mounts are the host paths bound into the container.
	Mounts []Mount
	// Stdin, Stdout and Stderr wire the container's stdio.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Engine runs commands in containers.
type Engine interface {
	// Name returns the engine name.
	Name() string
	// Available reports whether the engine can run containers right now.
	Available() bool
	// Run runs a command in a fresh container, removed afterwards, and
	// returns its exit code.
	Run(ctx context.Context, opts RunOptions) (int, error)
}
