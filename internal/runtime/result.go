// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"sync"
	"time"
)

// Result is the outcome of one function execution.
type Result struct {
	// ExitCode is the child's exit code; 0 on success.
	ExitCode int
	// Output is the combined stdout and stderr, empty when streamed.
	Output string
	// Duration is the wall-clock execution time.
	Duration time.Duration
}

// Success reports whether the execution exited cleanly.
func (r *Result) Success() bool { return r.ExitCode == 0 }

// syncBuffer is a mutex-guarded buffer: stdout and stderr of a child
// process write to it from separate goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
