// SPDX-License-Identifier: MPL-2.0

package runtime

import "fmt"

// MissingInterpreterError reports a function whose interpreter binary
// is not on PATH and which declares no container image to fall back to.
type MissingInterpreterError struct {
	// Function is the function that could not run.
	Function string
	// Interpreter is the required interpreter base name.
	Interpreter string
}

// Error returns the error message for MissingInterpreterError.
func (e *MissingInterpreterError) Error() string {
	return fmt.Sprintf("function %q requires %q, which is not installed and has no container image fallback",
		e.Function, e.Interpreter)
}
