// SPDX-License-Identifier: MPL-2.0

package book

import (
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"mvdan.cc/sh/v3/syntax"
)

// FlavorKind is the closed set of execution flavor variants.
type FlavorKind string

const (
	// FlavorShell marks a body runnable by a POSIX-compatible shell.
	FlavorShell FlavorKind = "shell"
	// FlavorInterpreted marks a body requiring an external interpreter.
	FlavorInterpreted FlavorKind = "interpreted"
)

// ExecutionFlavor classifies how a function body should be executed.
// Values are ephemeral: always recomputed by ResolveFlavor, never
// persisted on the Function itself.
type ExecutionFlavor struct {
	// Kind is the flavor variant.
	Kind FlavorKind
	// Interpreter is the interpreter base name for FlavorInterpreted,
	// empty for FlavorShell.
	Interpreter string
}

// ShellScript returns the shell execution flavor.
func ShellScript() ExecutionFlavor {
	return ExecutionFlavor{Kind: FlavorShell}
}

// InterpretedScript returns the interpreted execution flavor for the
// given interpreter base name.
func InterpretedScript(interpreter string) ExecutionFlavor {
	return ExecutionFlavor{Kind: FlavorInterpreted, Interpreter: interpreter}
}

// String returns "shell" for shell bodies and the interpreter name for
// interpreted ones.
func (f ExecutionFlavor) String() string {
	if f.Kind == FlavorInterpreted {
		return f.Interpreter
	}
	return string(f.Kind)
}

// shellInterpreters maps shell interpreter base names to true. Bodies
// declaring one of these run under the shell flavor; "shell" itself is
// accepted as the common Markdown fence alias.
var shellInterpreters = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "dash": true,
	"ash": true, "ksh": true, "mksh": true, "shell": true,
}

// interpreterExtensions maps recognized interpreter base names to the
// file extension their scripts conventionally carry. Membership in this
// map is what makes an interpreter "known" to the resolver; the set is
// closed so classification stays deterministic.
var interpreterExtensions = map[string]string{
	"python": ".py", "python3": ".py", "python2": ".py",
	"ruby": ".rb", "perl": ".pl", "node": ".js", "deno": ".ts",
	"fish": ".fish", "pwsh": ".ps1", "powershell": ".ps1",
	"php": ".php", "lua": ".lua", "Rscript": ".R",
}

// IsShellInterpreter returns true if the interpreter is a
// POSIX-compatible shell. Paths and Windows executable extensions are
// tolerated ("/bin/bash", "bash.exe").
func IsShellInterpreter(interpreter string) bool {
	return shellInterpreters[interpreterBase(interpreter)]
}

// ExtensionForInterpreter returns the conventional script file
// extension for a known interpreter, or the empty string.
func ExtensionForInterpreter(interpreter string) string {
	return interpreterExtensions[interpreterBase(interpreter)]
}

// KnownInterpreters returns the recognized non-shell interpreter base
// names, sorted. The caller owns the slice.
func KnownInterpreters() []string {
	names := maps.Keys(interpreterExtensions)
	slices.Sort(names)
	return names
}

// interpreterBase normalizes an interpreter reference to its base name:
// "/usr/bin/env python3" callers should resolve first, this handles
// "/bin/bash" and "bash.exe" forms.
func interpreterBase(interpreter string) string {
	base := filepath.Base(interpreter)
	return strings.TrimSuffix(base, ".exe")
}

// ShebangInfo contains parsed shebang information from a body.
type ShebangInfo struct {
	// Interpreter is the interpreter path or command name (e.g. "/bin/bash", "python3").
	Interpreter string
	// Args contains additional arguments for the interpreter (e.g. ["-u"]).
	Args []string
	// Found indicates whether a valid shebang was detected.
	Found bool
}

// ParseShebang extracts interpreter information from a body's first
// line. Supported forms:
//
//	#!/bin/bash                    -> Interpreter "/bin/bash"
//	#!/usr/bin/env python3         -> Interpreter "python3"
//	#!/usr/bin/env -S python3 -u   -> Interpreter "python3", Args ["-u"]
//	#!/usr/bin/perl -w             -> Interpreter "/usr/bin/perl", Args ["-w"]
//
// A space after "#!" is allowed. Returns Found: false when the body
// carries no valid shebang.
func ParseShebang(body string) ShebangInfo {
	firstLine := body
	if idx := strings.IndexByte(body, '\n'); idx != -1 {
		firstLine = body[:idx]
	}
	firstLine = strings.TrimSuffix(firstLine, "\r")
	firstLine = strings.TrimSpace(firstLine)

	if !strings.HasPrefix(firstLine, "#!") {
		return ShebangInfo{Found: false}
	}

	parts := strings.Fields(strings.TrimPrefix(firstLine, "#!"))
	if len(parts) == 0 {
		return ShebangInfo{Found: false}
	}

	interpreter := parts[0]
	args := parts[1:]

	// /usr/bin/env finds the real interpreter in PATH
	if interpreter == "/usr/bin/env" || interpreter == "/bin/env" {
		return parseEnvShebang(args)
	}

	return ShebangInfo{Interpreter: interpreter, Args: args, Found: true}
}

// parseEnvShebang handles "#!/usr/bin/env" shebangs, including the -S
// split-string mode common on BSD/macOS.
func parseEnvShebang(args []string) ShebangInfo {
	if len(args) == 0 {
		return ShebangInfo{Found: false}
	}

	if args[0] == "-S" {
		if len(args) < 2 {
			return ShebangInfo{Found: false}
		}
		return ShebangInfo{Interpreter: args[1], Args: args[2:], Found: true}
	}

	// Skip any other env flags and take the first non-flag word.
	for i, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			return ShebangInfo{Interpreter: arg, Args: args[i+1:], Found: true}
		}
	}
	return ShebangInfo{Found: false}
}

// ResolveFlavor classifies a function body into exactly one execution
// flavor. It is a pure function of the body and its declared metadata:
// no hidden state, no PATH probing, same result on every call.
//
// Precedence, first match wins:
//  1. An explicit declaration (fence tag, else shebang) naming a shell
//     yields the shell flavor; naming a known interpreter yields the
//     interpreted flavor; naming anything else fails with
//     UnsupportedFlavorError.
//  2. With no declaration, a blank body fails with AmbiguousFlavorError;
//     a body accepted by the POSIX/Bash grammar yields the shell
//     flavor; anything else fails with AmbiguousFlavorError.
func ResolveFlavor(f *Function) (ExecutionFlavor, error) {
	tag := strings.TrimSpace(f.Body.Tag)
	if tag == "" {
		if sb := ParseShebang(f.Body.Text); sb.Found {
			tag = sb.Interpreter
		}
	}

	if tag != "" {
		base := interpreterBase(tag)
		if shellInterpreters[base] {
			return ShellScript(), nil
		}
		if _, ok := interpreterExtensions[base]; ok {
			return InterpretedScript(base), nil
		}
		return ExecutionFlavor{}, &UnsupportedFlavorError{Tag: tag}
	}

	if strings.TrimSpace(f.Body.Text) == "" {
		return ExecutionFlavor{}, &AmbiguousFlavorError{Function: f.Name}
	}
	if isShellSyntax(f.Body.Text) {
		return ShellScript(), nil
	}
	return ExecutionFlavor{}, &AmbiguousFlavorError{Function: f.Name}
}

// isShellSyntax reports whether the body parses under the default shell
// grammar. Parsing is purely syntactic; it never consults the host.
func isShellSyntax(body string) bool {
	parser := syntax.NewParser()
	_, err := parser.Parse(strings.NewReader(body), "")
	return err == nil
}
