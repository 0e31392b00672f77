// SPDX-License-Identifier: MPL-2.0

// Package issue is a registry of known robopages failure modes. Each
// issue carries Markdown guidance rendered to the terminal when the
// failure surfaces at the CLI boundary, so users get a fix recipe
// instead of a bare error string.
package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies one known failure mode.
type Id int

const (
	// BookNotFoundId is raised when no book exists at the given path.
	BookNotFoundId Id = iota + 1
	// BookParseErrorId is raised when a book document fails to parse.
	BookParseErrorId
	// FunctionNotFoundId is raised when a named function is not in the book.
	FunctionNotFoundId
	// InterpreterMissingId is raised when a function's interpreter is not
	// installed and no container image fallback exists.
	InterpreterMissingId
	// ContainerEngineNotFoundId is raised when a containerized run is
	// requested but docker is unavailable.
	ContainerEngineNotFoundId
	// ShellNotFoundId is raised when no usable host shell exists.
	ShellNotFoundId
)

// Issue is one registered failure mode with its guidance document.
type Issue struct {
	id    Id
	mdMsg string
}

// Id returns the issue's identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() string { return i.mdMsg }

// Render renders the guidance document for terminal display.
func (i *Issue) Render() (string, error) {
	return render(i.mdMsg, "dark")
}

// render is swapped out by tests.
var render = glamour.Render

var (
	bookNotFoundIssue = &Issue{
		id: BookNotFoundId,
		mdMsg: `
# No book found!

We could not read a robopages book at the given path.

## Search order:
1. The path given with ` + "`--path`" + `
2. ` + "`ROBOPAGES_PATH`" + ` from the environment
3. ` + "`~/.robopages`" + `

## Things you can try:
- Install the default book:
~~~
$ robopages install
~~~

- Or create a starter page in the current directory:
~~~
$ robopages create
$ robopages view -p robopage.md
~~~`,
	}

	bookParseErrorIssue = &Issue{
		id: BookParseErrorId,
		mdMsg: `
# Failed to load the book!

A document in the book has a structural defect. The error above names
the file and location.

## Common issues:
- A fenced code block before any heading
- A code block without a ` + "`name=...`" + ` attribute
- Two functions sharing a name under one page
- Unclosed YAML frontmatter

## Example of a valid page:
~~~markdown
# Setup

Install the toolchain.

` + "```" + `bash name=install
apt-get install -y nmap
` + "```" + `
~~~`,
	}

	functionNotFoundIssue = &Issue{
		id: FunctionNotFoundId,
		mdMsg: `
# Function not found!

The function you asked for is not declared anywhere in the book.

## Things you can try:
- List every function with its flavor:
~~~
$ robopages view
~~~

- Narrow the listing to likely candidates:
~~~
$ robopages view -f <part-of-the-name>
~~~

- Qualified names disambiguate functions declared on several pages:
  ` + "`<page>_<function>`" + `, e.g. ` + "`nmap_port_scan`" + `.`,
	}

	interpreterMissingIssue = &Issue{
		id: InterpreterMissingId,
		mdMsg: `
# Interpreter not installed!

The function's body needs an interpreter that is not on your PATH, and
the function declares no container image to fall back to.

## Things you can try:
- Install the interpreter with your package manager
- Add an image to the function's declaration so robopages can run it
  in a container:
~~~markdown
` + "```" + `python name=scan image=python:3.12-slim
...
` + "```" + `
~~~`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Docker not available!

A containerized run was requested but the docker CLI is missing or the
daemon is not responding.

## Things you can try:
- Check the daemon:
~~~
$ docker version
~~~

- Install Docker: https://docs.docker.com/get-docker/
- Or drop ` + "`--force-container`" + ` and run on the host instead.`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# No shell found!

No usable shell was found on this system (checked SHELL, bash, sh).

## Things you can try:
- Set the SHELL environment variable to a POSIX shell
- Or run with the embedded shell, which needs no host shell:
~~~
$ robopages run <function> --virtual
~~~`,
	}

	registry = map[Id]*Issue{
		BookNotFoundId:            bookNotFoundIssue,
		BookParseErrorId:          bookParseErrorIssue,
		FunctionNotFoundId:        functionNotFoundIssue,
		InterpreterMissingId:      interpreterMissingIssue,
		ContainerEngineNotFoundId: containerEngineNotFoundIssue,
		ShellNotFoundId:           shellNotFoundIssue,
	}
)

// Lookup returns the registered issue for an Id.
func Lookup(id Id) (*Issue, bool) {
	i, ok := registry[id]
	return i, ok
}

// All returns every registered issue sorted by Id.
func All() []*Issue {
	ids := maps.Keys(registry)
	slices.Sort(ids)
	issues := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		issues = append(issues, registry[id])
	}
	return issues
}
