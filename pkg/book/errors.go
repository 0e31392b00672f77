// SPDX-License-Identifier: MPL-2.0

package book

import "fmt"

// IOError reports a book path that could not be read at all.
// Loading stops immediately; filesystem state does not self-heal
// within a single invocation.
type IOError struct {
	// Path is the book path that failed to load.
	Path string
	// Err is the underlying filesystem error.
	Err error
}

// Error returns the error message for IOError.
func (e *IOError) Error() string {
	return fmt.Sprintf("cannot read book at %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a structural defect in a book document, such as a
// code block declared before any heading. It always names the offending
// location so the author can fix the source.
type ParseError struct {
	// Path is the document that failed to parse.
	Path string
	// Line is the 1-based line of the defect, 0 when unknown.
	Line int
	// Reason describes the defect.
	Reason string
}

// Error returns the error message for ParseError.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// MalformedBlockError reports a code block that cannot become a
// Function, e.g. one missing its name attribute. The breadcrumb and
// block index locate the block within the document.
type MalformedBlockError struct {
	// Path is the document containing the block.
	Path string
	// Breadcrumb is the heading path above the block.
	Breadcrumb []string
	// Index is the 0-based position of the block under its heading.
	Index int
	// Reason describes what is wrong with the block.
	Reason string
}

// Error returns the error message for MalformedBlockError.
func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("%s: malformed block %d under %q: %s",
		e.Path, e.Index, joinBreadcrumb(e.Breadcrumb), e.Reason)
}

// DuplicateFunctionError reports two functions sharing a name within
// one page. Ambiguous identity is never resolved by last-write-wins;
// the whole load fails so the authoring mistake surfaces.
type DuplicateFunctionError struct {
	// Page is the page path containing the duplicates.
	Page string
	// Function is the repeated function name.
	Function string
}

// Error returns the error message for DuplicateFunctionError.
func (e *DuplicateFunctionError) Error() string {
	return fmt.Sprintf("page %q declares function %q more than once", e.Page, e.Function)
}

// UnsupportedFlavorError reports a function that declares an
// interpreter the resolver does not recognize. It is scoped to the one
// function queried and never fails the enclosing book.
type UnsupportedFlavorError struct {
	// Tag is the declared interpreter tag.
	Tag string
}

// Error returns the error message for UnsupportedFlavorError.
func (e *UnsupportedFlavorError) Error() string {
	return fmt.Sprintf("unsupported interpreter %q", e.Tag)
}

// AmbiguousFlavorError reports a function body that matches no known
// execution shape. Classification never silently defaults, since
// choosing a flavor could execute the body with the wrong interpreter.
type AmbiguousFlavorError struct {
	// Function is the name of the unresolvable function.
	Function string
}

// Error returns the error message for AmbiguousFlavorError.
func (e *AmbiguousFlavorError) Error() string {
	return fmt.Sprintf("cannot determine execution flavor for %q", e.Function)
}

// MissingParameterError reports interpolation of a body whose required
// parameter was not supplied.
type MissingParameterError struct {
	// Parameter is the placeholder name with no value and no default.
	Parameter string
}

// Error returns the error message for MissingParameterError.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("no value for required parameter %q", e.Parameter)
}

// ToolNameCollisionError reports two functions whose qualified export
// names still collide, making a flat tool namespace impossible.
type ToolNameCollisionError struct {
	// Name is the colliding qualified tool name.
	Name string
	// Pages are the page paths declaring the colliding functions.
	Pages []string
}

// Error returns the error message for ToolNameCollisionError.
func (e *ToolNameCollisionError) Error() string {
	return fmt.Sprintf("tool name %q is declared by multiple pages: %v", e.Name, e.Pages)
}
