// SPDX-License-Identifier: MPL-2.0

// Package book loads robopages books: Markdown documents whose headings
// group named, executable functions into categorized pages. The package
// owns the document grammar, the Book/Page/Function model, filtering,
// and the pure classification of each function body into an execution
// flavor. It never executes anything itself.
package book

import "strings"

// Book is the root entity of a loaded document (or document tree).
// Pages appear in document order and are immutable after construction.
type Book struct {
	// Path is the filesystem location the book was loaded from.
	Path string
	// Pages holds the book's pages in document order.
	Pages []*Page
}

// Page is one categorized group of functions. Its identity is the full
// heading breadcrumb: Categories followed by Name.
type Page struct {
	// Name is the last breadcrumb segment.
	Name string
	// Categories is the breadcrumb prefix leading to this page.
	Categories []string
	// Description is the page-level description from frontmatter, if any.
	Description string
	// Functions holds the page's functions in declaration order.
	Functions []*Function
}

// Function is a single named, executable declaration. Its execution
// flavor is derived by ResolveFlavor, never stored, so a book stays
// loadable and inspectable even when some functions are unexecutable.
type Function struct {
	// Name is the function's name, unique within its page.
	Name string
	// Description is the free text preceding the declaration, may be empty.
	Description string
	// Body is the raw declaration payload.
	Body Body
	// ContainerImage is the container image to fall back to when the
	// required binary is unavailable on the host. Empty when unset.
	ContainerImage string
}

// Body is a function's raw payload: the block text plus the structured
// metadata declared on the block itself.
type Body struct {
	// Text is the raw block content.
	Text string
	// Tag is the declared interpreter tag from the block info string,
	// empty when the block declares none.
	Tag string
	// Attrs holds the remaining key=value attributes from the info string.
	Attrs map[string]string
}

// Parameter is one interpolation placeholder derived from a function
// body, in first-appearance order.
type Parameter struct {
	// Name is the placeholder name.
	Name string
	// Default is the fallback value; meaningful only when Required is false.
	Default string
	// Required reports whether the placeholder declares no default.
	Required bool
}

// ID returns the page's unique identifier within its book: the full
// breadcrumb joined with "/".
func (p *Page) ID() string {
	return strings.Join(append(append([]string{}, p.Categories...), p.Name), "/")
}

// Breadcrumb returns the page's display path, e.g. "web/scanners > nikto".
func (p *Page) Breadcrumb() string {
	if len(p.Categories) == 0 {
		return p.Name
	}
	return strings.Join(p.Categories, "/") + " > " + p.Name
}

// Function returns the named function, or nil when the page does not
// declare it.
func (p *Page) Function(name string) *Function {
	for _, f := range p.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Page returns the page with the given ID, or nil.
func (b *Book) Page(id string) *Page {
	for _, p := range b.Pages {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// FunctionCount returns the total number of functions across all pages.
func (b *Book) FunctionCount() int {
	n := 0
	for _, p := range b.Pages {
		n += len(p.Functions)
	}
	return n
}

// FindFunction returns every (page, function) pair whose function name
// matches exactly, in document order. Multiple pages may declare the
// same function name.
func (b *Book) FindFunction(name string) []FunctionRef {
	var refs []FunctionRef
	for _, p := range b.Pages {
		if f := p.Function(name); f != nil {
			refs = append(refs, FunctionRef{Page: p, Function: f})
		}
	}
	return refs
}

// FunctionRef pairs a function with the page declaring it.
type FunctionRef struct {
	Page     *Page
	Function *Function
}

func joinBreadcrumb(parts []string) string {
	return strings.Join(parts, " > ")
}
