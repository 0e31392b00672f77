// SPDX-License-Identifier: MPL-2.0

package book

import "strings"

// Filter returns a book narrowed to the functions matching the given
// expression. Matching is a case-insensitive substring test against the
// page path (categories and name joined with "/") and against each
// function name; a page whose path matches keeps all of its functions.
// Pages left without a matching function are dropped. Ordering is
// preserved, and the receiver is never modified.
//
// An empty expression is the identity transform. An expression matching
// nothing yields a book with zero pages; deciding how to present "no
// results" is the caller's concern.
func (b *Book) Filter(expr string) *Book {
	q := strings.ToLower(strings.TrimSpace(expr))
	if q == "" {
		return b
	}

	out := &Book{Path: b.Path}
	for _, p := range b.Pages {
		pageMatch := strings.Contains(strings.ToLower(p.ID()), q)

		var kept []*Function
		for _, f := range p.Functions {
			if pageMatch || strings.Contains(strings.ToLower(f.Name), q) {
				kept = append(kept, f)
			}
		}
		if len(kept) == 0 {
			continue
		}

		out.Pages = append(out.Pages, &Page{
			Name:        p.Name,
			Categories:  p.Categories,
			Description: p.Description,
			Functions:   kept,
		})
	}
	return out
}
