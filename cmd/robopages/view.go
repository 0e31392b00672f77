// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/GangGreenTemperTatum/robopages-cli/internal/tui"
	"github.com/GangGreenTemperTatum/robopages-cli/pkg/book"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var viewFilter string

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "List the book's functions with their execution flavor",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBook(viewFilter)
		if err != nil {
			return err
		}

		rows := buildViewRows(b)

		table := tui.NewTable("page", "function", "flavor", "description")
		unresolved := 0
		for _, row := range rows {
			flavor := SuccessStyle.Render(row.flavor)
			if row.failed {
				flavor = ErrorStyle.Render(row.flavor)
				unresolved++
			}
			table.AddRow(row.page, FunctionStyle.Render(row.function), flavor, row.description)
		}

		cmd.Print(table.Render(tui.DefaultTableStyles()))
		summary := fmt.Sprintf("%d pages, %d functions", len(b.Pages), b.FunctionCount())
		if unresolved > 0 {
			summary += WarningStyle.Render(fmt.Sprintf(", %d unresolvable", unresolved))
		}
		cmd.Println(SubtitleStyle.Render(summary))
		return nil
	},
}

func init() {
	viewCmd.Flags().StringVarP(&viewFilter, "filter", "f", "", "keep only matching pages/functions")
}

// viewRow is one rendered listing line.
type viewRow struct {
	page        string
	function    string
	flavor      string
	description string
	failed      bool
}

// buildViewRows resolves every function's flavor concurrently and
// returns rows in document order. A resolution failure becomes the
// row's flavor text; it never aborts the listing.
func buildViewRows(b *book.Book) []viewRow {
	type ref struct {
		page *book.Page
		fn   *book.Function
	}
	var refs []ref
	for _, p := range b.Pages {
		for _, f := range p.Functions {
			refs = append(refs, ref{page: p, fn: f})
		}
	}

	rows := make([]viewRow, len(refs))
	var g errgroup.Group
	g.SetLimit(8)
	for i, r := range refs {
		g.Go(func() error {
			row := viewRow{
				page:        r.page.Breadcrumb(),
				function:    r.fn.Name,
				description: r.fn.Description,
			}
			flavor, err := book.ResolveFlavor(r.fn)
			if err != nil {
				row.flavor = err.Error()
				row.failed = true
			} else {
				row.flavor = flavor.String()
			}
			rows[i] = row
			return nil
		})
	}
	_ = g.Wait()
	return rows
}
