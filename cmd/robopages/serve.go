// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/GangGreenTemperTatum/robopages-cli/internal/config"
	"github.com/GangGreenTemperTatum/robopages-cli/internal/runtime"
	"github.com/GangGreenTemperTatum/robopages-cli/internal/server"
	"github.com/GangGreenTemperTatum/robopages-cli/pkg/book"
	"github.com/spf13/cobra"
)

var (
	serveFilter  string
	serveAddress string
	serveWorkers int
	serveWatch   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the book as an HTTP function-calling API",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveBookPath()
		loader := func() (*book.Book, error) {
			return book.FromPath(path, serveFilter)
		}

		// Fail fast with guidance before binding anything.
		if _, err := loader(); err != nil {
			renderIssue(classifyLoadError(err))
			return err
		}

		address := serveAddress
		if address == "" {
			address = config.Get().Address
		}
		workers := serveWorkers
		if workers == 0 {
			workers = config.Get().Workers
		}

		s := server.New(server.Config{
			Address:  address,
			Workers:  workers,
			BookPath: path,
			Watch:    serveWatch,
		}, loader, runtime.NewExecutor())
		return s.Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFilter, "filter", "f", "", "keep only matching pages/functions")
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address (default from config)")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "concurrent tool-call workers (default from config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the book when its documents change")
}
