// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/GangGreenTemperTatum/robopages-cli/internal/config"
	"github.com/GangGreenTemperTatum/robopages-cli/internal/issue"
	"github.com/GangGreenTemperTatum/robopages-cli/pkg/book"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	verbose  bool
	cfgFile  string
	bookPath string

	rootCmd = &cobra.Command{
		Use:   "robopages",
		Short: "Man pages for robots",
		Long: TitleStyle.Render("robopages") + SubtitleStyle.Render(" - man pages for robots") + `

robopages loads books of Markdown pages that declare named, executable
functions, lists them with their execution flavor, exports them as LLM
function-calling tools, serves them over HTTP, and runs them locally or
in containers.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Install the default book:     robopages install
  2. List everything it declares:  robopages view
  3. Run a function:               robopages run nmap_port_scan`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/robopages/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&bookPath, "path", "p", "", "book path (default from config, ROBOPAGES_PATH, or ~/.robopages)")

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(toJSONCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(installCmd)
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command through fang. It is called by
// main.main and exits the process with the resolved code.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// resolveBookPath returns the book path for this invocation: the --path
// flag when set, else the configured path.
func resolveBookPath() string {
	if bookPath != "" {
		return bookPath
	}
	return config.Get().Path
}

// loadBook loads the book at the resolved path, rendering the matching
// guidance document on failure.
func loadBook(filter string) (*book.Book, error) {
	path := resolveBookPath()
	b, err := book.FromPath(path, filter)
	if err != nil {
		renderIssue(classifyLoadError(err))
		return nil, err
	}
	return b, nil
}

// classifyLoadError maps a load failure to its guidance document.
func classifyLoadError(err error) issue.Id {
	var ioErr *book.IOError
	if errors.As(err, &ioErr) {
		return issue.BookNotFoundId
	}
	return issue.BookParseErrorId
}

// renderIssue prints a known failure mode's guidance to stderr; the
// raw error still travels up the command chain.
func renderIssue(id issue.Id) {
	i, ok := issue.Lookup(id)
	if !ok {
		return
	}
	out, err := i.Render()
	if err != nil {
		log.Debug("cannot render guidance", "issue", id, "err", err)
		return
	}
	fmt.Fprint(os.Stderr, out)
}
