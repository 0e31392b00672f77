// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/GangGreenTemperTatum/robopages-cli/internal/registry"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install [source]",
	Short: "Install a book repository into the local book path",
	Long: "Clone a book repository into the local book path, or update it\n" +
		"when already installed. The source is either a full git URL or a\n" +
		"GitHub owner/repo shorthand; without one, " + registry.DefaultSource + "\n" +
		"is installed.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := ""
		if len(args) == 1 {
			source = args[0]
		}
		path, err := registry.Install(cmd.Context(), source, resolveBookPath())
		if err != nil {
			return err
		}
		cmd.Println(SuccessStyle.Render("installed ") + path)
		return nil
	},
}
