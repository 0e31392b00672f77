// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	toJSONFilter string
	toJSONOutput string
)

var toJSONCmd = &cobra.Command{
	Use:   "to-json",
	Short: "Export the book as an LLM function-calling tool list",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBook(toJSONFilter)
		if err != nil {
			return err
		}
		tools, err := b.ToolSet()
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(tools, "", "  ")
		if err != nil {
			return fmt.Errorf("encode tool set: %w", err)
		}
		data = append(data, '\n')

		if toJSONOutput != "" {
			if err := os.WriteFile(toJSONOutput, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", toJSONOutput, err)
			}
			cmd.Println(SubtitleStyle.Render(fmt.Sprintf("wrote %d tools to %s", len(tools.Tools), toJSONOutput)))
			return nil
		}
		cmd.Print(string(data))
		return nil
	},
}

func init() {
	toJSONCmd.Flags().StringVarP(&toJSONFilter, "filter", "f", "", "keep only matching pages/functions")
	toJSONCmd.Flags().StringVarP(&toJSONOutput, "output", "o", "", "write to file instead of stdout")
}
